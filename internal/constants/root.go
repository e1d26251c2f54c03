package constants

import "time"

const (
	AppName            = "reflekt"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/reflekt/reflekt.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Store kinds
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreSurreal  = "surreal"
	StoreMemory   = "memory"

	// Store call limits
	DefaultStoreTimeout       = 5 * time.Second
	DefaultMaxConflictRetries = 3

	// Reflection input bounds (characters, after sanitizing)
	MinReflectionLength = 10
	MaxReflectionLength = 2000

	// Mood score bounds
	MinMoodScore = 1
	MaxMoodScore = 100
)
