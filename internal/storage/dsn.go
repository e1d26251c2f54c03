package storage

import "strings"

// IsPostgresConnString reports whether s looks like a PostgreSQL URL or
// key/value DSN rather than a file path.
func IsPostgresConnString(s string) bool {
	return strings.HasPrefix(s, "postgres://") ||
		strings.HasPrefix(s, "postgresql://") ||
		strings.Contains(s, "host=")
}
