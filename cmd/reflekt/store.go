package main

import (
	"errors"
	"fmt"

	"github.com/julianstephens/reflekt/internal/config"
	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/keyring"
	"github.com/julianstephens/reflekt/internal/storage"
	"github.com/julianstephens/reflekt/internal/storage/memory"
	"github.com/julianstephens/reflekt/internal/storage/postgres"
	"github.com/julianstephens/reflekt/internal/storage/sqlite"
	"github.com/julianstephens/reflekt/internal/storage/surreal"
)

// openStore builds the configured backend. Credentials missing from the
// configuration are read from the OS keyring.
func openStore(cfg *config.Config) (storage.Provider, error) {
	switch cfg.Store.Kind {
	case constants.StoreSQLite:
		return sqlite.NewStore(cfg.Store.Path), nil

	case constants.StorePostgres:
		connStr, err := keyring.Resolve(keyring.PostgresConnection, cfg.Store.Connection)
		if err != nil {
			return nil, err
		}
		if connStr == "" {
			return nil, fmt.Errorf("no PostgreSQL connection string: set REFLEKT_DB_CONNECTION, pass --config or run '%s keyring set'", constants.AppName)
		}
		// Only strings from the environment or flags must be password-free
		if cfg.Store.Connection != "" {
			if _, err := postgres.ValidateConnString(connStr); err != nil {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, fmt.Errorf("%w: store it with '%s keyring set' or use .pgpass instead", err, constants.AppName)
				}
				return nil, err
			}
		}
		return postgres.New(connStr), nil

	case constants.StoreSurreal:
		sc := cfg.Store.Surreal
		if sc.Password == "" {
			pw, err := keyring.Resolve(keyring.SurrealPassword, "")
			if err != nil {
				return nil, err
			}
			sc.Password = pw
		}
		return surreal.New(sc), nil

	case constants.StoreMemory:
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store.Kind)
	}
}
