package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/reflekt/internal/cli"
	"github.com/julianstephens/reflekt/internal/migration"
)

// migrator is implemented by the SQL stores.
type migrator interface {
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	Runner() (*migration.Runner, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		ctx.Println("This store has no SQL migrations; its schema is defined on init.")
		return nil
	}

	count, err := m.Migrate(context.Background(), func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("Successfully applied %d migration(s).\n", count)
	}
	return nil
}
