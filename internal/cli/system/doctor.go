package system

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/reflekt/internal/backup"
	"github.com/julianstephens/reflekt/internal/cli"
	"github.com/julianstephens/reflekt/internal/constants"
	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/keyring"
	"github.com/julianstephens/reflekt/internal/utils"
)

type DoctorCmd struct{}

type pinger interface {
	Ping(ctx context.Context) error
}

type sqlBacked interface {
	GetDB() *sql.DB
}

// checkResult is the outcome of one diagnostic. A warning never fails the run.
type checkResult struct {
	err     error
	skipped bool
	warning bool
}

func (c *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, r checkResult) {
		switch {
		case r.skipped:
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", name)
		case r.err != nil && r.warning:
			ctx.Printf("⚠ %s: WARNING\n", name)
			ctx.Printf("   %v\n", r.err)
		case r.err != nil:
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", r.err)
			hasError = true
		default:
			ctx.Printf("✓ %s: OK\n", name)
		}
	}

	report("Configuration", checkResult{err: checkConfig(ctx)})

	reachErr := checkStoreReachable(ctx)
	report("Store reachable", checkResult{err: reachErr})
	reachable := reachErr == nil

	for _, check := range []struct {
		name string
		fn   func(*cli.Context) error
	}{
		{"Schema version", checkSchemaVersion},
		{"Migrations complete", checkMigrationsComplete},
		{"Consistency record", checkRecordReadable},
	} {
		if !reachable {
			report(check.name, checkResult{skipped: true})
			continue
		}
		report(check.name, checkResult{err: check.fn(ctx)})
	}

	report("Clock and timezone", checkResult{err: checkClockTimezone(ctx)})
	report("OS keyring", checkResult{err: checkKeyring(), warning: true})
	if ctx.Config != nil && ctx.Config.Store.Kind == constants.StoreSQLite {
		report("Backups", checkResult{err: checkBackupsPresent(ctx), warning: true})
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkConfig(ctx *cli.Context) error {
	if ctx.Config == nil {
		return errors.New("no configuration loaded")
	}
	return ctx.Config.Validate()
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultStoreTimeout)
	defer cancel()

	switch s := ctx.Store.(type) {
	case pinger:
		return s.Ping(pingCtx)
	case sqlBacked:
		db := s.GetDB()
		if db == nil {
			return errors.New("database connection is nil")
		}
		var one int
		if err := db.QueryRowContext(pingCtx, "SELECT 1").Scan(&one); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	runner, err := m.Runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion(context.Background())
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(migrator)
	if !ok {
		return nil
	}
	runner, err := m.Runner()
	if err != nil {
		return err
	}
	pending, err := runner.Pending(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list pending migrations: %w", err)
	}
	if len(pending) > 0 {
		return fmt.Errorf("%d migration(s) pending, run '%s migrate'", len(pending), constants.AppName)
	}
	return nil
}

// checkRecordReadable reads the configured user's record through the engine.
// A user without reflections is healthy.
func checkRecordReadable(ctx *cli.Context) error {
	_, err := ctx.Engine.Record(context.Background(), ctx.UserID)
	if err == nil || errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Config != nil && !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("timezone %q is not a valid IANA timezone", ctx.Config.Timezone)
	}
	return nil
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}
