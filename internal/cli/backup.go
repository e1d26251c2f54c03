package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/reflekt/internal/backup"
	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/logger"
)

var errBackupUnsupported = errors.New("backups are only supported for the sqlite store")

func (c *Context) backupManager() (*backup.Manager, error) {
	if c.Config == nil || c.Config.Store.Kind != constants.StoreSQLite {
		return nil, errBackupUnsupported
	}
	return backup.NewManager(c.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}

	path, err := mgr.Create(context.Background())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Printf("✓ Backup created: %s\n", filepath.Base(path))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}

	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), backup.DefaultKeep)
	for _, b := range backups {
		ctx.Printf("  %s  %s  %s\n",
			b.CreatedAt.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			mutedStyle.Render(fmt.Sprintf("(%.1f KB)", float64(b.Size)/1024.0)))
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	path := mgr.Resolve(c.BackupFile)

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Replace your reflection database with " + filepath.Base(path) + "?").
			Description("A backup of the current database is created first.").
			Value(&confirmed).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		if !confirmed {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		logger.Warn("failed to close database before restore", "error", err)
	}

	safety, err := mgr.Restore(context.Background(), path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if safety != "" {
		ctx.Printf("Created backup of current database: %s\n", filepath.Base(safety))
	}
	ctx.Println("✓ Database restored successfully!")
	return nil
}
