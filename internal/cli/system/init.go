package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/reflekt/internal/cli"
	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/logger"
)

type InitCmd struct {
	Force bool `help:"Delete the existing sqlite database before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.wipe(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx.Printf("Initialized %s storage at: %s\n", constants.AppName, ctx.Store.GetConfigPath())
	return nil
}

// wipe removes the sqlite database file and its journal files. Other stores
// refuse --force since their data lives outside this machine.
func (c *InitCmd) wipe(ctx *cli.Context) error {
	if ctx.Config == nil || ctx.Config.Store.Kind != constants.StoreSQLite {
		return fmt.Errorf("--force is only supported for the sqlite store")
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	path := ctx.Store.GetConfigPath()
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	logger.Warn("existing database removed", "path", path)
	return nil
}
