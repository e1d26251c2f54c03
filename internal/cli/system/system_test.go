package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/reflekt/internal/cli"
	"github.com/julianstephens/reflekt/internal/config"
	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/storage"
	"github.com/julianstephens/reflekt/internal/storage/memory"
	"github.com/julianstephens/reflekt/internal/storage/sqlite"
)

func testConfig(kind, dbPath string) *config.Config {
	return &config.Config{
		UserID:   "tester",
		Timezone: "UTC",
		Store:    config.StoreConfig{Kind: kind, Path: dbPath},
		Engine: config.EngineConfig{
			StoreTimeout:       constants.DefaultStoreTimeout,
			MaxConflictRetries: constants.DefaultMaxConflictRetries,
		},
	}
}

func newContext(cfg *config.Config, store storage.Provider) (*cli.Context, *bytes.Buffer) {
	ctx := cli.NewContext(cfg, store, time.UTC)
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out
}

// setupSQLite returns a context over an uninitialized sqlite database.
func setupSQLite(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	dbPath := filepath.Join(t.TempDir(), "reflekt.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { store.Close() })

	ctx, out := newContext(testConfig(constants.StoreSQLite, dbPath), store)
	return ctx, out, dbPath
}

func setupMemory(t *testing.T) (*cli.Context, *bytes.Buffer) {
	return newContext(testConfig(constants.StoreMemory, ""), memory.New())
}
