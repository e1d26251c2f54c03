package system

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/reflekt/internal/storage/storagetest"
)

func TestInitCmd_Success(t *testing.T) {
	ctx, out, dbPath := setupSQLite(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
	if !strings.Contains(out.String(), "Initialized reflekt storage at: "+dbPath) {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, _ := setupSQLite(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, _, _ := setupSQLite(t)
	bg := context.Background()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	ev := storagetest.Event("tester", time.Now(), 20, nil)
	if err := ctx.Store.InsertEvent(bg, ev); err != nil {
		t.Fatalf("InsertEvent failed: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("force init failed: %v", err)
	}

	events, err := ctx.Store.RecentEvents(bg, "tester", 10)
	if err != nil {
		t.Fatalf("RecentEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected an empty database after --force, got %d events", len(events))
	}
}

func TestInitCmd_ForceRejectedForOtherStores(t *testing.T) {
	ctx, _ := setupMemory(t)
	if err := (&InitCmd{Force: true}).Run(ctx); err == nil {
		t.Fatal("expected --force to be rejected for the memory store")
	}
}
