package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://testuser@localhost:5432/reflekt?sslmode=disable"
	if err := Set(PostgresConnection, connStr); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := Get(PostgresConnection)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("Get() = %q, want %q", got, connStr)
	}

	if _, err := Get(SurrealPassword); err != ErrNotFound {
		t.Errorf("secrets should be stored independently, got %v", err)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(SurrealPassword, ""); err == nil {
		t.Error("Set with empty value should return an error")
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(SurrealPassword, "hunter2"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := Delete(SurrealPassword); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := Get(SurrealPassword); err != ErrNotFound {
		t.Errorf("after Delete(), Get() error = %v, want %v", err, ErrNotFound)
	}
	if err := Delete(SurrealPassword); err != ErrNotFound {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}
}

func TestResolve(t *testing.T) {
	gokeyring.MockInit()

	got, err := Resolve(PostgresConnection, "")
	if err != nil || got != "" {
		t.Errorf("Resolve with empty keyring = %q, %v", got, err)
	}

	if err := Set(PostgresConnection, "host=localhost dbname=reflekt"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, _ = Resolve(PostgresConnection, "")
	if got != "host=localhost dbname=reflekt" {
		t.Errorf("Resolve fallback = %q", got)
	}

	got, _ = Resolve(PostgresConnection, "host=override")
	if got != "host=override" {
		t.Errorf("explicit value should win, got %q", got)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() should be true with the mock keyring")
	}
}
