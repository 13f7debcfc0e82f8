package chat

import (
	"testing"

	"chatd/pkg/models"
	"chatd/pkg/store"
	"chatd/pkg/utils"
)

// setupStore opens a throwaway pebble database for one test.
func setupStore(t *testing.T) {
	t.Helper()
	if err := store.Open(t.TempDir()); err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("store.Close: %v", err)
		}
	})
}

// setClock pins the record clock to a mutable instant so tests control
// timestamps deterministically.
func setClock(t *testing.T, start int64) *int64 {
	t.Helper()
	now := start
	prev := utils.NowMs
	utils.NowMs = func() int64 { return now }
	t.Cleanup(func() { utils.NowMs = prev })
	return &now
}

// mkUser creates a user through the normal sync path and returns the
// stored record.
func mkUser(t *testing.T, identity, name string) models.User {
	t.Helper()
	u, err := SyncProfile(identity, name, name+"@example.com", "")
	if err != nil {
		t.Fatalf("SyncProfile(%s): %v", identity, err)
	}
	return u
}
