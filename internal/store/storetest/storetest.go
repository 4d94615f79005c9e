// Package storetest opens throwaway in-memory SQLite backends for tests.
package storetest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"

	"github.com/angelmondragon/storyboard-backend/internal/store"
	"github.com/angelmondragon/storyboard-backend/pkg/db"
)

var seq atomic.Int64

// SQLite returns a prepared backend that is closed when the test ends.
func SQLite(t testing.TB) *store.Backend {
	t.Helper()
	conn, err := db.Open(sqlite.Open(fmt.Sprintf("file:storetest_%d?mode=memory&cache=shared", seq.Add(1))))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	backend, err := store.NewGorm(conn)
	if err != nil {
		t.Fatalf("build backend: %v", err)
	}
	if err := backend.Prepare(context.Background()); err != nil {
		t.Fatalf("prepare backend: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return backend
}
