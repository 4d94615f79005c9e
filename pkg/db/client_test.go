package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storyboard-backend/pkg/config"
)

type testModel struct {
	ID    int
	Email string `gorm:"uniqueIndex"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestClientPingAndClose(t *testing.T) {
	client := NewFromConn(newTestDB(t))
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping after close to fail")
	}
}

func TestUniqueViolationTranslated(t *testing.T) {
	conn := newTestDB(t)
	if err := conn.Create(&testModel{Email: "a@example.com"}).Error; err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	err := conn.Create(&testModel{Email: "a@example.com"}).Error
	if err == nil {
		t.Fatal("expected duplicate insert to fail")
	}
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm sentinel", err: gorm.ErrDuplicatedKey, want: true},
		{name: "postgres text", err: errors.New(`ERROR: duplicate key value violates unique constraint "idx_user_email"`), constraint: "idx_user_email", want: true},
		{name: "other constraint", err: errors.New(`duplicate key value violates unique constraint "idx_other"`), constraint: "idx_user_email", want: false},
		{name: "sqlite text", err: errors.New("UNIQUE constraint failed: user.email"), want: true},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
				t.Fatalf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(context.Background(), "mysql", config.DBConfig{}, nil); err == nil {
		t.Fatal("expected unsupported driver error")
	}
	if _, err := New(context.Background(), config.StoreDriverPostgres, config.DBConfig{}, nil); err == nil {
		t.Fatal("expected missing dsn error")
	}
}
