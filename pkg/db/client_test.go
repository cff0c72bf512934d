package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/pkg/config"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), gormConfig(nil))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := NewFromGorm(db)

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := newTestDB(t)
	client := NewFromGorm(db)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&testModel{Name: "doomed"}).Error; err != nil {
				return err
			}
			panic("boom")
		})
	}()

	var count int64
	if err := db.Model(&testModel{}).Where("name = ?", "doomed").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected panic to roll back, found %d rows", count)
	}
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{Driver: "sqlite"}, nil); err == nil {
		t.Fatal("expected error without DSN")
	}
}

func TestPing(t *testing.T) {
	client := NewFromGorm(newTestDB(t))
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&testModel{Name: "dup"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	err := db.Create(&testModel{Name: "dup"}).Error
	if err == nil {
		t.Fatal("expected duplicate insert to fail")
	}
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestIsUniqueViolation_Postgres(t *testing.T) {
	pgxErr := &pgconn.PgError{Code: "23505", ConstraintName: "brands_slug_key"}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", pgxErr), "brands_slug_key") {
		t.Fatal("expected pgx unique violation to match constraint")
	}
	if IsUniqueViolation(pgxErr, "brands_name_key") {
		t.Fatal("did not expect different constraint to match")
	}

	pqErr := &pq.Error{Code: "23505", Constraint: "users_email_key"}
	if !IsUniqueViolation(pqErr, "") {
		t.Fatal("expected pq unique violation")
	}

	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil is never a violation")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("load: %w", gorm.ErrRecordNotFound)) {
		t.Fatal("expected wrapped not found to match")
	}
}
