package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"skillswap/internal/middleware"

	"gorm.io/gorm"
)

// migrationLockKey is the pg_advisory_lock key held while migrations run.
const migrationLockKey int64 = 0x536b696c6c53

// MigrationLog is one row of migration_logs.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	Checksum  string    `gorm:"size:64"`
	AppliedAt time.Time `gorm:"autoCreateTime;index"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

// Checksum is the hex SHA-256 of the up script.
func (m *Migration) Checksum() string {
	sum := sha256.Sum256([]byte(m.UpScript))
	return hex.EncodeToString(sum[:])
}

// MigrationStore tracks applied migrations and runs scripts atomically with their log entry.
type MigrationStore interface {
	Applied(ctx context.Context) ([]MigrationLog, error)
	Apply(ctx context.Context, m Migration) error
	Revert(ctx context.Context, m Migration) error
}

type migrationStore struct {
	db *gorm.DB
}

// NewMigrationStore creates the migration_logs table if needed and returns a store over it.
func NewMigrationStore(ctx context.Context, db *gorm.DB) (MigrationStore, error) {
	if err := db.WithContext(ctx).AutoMigrate(&MigrationLog{}); err != nil {
		return nil, fmt.Errorf("ensure migration_logs: %w", err)
	}
	return &migrationStore{db: db}, nil
}

func (s *migrationStore) Applied(ctx context.Context) ([]MigrationLog, error) {
	var logs []MigrationLog
	if err := s.db.WithContext(ctx).Order("version ASC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	return logs, nil
}

func (s *migrationStore) Apply(ctx context.Context, m Migration) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.UpScript).Error; err != nil {
			return fmt.Errorf("apply migration %s: %w", m.String(), err)
		}
		return tx.Create(&MigrationLog{Version: m.Version, Name: m.Name, Checksum: m.Checksum()}).Error
	})
	if err != nil {
		return err
	}
	middleware.Logger.Info("Migration applied", slog.Int("version", m.Version), slog.String("name", m.Name))
	return nil
}

func (s *migrationStore) Revert(ctx context.Context, m Migration) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return fmt.Errorf("revert migration %s: %w", m.String(), err)
		}
		res := tx.Where("version = ?", m.Version).Delete(&MigrationLog{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("migration %d has not been applied", m.Version)
		}
		return nil
	})
	if err != nil {
		return err
	}
	middleware.Logger.Info("Migration rolled back", slog.Int("version", m.Version), slog.String("name", m.Name))
	return nil
}

// RunMigrations applies every pending embedded migration in version order.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	return withMigrationLock(ctx, db, func(conn *gorm.DB) error {
		return applyPending(ctx, conn, GetMigrations())
	})
}

func applyPending(ctx context.Context, db *gorm.DB, registered []Migration) error {
	store, err := NewMigrationStore(ctx, db)
	if err != nil {
		return err
	}
	applied, err := store.Applied(ctx)
	if err != nil {
		return err
	}
	if err := verifyApplied(applied, registered); err != nil {
		return err
	}

	done := make(map[int]bool, len(applied))
	for _, l := range applied {
		done[l.Version] = true
	}
	for _, m := range registered {
		if done[m.Version] {
			continue
		}
		middleware.Logger.Info("Applying migration", slog.Int("version", m.Version), slog.String("name", m.Name))
		if err := store.Apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// verifyApplied fails when the log holds versions that are no longer embedded or whose
// script changed after it ran. Rows without a checksum predate checksum tracking.
func verifyApplied(applied []MigrationLog, registered []Migration) error {
	byVersion := make(map[int]*Migration, len(registered))
	for i := range registered {
		byVersion[registered[i].Version] = &registered[i]
	}

	var problems []string
	for _, l := range applied {
		m, ok := byVersion[l.Version]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%06d is applied but unknown to this build", l.Version))
		case l.Checksum != "" && l.Checksum != m.Checksum():
			problems = append(problems, fmt.Sprintf("%s was edited after it was applied", m.String()))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("migration_logs does not match embedded migrations: %s", strings.Join(problems, "; "))
}

// RollbackMigration reverts version, which must be the most recently applied migration.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	return withMigrationLock(ctx, db, func(conn *gorm.DB) error {
		return rollback(ctx, conn, GetMigrations(), version)
	})
}

func rollback(ctx context.Context, db *gorm.DB, registered []Migration, version int) error {
	var target *Migration
	for i := range registered {
		if registered[i].Version == version {
			target = &registered[i]
		}
	}
	if target == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	store, err := NewMigrationStore(ctx, db)
	if err != nil {
		return err
	}
	applied, err := store.Applied(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return fmt.Errorf("migration %d has not been applied", version)
	}
	if latest := applied[len(applied)-1].Version; latest != version {
		return fmt.Errorf("migration %d is not the latest applied (latest is %06d)", version, latest)
	}

	middleware.Logger.Info("Rolling back migration", slog.Int("version", version), slog.String("name", target.Name))
	return store.Revert(ctx, *target)
}

// withMigrationLock serializes migration runs across processes on PostgreSQL.
// Other dialects run fn directly.
func withMigrationLock(ctx context.Context, db *gorm.DB, fn func(*gorm.DB) error) error {
	if db.Dialector.Name() != "postgres" {
		return fn(db)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection for migration lock: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", migrationLockKey); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", migrationLockKey); err != nil {
			middleware.Logger.Warn("failed to release migration lock", slog.String("error", err.Error()))
		}
	}()

	return fn(db)
}
