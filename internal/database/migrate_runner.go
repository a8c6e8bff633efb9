package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// MigrationStore defines the interface for tracking and applying migrations.
type MigrationStore interface {
	GetAppliedMigrations(ctx context.Context) ([]int, error)
	ApplyMigration(ctx context.Context, version int, name, sql string) error
	RevertMigration(ctx context.Context, version int, name, sql string) error
}

type migrationStore struct {
	db *gorm.DB
}

// MigrationLog represents a record of an applied migration in the database.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"autoCreateTime;index"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

// NewMigrationStore creates a new MigrationStore instance.
func NewMigrationStore(db *gorm.DB) MigrationStore {
	return &migrationStore{db: db}
}

func (s *migrationStore) GetAppliedMigrations(ctx context.Context) ([]int, error) {
	var versions []int
	if err := s.db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || isMissingTableError(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	return versions, nil
}

func isMissingTableError(err error) bool {
	msg := err.Error()
	return (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "no such table")
}

// ApplyMigration runs the up script and records it in one transaction.
func (s *migrationStore) ApplyMigration(ctx context.Context, version int, name, sql string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", version, name, err)
		}
		if err := tx.Create(&MigrationLog{Version: version, Name: name}).Error; err != nil {
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}
		return nil
	})
}

// RevertMigration runs the down script and forgets the version in one transaction.
func (s *migrationStore) RevertMigration(ctx context.Context, version int, name, sql string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to run rollback SQL for migration %d (%s): %w", version, name, err)
		}
		if err := tx.Where("version = ?", version).Delete(&MigrationLog{}).Error; err != nil {
			return fmt.Errorf("failed to remove migration record %d: %w", version, err)
		}
		return nil
	})
}

// MigrationStatus reports whether a known migration has been applied.
type MigrationStatus struct {
	Migration Migration
	Applied   bool
}

// Runner applies and reverts a fixed set of migrations.
type Runner struct {
	db         *gorm.DB
	store      MigrationStore
	migrations []Migration
	log        *slog.Logger
}

// NewRunner creates a runner for the given migrations (sorted by version).
func NewRunner(db *gorm.DB, migrations []Migration, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		db:         db,
		store:      NewMigrationStore(db),
		migrations: migrations,
		log:        log.With(slog.String("component", "migrate")),
	}
}

func (r *Runner) ensureLogTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&MigrationLog{}); err != nil {
		return fmt.Errorf("failed to ensure migration logs table: %w", err)
	}
	return nil
}

// Up applies every pending migration and returns how many ran.
func (r *Runner) Up(ctx context.Context) (int, error) {
	if err := r.ensureLogTable(ctx); err != nil {
		return 0, err
	}

	applied, err := r.store.GetAppliedMigrations(ctx)
	if err != nil {
		return 0, err
	}
	if err := validateAppliedVersions(applied, r.migrations); err != nil {
		return 0, err
	}

	appliedSet := make(map[int]bool, len(applied))
	for _, v := range applied {
		appliedSet[v] = true
	}

	count := 0
	for _, m := range r.migrations {
		if appliedSet[m.Version] {
			r.log.Debug("Migration already applied", slog.Int("version", m.Version), slog.String("name", m.Name))
			continue
		}

		r.log.Info("Applying migration", slog.Int("version", m.Version), slog.String("name", m.Name))
		if err := r.store.ApplyMigration(ctx, m.Version, m.Name, m.UpScript); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// Down reverts the most recent steps applied migrations, newest first.
func (r *Runner) Down(ctx context.Context, steps int) (int, error) {
	if steps <= 0 {
		return 0, fmt.Errorf("steps must be positive, got %d", steps)
	}
	if err := r.ensureLogTable(ctx); err != nil {
		return 0, err
	}

	applied, err := r.store.GetAppliedMigrations(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := len(applied) - 1; i >= 0 && count < steps; i-- {
		m := r.find(applied[i])
		if m == nil {
			return count, fmt.Errorf("migration version %d not found", applied[i])
		}

		r.log.Info("Rolling back migration", slog.Int("version", m.Version), slog.String("name", m.Name))
		if err := r.store.RevertMigration(ctx, m.Version, m.Name, m.DownScript); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Status lists every known migration with its applied flag.
func (r *Runner) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := r.ensureLogTable(ctx); err != nil {
		return nil, err
	}
	applied, err := r.store.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	appliedSet := make(map[int]bool, len(applied))
	for _, v := range applied {
		appliedSet[v] = true
	}

	out := make([]MigrationStatus, 0, len(r.migrations))
	for _, m := range r.migrations {
		out = append(out, MigrationStatus{Migration: m, Applied: appliedSet[m.Version]})
	}
	return out, nil
}

func (r *Runner) find(version int) *Migration {
	for i := range r.migrations {
		if r.migrations[i].Version == version {
			return &r.migrations[i]
		}
	}
	return nil
}

func validateAppliedVersions(applied []int, registered []Migration) error {
	if len(applied) == 0 {
		return nil
	}
	known := make(map[int]struct{}, len(registered))
	for _, m := range registered {
		known[m.Version] = struct{}{}
	}

	var unknown []int
	for _, version := range applied {
		if _, ok := known[version]; !ok {
			unknown = append(unknown, version)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	sort.Ints(unknown)
	parts := make([]string, 0, len(unknown))
	for _, version := range unknown {
		parts = append(parts, fmt.Sprintf("%06d", version))
	}
	return fmt.Errorf(
		"migration_logs contains unknown versions not present in code: %s",
		strings.Join(parts, ", "),
	)
}
