// Package store implements the embedded relational store PaperGraph
// builds into: connection setup, schema migration and every
// transactional bulk operation the orchestrator needs (§4.3).
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/pgerrors"
)

// Store wraps a gorm connection opened against a single SQLite file.
// Connection/transaction/logging plumbing goes through gorm; schema
// and every hot-path query in this package are raw SQL via
// db.Exec/db.Raw, because the target schema is rowid-keyed and
// spec-exact rather than struct-tag-derived.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
	retry  *pgerrors.RetryExecutor
}

// Open opens (creating if necessary) the SQLite database at path,
// enables WAL and foreign keys, and runs the v1 migration if the
// schema version counter is below 1.
func Open(path string, logger *slog.Logger) (*Store, error) {
	gormConfig := &gorm.Config{
		Logger: newGormLogger(logger),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := db.Exec("PRAGMA foreign_keys=ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
		retry:  pgerrors.NewRetryExecutor(pgerrors.WithStoreRetry(), pgerrors.NewErrorClassifier(), logger),
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx executes fn inside a single transaction; every bulk
// operation the orchestrator performs goes through this (§4.3: "all
// bulk operations execute in a single transaction"). A transaction
// whose error the classifier marks as a transient store error is
// retried with backoff: SQLite's "database is locked"/SQLITE_BUSY
// (WAL writer contention), and also any "sql:", "constraint failed"
// or "no such table" error. Any other failure aborts after the first
// attempt.
func (s *Store) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.retry.Execute(ctx, "with_tx", func() error {
		return s.db.WithContext(ctx).Transaction(fn)
	})
}

// RetryStats returns the bulk-transaction retry counters accumulated
// over this Store's lifetime, backing the run summary (§6, §12).
func (s *Store) RetryStats() pgerrors.RetryStats {
	return s.retry.GetStats()
}

func (s *Store) schemaVersion() (int, error) {
	var version int
	row := s.db.Raw("PRAGMA user_version").Row()
	if err := row.Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func (s *Store) setSchemaVersion(version int) error {
	return s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)).Error
}

func (s *Store) migrate() error {
	version, err := s.schemaVersion()
	if err != nil {
		return err
	}
	if version >= 1 {
		return nil
	}

	for _, stmt := range migrationV1 {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration v1 statement %q: %w", stmt, err)
		}
	}

	if err := s.setSchemaVersion(1); err != nil {
		return err
	}

	s.logger.Info("store schema migrated", slog.Int("version", 1))
	return nil
}

// gormLoggerAdapter adapts slog to gorm's logger.Interface, matching
// the teacher's GormLogger shape.
type gormLoggerAdapter struct {
	logger *slog.Logger
}

func newGormLogger(l *slog.Logger) logger.Interface {
	return &gormLoggerAdapter{logger: l}
}

func (l *gormLoggerAdapter) LogMode(logger.LogLevel) logger.Interface { return l }

func (l *gormLoggerAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
}

func (l *gormLoggerAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
}

func (l *gormLoggerAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
}

func (l *gormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	args := []any{
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	}

	if err != nil {
		args = append(args, slog.String("error", err.Error()))
		l.logger.ErrorContext(ctx, "store query failed", args...)
	} else {
		l.logger.DebugContext(ctx, "store query executed", args...)
	}
}
