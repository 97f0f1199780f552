// Package repository implements the card store on SQLite.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/yourusername/language-enforcer/internal/models"
	"github.com/yourusername/language-enforcer/migrations"
)

// SQLite is the local card store. SQLite supports a single writer, so the
// connection pool is capped at one open connection; the grading guard on top
// of that turns a concurrent grade on the same card into ErrConflict instead
// of queueing it.
type SQLite struct {
	db   *sqlx.DB
	tx   *sqlx.Tx
	psql squirrel.StatementBuilderType

	grading *gradeGuard

	// beforeReviewAppend, when set, runs inside the grading transaction
	// between the card update and the review insert. Fault-injection seam
	// for atomicity tests.
	beforeReviewAppend func() error
}

func NewDB(path string) (*SQLite, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to database (path: %s): %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLite{
		db:      db,
		psql:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		grading: newGradeGuard(),
	}, nil
}

func (r *SQLite) Close() error {
	return r.db.Close()
}

// Up applies the embedded migrations.
func (r *SQLite) Up() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(r.db.DB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (r *SQLite) Begin() (*SQLite, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &SQLite{
		db:                 r.db,
		tx:                 tx,
		psql:               r.psql,
		grading:            r.grading,
		beforeReviewAppend: r.beforeReviewAppend,
	}, nil
}

func (r *SQLite) Commit() error {
	if r.tx == nil {
		return fmt.Errorf("no active transaction to commit")
	}
	return r.tx.Commit()
}

func (r *SQLite) Rollback() error {
	if r.tx == nil {
		return fmt.Errorf("no active transaction to rollback")
	}
	return r.tx.Rollback()
}

func (r *SQLite) RunInTx(ctx context.Context, fn func(models.Repository) error) error {
	if r.tx != nil {
		// Already inside a transaction, reuse it.
		return fn(r)
	}

	txRepo, err := r.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = txRepo.Rollback()
			panic(p)
		}
	}()

	if err = fn(txRepo); err != nil {
		_ = txRepo.Rollback()
		return err
	}

	return txRepo.Commit()
}

func (r *SQLite) executor() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *SQLite) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.executor().ExecContext(ctx, query, args...)
}

func (r *SQLite) QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row {
	return r.executor().QueryRowxContext(ctx, query, args...)
}

func (r *SQLite) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, r.executor(), dest, query, args...)
}

func (r *SQLite) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, r.executor(), dest, query, args...)
}

// gradeGuard marks cards with a grade application in flight. It is shared
// between the root store and its transaction clones.
type gradeGuard struct {
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func newGradeGuard() *gradeGuard {
	return &gradeGuard{inFlight: make(map[uuid.UUID]struct{})}
}

func (g *gradeGuard) acquire(cardID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[cardID]; busy {
		return false
	}
	g.inFlight[cardID] = struct{}{}
	return true
}

func (g *gradeGuard) release(cardID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, cardID)
}
