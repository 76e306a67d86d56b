// Package repomanager provides a concrete RepositoryManager for SQLite,
// wiring together repository constructors and the embedded schema (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/logging"
	"github.com/dmitrijs2005/diary/internal/server/migrations"
	"github.com/dmitrijs2005/diary/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/diary/internal/server/repositories/diarybooks"
	"github.com/dmitrijs2005/diary/internal/server/repositories/info"
	"github.com/dmitrijs2005/diary/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations.
type SQLiteRepositoryManager struct {
	logger logging.Logger
}

func NewSQLiteRepositoryManager(logger logging.Logger) *SQLiteRepositoryManager {
	if logger == nil {
		logger = logging.Nop()
	}
	return &SQLiteRepositoryManager{logger: logger}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) DiaryBooks(db dbx.DBTX) diarybooks.Repository {
	return diarybooks.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Diaries(db dbx.DBTX) diaries.Repository {
	return diaries.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Info(db dbx.DBTX) info.Repository {
	return info.NewSQLiteRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema. The schema only uses
// IF NOT EXISTS statements, so running it against an existing file is a no-op.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(gooseLogger{ctx: ctx, l: m.logger})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// gooseLogger routes goose output into the application logger.
type gooseLogger struct {
	ctx context.Context
	l   logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Debug(g.ctx, fmt.Sprintf(format, v...), "component", "goose")
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	g.l.Error(g.ctx, msg, "component", "goose")
	panic(msg)
}
