package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/diary/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/diary/internal/server/repositories/diarybooks"
	"github.com/dmitrijs2005/diary/internal/server/repositories/info"
	"github.com/dmitrijs2005/diary/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	var m RepositoryManager = NewSQLiteRepositoryManager(nil)

	var _ users.Repository = m.Users(db)
	var _ diarybooks.Repository = m.DiaryBooks(db)
	var _ diaries.Repository = m.Diaries(db)
	var _ info.Repository = m.Info(db)

	assert.IsType(t, &users.SQLiteRepository{}, m.Users(db))
	assert.IsType(t, &diarybooks.SQLiteRepository{}, m.DiaryBooks(db))
	assert.IsType(t, &diaries.SQLiteRepository{}, m.Diaries(db))
	assert.IsType(t, &info.SQLiteRepository{}, m.Info(db))
}

func TestRunMigrations_Seam(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	m := NewSQLiteRepositoryManager(nil)
	require.NoError(t, m.RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	err := m.RunMigrations(context.Background(), db)
	require.EqualError(t, err, "boom")
}

func TestRunMigrations_RealSchemaIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite", "file:repomanager_migrations?mode=memory&cache=shared")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	m := NewSQLiteRepositoryManager(nil)
	ctx := context.Background()
	require.NoError(t, m.RunMigrations(ctx, db))
	require.NoError(t, m.RunMigrations(ctx, db))

	for _, table := range []string{"user", "diary_book", "diary", "user_diary_book", "diary_book_entry", "info"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}
