package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/diary/internal/server/repositories/diarybooks"
	"github.com/dmitrijs2005/diary/internal/server/repositories/info"
	"github.com/dmitrijs2005/diary/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the database or an
// open transaction, and applies the schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	DiaryBooks(db dbx.DBTX) diarybooks.Repository
	Diaries(db dbx.DBTX) diaries.Repository
	Info(db dbx.DBTX) info.Repository
}
