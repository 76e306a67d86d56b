package diaries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/server/models"
)

var ErrIDTaken = errors.New("diary id taken")

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectEntry = `SELECT d.id, e.book_id, e.title, e.date, d.content, d.creation_time
	FROM diary d
	JOIN diary_book_entry e ON e.diary_id = d.id`

func (r *SQLiteRepository) Create(ctx context.Context, e *models.DiaryEntry) error {
	query := `INSERT INTO diary (id, content, creation_time) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, e.ID, e.Content, e.CreationTime); err != nil {
		if dbx.IsPrimaryKeyViolation(err) {
			return ErrIDTaken
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AttachToBook(ctx context.Context, e *models.DiaryEntry) error {
	query := `INSERT INTO diary_book_entry (book_id, diary_id, date, title) VALUES (?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, e.BookID, e.ID, e.Date, e.Title); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.DiaryEntry, error) {
	query := selectEntry + ` WHERE d.id = ?`

	var e models.DiaryEntry
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&e.ID, &e.BookID, &e.Title, &e.Date, &e.Content, &e.CreationTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &e, nil
}

// ListByBook returns the entries of a book ordered by date, then creation.
func (r *SQLiteRepository) ListByBook(ctx context.Context, bookID int64) ([]models.DiaryEntry, error) {
	query := selectEntry + ` WHERE e.book_id = ? ORDER BY e.date, d.creation_time, d.id`

	rows, err := r.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var entries []models.DiaryEntry
	for rows.Next() {
		var e models.DiaryEntry
		if err := rows.Scan(&e.ID, &e.BookID, &e.Title, &e.Date, &e.Content, &e.CreationTime); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entries, nil
}
