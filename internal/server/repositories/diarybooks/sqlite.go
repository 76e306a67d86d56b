package diarybooks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/server/models"
)

// ErrIDTaken is returned by Create when the book id is already used.
var ErrIDTaken = errors.New("diary book id taken")

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, b *models.DiaryBook) error {
	query := `INSERT INTO diary_book (id, name, creation_time) VALUES (?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, b.ID, b.Name, b.CreationTime); err != nil {
		if dbx.IsPrimaryKeyViolation(err) {
			return ErrIDTaken
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddOwner(ctx context.Context, userID, bookID int64) error {
	query := `INSERT INTO user_diary_book (user_id, diary_book_id) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, userID, bookID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.DiaryBook, error) {
	query := `SELECT id, name, creation_time FROM diary_book WHERE id = ?`

	b := &models.DiaryBook{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// ListByUser returns the books owned by userID, oldest first.
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID int64) ([]models.DiaryBook, error) {
	query := `SELECT b.id, b.name, b.creation_time
		FROM diary_book b
		JOIN user_diary_book u ON u.diary_book_id = b.id
		WHERE u.user_id = ?
		ORDER BY b.creation_time, b.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var books []models.DiaryBook
	for rows.Next() {
		var b models.DiaryBook
		if err := rows.Scan(&b.ID, &b.Name, &b.CreationTime); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return books, nil
}

func (r *SQLiteRepository) IsOwner(ctx context.Context, userID, bookID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM user_diary_book WHERE user_id = ? AND diary_book_id = ?`

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID, bookID).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n != 0, nil
}
