// Package diaries persists diary entries and their placement in books.
package diaries

import (
	"context"

	"github.com/dmitrijs2005/diary/internal/server/models"
)

type Repository interface {
	// Create stores the diary row (id, content, creation time) of e.
	Create(ctx context.Context, e *models.DiaryEntry) error
	// AttachToBook records e's book, date and title.
	AttachToBook(ctx context.Context, e *models.DiaryEntry) error
	Get(ctx context.Context, id int64) (*models.DiaryEntry, error)
	ListByBook(ctx context.Context, bookID int64) ([]models.DiaryEntry, error)
}
