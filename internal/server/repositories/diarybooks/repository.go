// Package diarybooks persists diary books and their ownership.
package diarybooks

import (
	"context"

	"github.com/dmitrijs2005/diary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, b *models.DiaryBook) error
	AddOwner(ctx context.Context, userID, bookID int64) error
	Get(ctx context.Context, id int64) (*models.DiaryBook, error)
	ListByUser(ctx context.Context, userID int64) ([]models.DiaryBook, error)
	IsOwner(ctx context.Context, userID, bookID int64) (bool, error)
}
