// Package users persists user accounts and profiles.
package users

import (
	"context"

	"github.com/dmitrijs2005/diary/internal/server/models"
)

type Repository interface {
	// Create inserts u. A taken username yields common.ErrorAlreadyExists and
	// a taken id yields ErrIDTaken.
	Create(ctx context.Context, u *models.User) error
	Exists(ctx context.Context, username string) (bool, error)
	FindID(ctx context.Context, username string) (int64, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetProfile(ctx context.Context, id int64) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, id int64, p models.ProfileUpdate) error
}
