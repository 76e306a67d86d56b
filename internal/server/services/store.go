// Package services holds the application logic of the diary server: account
// creation, authentication, profiles and diary management on top of the
// storage engine.
package services

import (
	"context"

	"github.com/dmitrijs2005/diary/internal/server/models"
)

// UserStore is the part of *storage.Store used by UserService. Absence is an
// empty result, never an error.
type UserStore interface {
	UserExists(ctx context.Context, username string) (bool, error)
	AddUser(ctx context.Context, username, hash, salt string) (int64, error)
	FindUserID(ctx context.Context, username string) (int64, bool, error)
	GetUserCredentials(ctx context.Context, username string) (*models.User, error)
	GetUserProfile(ctx context.Context, id int64) (*models.UserProfile, error)
	UpdateUserProfile(ctx context.Context, id int64, p models.ProfileUpdate) (bool, error)
}

// DiaryStore is the part of *storage.Store used by DiaryService.
type DiaryStore interface {
	CreateDiaryBook(ctx context.Context, name string, ownerID int64) (int64, error)
	GetDiaryBook(ctx context.Context, id int64) (*models.DiaryBook, error)
	ListDiaryBooks(ctx context.Context, userID int64) ([]models.DiaryBook, error)
	IsBookOwner(ctx context.Context, userID, bookID int64) (bool, error)
	AddDiary(ctx context.Context, bookID int64, title string, date int64, content string) (int64, error)
	ListDiaries(ctx context.Context, bookID int64) ([]models.DiaryEntry, error)
	GetDiary(ctx context.Context, id int64) (*models.DiaryEntry, error)
}

type BootstrapStore interface {
	GetBootstrapInfo(ctx context.Context) (*models.BootstrapInfo, error)
	SetBootstrapInfo(ctx context.Context, bi *models.BootstrapInfo) error
}
