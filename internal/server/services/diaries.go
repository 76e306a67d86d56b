package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/logging"
	"github.com/dmitrijs2005/diary/internal/server/auth"
	"github.com/dmitrijs2005/diary/internal/server/models"
)

// DiaryService manages diary books and entries of the session holder. A book
// or entry the caller does not own is reported as common.ErrorNotFound.
type DiaryService struct {
	store  DiaryStore
	logger logging.Logger
}

func NewDiaryService(store DiaryStore, logger logging.Logger) *DiaryService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &DiaryService{store: store, logger: logger.With("component", "diaries")}
}

func (s *DiaryService) CreateDiaryBook(ctx context.Context, claims *auth.Claims, name string) (int64, error) {
	if claims == nil {
		return 0, common.ErrorInvalidSession
	}
	name = strings.TrimSpace(name)
	if err := validateName("book name", name, maxNameLen); err != nil {
		return 0, err
	}

	id, err := s.store.CreateDiaryBook(ctx, name, claims.UserID)
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "diary book created", "book_id", id, "user_id", claims.UserID)
	return id, nil
}

// ListDiaryBooks returns the caller's books; never nil.
func (s *DiaryService) ListDiaryBooks(ctx context.Context, claims *auth.Claims) ([]models.DiaryBook, error) {
	if claims == nil {
		return nil, common.ErrorInvalidSession
	}
	books, err := s.store.ListDiaryBooks(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []models.DiaryBook{}
	}
	return books, nil
}

// GetDiaryBook returns one of the caller's books. A book owned by someone
// else is reported as not found.
func (s *DiaryService) GetDiaryBook(ctx context.Context, claims *auth.Claims, bookID int64) (*models.DiaryBook, error) {
	if claims == nil {
		return nil, common.ErrorInvalidSession
	}
	if err := s.checkOwner(ctx, claims.UserID, bookID); err != nil {
		return nil, err
	}
	b, err := s.store.GetDiaryBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

// AddDiary files a new entry for date (YYYYMMDD) in one of the caller's books.
func (s *DiaryService) AddDiary(ctx context.Context, claims *auth.Claims, bookID int64, title string, date int64, content string) (int64, error) {
	if claims == nil {
		return 0, common.ErrorInvalidSession
	}
	title = strings.TrimSpace(title)
	if err := validateName("title", title, maxTitleLen); err != nil {
		return 0, err
	}
	if !ValidDate(date) {
		return 0, invalid("date %d is not a YYYYMMDD day", date)
	}
	if err := s.checkOwner(ctx, claims.UserID, bookID); err != nil {
		return 0, err
	}

	id, err := s.store.AddDiary(ctx, bookID, title, date, content)
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "diary added", "diary_id", id, "book_id", bookID)
	return id, nil
}

func (s *DiaryService) ListDiaries(ctx context.Context, claims *auth.Claims, bookID int64) ([]models.DiaryEntry, error) {
	if claims == nil {
		return nil, common.ErrorInvalidSession
	}
	if err := s.checkOwner(ctx, claims.UserID, bookID); err != nil {
		return nil, err
	}
	entries, err := s.store.ListDiaries(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.DiaryEntry{}
	}
	return entries, nil
}

func (s *DiaryService) GetDiary(ctx context.Context, claims *auth.Claims, diaryID int64) (*models.DiaryEntry, error) {
	if claims == nil {
		return nil, common.ErrorInvalidSession
	}
	e, err := s.store.GetDiary(ctx, diaryID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, common.ErrorNotFound
	}
	if err := s.checkOwner(ctx, claims.UserID, e.BookID); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *DiaryService) checkOwner(ctx context.Context, userID, bookID int64) error {
	ok, err := s.store.IsBookOwner(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}
