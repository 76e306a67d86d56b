// Package storage is the single entry point to the diary database. A Store
// owns one SQLite connection, serializes every operation behind a mutex and
// reports absence as an empty result rather than an error.
//
// Driver failures are logged here with full detail and surfaced to callers
// only as common.ErrorStorage wrapped with the operation name.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/logging"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/dmitrijs2005/diary/internal/server/repositories/diaries"
	"github.com/dmitrijs2005/diary/internal/server/repositories/diarybooks"
	"github.com/dmitrijs2005/diary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/diary/internal/server/repositories/users"
)

// maxIDAttempts bounds how often a colliding random id is redrawn.
const maxIDAttempts = 8

type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger

	now   func() time.Time
	newID func() int64
}

// Open opens or creates the database at path, applies the schema and makes
// sure the bootstrap row exists. path is a file name or a "file:" URI.
func Open(ctx context.Context, path string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{
		db:     db,
		repos:  repomanager.NewSQLiteRepositoryManager(logger),
		logger: logger.With("component", "storage"),
		now:    time.Now,
		newID:  common.RandomID,
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := s.repos.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	if err := s.repos.Info(db).Ensure(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap row: %w", err)
	}

	return s, nil
}

func dsn(path string) string {
	const pragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	if strings.Contains(path, "?") {
		return path + "&" + pragmas
	}
	return path + "?" + pragmas
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// begin takes the store lock and detaches ctx from the caller's
// cancellation; an operation that started always runs to completion.
func (s *Store) begin(ctx context.Context) (context.Context, func()) {
	s.mu.Lock()
	return context.WithoutCancel(ctx), s.mu.Unlock
}

func (s *Store) fail(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "storage operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, common.ErrorStorage)
}

func (s *Store) UserExists(ctx context.Context, username string) (bool, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	ok, err := s.repos.Users(s.db).Exists(ctx, username)
	if err != nil {
		return false, s.fail(ctx, "user exists", err)
	}
	return ok, nil
}

// AddUser inserts a new user and returns its id. A taken username yields
// common.ErrorAlreadyExists.
func (s *Store) AddUser(ctx context.Context, username, hash, salt string) (int64, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	repo := s.repos.Users(s.db)
	u := &models.User{
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		SignupTime:   s.now().Unix(),
	}
	for range maxIDAttempts {
		u.ID = s.newID()
		err := repo.Create(ctx, u)
		switch {
		case err == nil:
			return u.ID, nil
		case errors.Is(err, users.ErrIDTaken):
			continue
		case errors.Is(err, common.ErrorAlreadyExists):
			return 0, common.ErrorAlreadyExists
		default:
			return 0, s.fail(ctx, "add user", err)
		}
	}
	return 0, s.fail(ctx, "add user", errors.New("no free user id"))
}

func (s *Store) FindUserID(ctx context.Context, username string) (int64, bool, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	id, err := s.repos.Users(s.db).FindID(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, false, nil
		}
		return 0, false, s.fail(ctx, "find user id", err)
	}
	return id, true, nil
}

// GetUserCredentials returns the stored account for username, or nil.
func (s *Store) GetUserCredentials(ctx context.Context, username string) (*models.User, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	u, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, s.fail(ctx, "get user credentials", err)
	}
	return u, nil
}

func (s *Store) GetUserProfile(ctx context.Context, id int64) (*models.UserProfile, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	p, err := s.repos.Users(s.db).GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, s.fail(ctx, "get user profile", err)
	}
	return p, nil
}

// UpdateUserProfile overwrites name, email and gender of user id. It reports
// false when no such user exists.
func (s *Store) UpdateUserProfile(ctx context.Context, id int64, p models.ProfileUpdate) (bool, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	err := s.repos.Users(s.db).UpdateProfile(ctx, id, p)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, s.fail(ctx, "update user profile", err)
	}
	return true, nil
}

// CreateDiaryBook creates a book owned by ownerID. The book row and the
// ownership row are written in one transaction.
func (s *Store) CreateDiaryBook(ctx context.Context, name string, ownerID int64) (int64, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	book := &models.DiaryBook{Name: name, CreationTime: s.now().Unix()}
	for range maxIDAttempts {
		book.ID = s.newID()
		err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if err := s.repos.DiaryBooks(tx).Create(ctx, book); err != nil {
				return err
			}
			return s.repos.DiaryBooks(tx).AddOwner(ctx, ownerID, book.ID)
		})
		switch {
		case err == nil:
			return book.ID, nil
		case errors.Is(err, diarybooks.ErrIDTaken):
			continue
		default:
			return 0, s.fail(ctx, "create diary book", err)
		}
	}
	return 0, s.fail(ctx, "create diary book", errors.New("no free book id"))
}

func (s *Store) GetDiaryBook(ctx context.Context, id int64) (*models.DiaryBook, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	b, err := s.repos.DiaryBooks(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, s.fail(ctx, "get diary book", err)
	}
	return b, nil
}

func (s *Store) ListDiaryBooks(ctx context.Context, userID int64) ([]models.DiaryBook, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	books, err := s.repos.DiaryBooks(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "list diary books", err)
	}
	return books, nil
}

func (s *Store) IsBookOwner(ctx context.Context, userID, bookID int64) (bool, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	ok, err := s.repos.DiaryBooks(s.db).IsOwner(ctx, userID, bookID)
	if err != nil {
		return false, s.fail(ctx, "is book owner", err)
	}
	return ok, nil
}

// AddDiary files a new entry in bookID. The diary row and its book placement
// are written in one transaction.
func (s *Store) AddDiary(ctx context.Context, bookID int64, title string, date int64, content string) (int64, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	e := &models.DiaryEntry{
		BookID:       bookID,
		Title:        title,
		Date:         date,
		Content:      content,
		CreationTime: s.now().Unix(),
	}
	for range maxIDAttempts {
		e.ID = s.newID()
		err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			if err := s.repos.Diaries(tx).Create(ctx, e); err != nil {
				return err
			}
			return s.repos.Diaries(tx).AttachToBook(ctx, e)
		})
		switch {
		case err == nil:
			return e.ID, nil
		case errors.Is(err, diaries.ErrIDTaken):
			continue
		default:
			return 0, s.fail(ctx, "add diary", err)
		}
	}
	return 0, s.fail(ctx, "add diary", errors.New("no free diary id"))
}

func (s *Store) ListDiaries(ctx context.Context, bookID int64) ([]models.DiaryEntry, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	entries, err := s.repos.Diaries(s.db).ListByBook(ctx, bookID)
	if err != nil {
		return nil, s.fail(ctx, "list diaries", err)
	}
	return entries, nil
}

func (s *Store) GetDiary(ctx context.Context, id int64) (*models.DiaryEntry, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	e, err := s.repos.Diaries(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, s.fail(ctx, "get diary", err)
	}
	return e, nil
}

// GetBootstrapInfo returns the stored bootstrap record, or nil before the
// first SetBootstrapInfo.
func (s *Store) GetBootstrapInfo(ctx context.Context) (*models.BootstrapInfo, error) {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	bi, err := s.repos.Info(s.db).Get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, s.fail(ctx, "get bootstrap info", err)
	}
	return bi, nil
}

func (s *Store) SetBootstrapInfo(ctx context.Context, bi *models.BootstrapInfo) error {
	ctx, unlock := s.begin(ctx)
	defer unlock()

	if err := s.repos.Info(s.db).Set(ctx, bi); err != nil {
		return s.fail(ctx, "set bootstrap info", err)
	}
	return nil
}
