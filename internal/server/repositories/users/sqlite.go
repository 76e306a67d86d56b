package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/server/models"
)

// ErrIDTaken is returned by Create when the generated id collides with an
// existing row.
var ErrIDTaken = errors.New("user id taken")

// SQLiteRepository implements Repository over a dbx.DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, u *models.User) error {
	query := `INSERT INTO user (id, username, password_hash, password_salt, signup_time)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.PasswordHash, u.PasswordSalt, u.SignupTime)
	switch {
	case err == nil:
		return nil
	case dbx.IsPrimaryKeyViolation(err):
		return ErrIDTaken
	case dbx.IsUniqueViolation(err):
		return common.ErrorAlreadyExists
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

func (r *SQLiteRepository) Exists(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user WHERE username = ?`, username).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n != 0, nil
}

func (r *SQLiteRepository) FindID(ctx context.Context, username string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM user WHERE username = ?`, username).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, password_hash, password_salt, signup_time
		FROM user WHERE username = ?`

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.PasswordSalt, &u.SignupTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, id int64) (*models.UserProfile, error) {
	query := `SELECT signup_time, username, name, email, gender_code, gender_other
		FROM user WHERE id = ?`

	var (
		p           models.UserProfile
		name, email sql.NullString
		genderCode  int64
		genderOther sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.SignupTime, &p.Username, &name, &email, &genderCode, &genderOther)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.Name = nullableString(name)
	p.Email = nullableString(email)
	p.Gender = models.DecodeGender(genderCode, genderOther)
	return &p, nil
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, id int64, p models.ProfileUpdate) error {
	query := `UPDATE user
		SET name = ?, email = ?, gender_code = ?, gender_other = ?
		WHERE id = ?`

	code, other := p.Gender.Encode()
	res, err := r.db.ExecContext(ctx, query, toNullString(p.Name), toNullString(p.Email), code, other, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
