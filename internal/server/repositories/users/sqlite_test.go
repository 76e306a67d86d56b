package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLiteRepository(db), mock, db
}

const insertQ = `(?s)^INSERT\s+INTO\s+user\s*\(id,\s*username,\s*password_hash,\s*password_salt,\s*signup_time\)\s*VALUES`

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).
		WithArgs(int64(7), "alice", "hash", "salt", int64(1700000000)).
		WillReturnResult(sqlmock.NewResult(7, 1))

	err := repo.Create(context.Background(), &models.User{
		ID: 7, Username: "alice", PasswordHash: "hash", PasswordSalt: "salt", SignupTime: 1700000000,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantIs  error
		wantMsg string
	}{
		{"duplicate username", errors.New("constraint failed: UNIQUE constraint failed: user.username (2067)"), common.ErrorAlreadyExists, ""},
		{"duplicate id", errors.New("constraint failed: UNIQUE constraint failed: user.id (1555)"), ErrIDTaken, ""},
		{"other", errors.New("db down"), nil, `db error: .*db down`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(insertQ).WillReturnError(tt.dbErr)

			err := repo.Create(context.Background(), &models.User{ID: 1, Username: "alice"})
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Regexp(t, regexp.MustCompile(tt.wantMsg), err.Error())
			}
		})
	}
}

func TestExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+user\s+WHERE\s+username\s*=\s*\?`
	mock.ExpectQuery(q).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(q).WithArgs("bob").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	ok, err := repo.Exists(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id\s+FROM\s+user\s+WHERE\s+username\s*=\s*\?`
	mock.ExpectQuery(q).WithArgs("alice").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(q).WithArgs("x").WillReturnError(errors.New("boom"))

	id, err := repo.FindID(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = repo.FindID(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.FindID(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByUsername(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*username,\s*password_hash,\s*password_salt,\s*signup_time\s+FROM\s+user\s+WHERE\s+username\s*=\s*\?`
	mock.ExpectQuery(q).WithArgs("alice").WillReturnRows(
		sqlmock.NewRows([]string{"id", "username", "password_hash", "password_salt", "signup_time"}).
			AddRow(int64(3), "alice", "abcd", "s@lt", int64(100)))
	mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: 3, Username: "alice", PasswordHash: "abcd", PasswordSalt: "s@lt", SignupTime: 100}, u)

	_, err = repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetProfile(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+signup_time,\s*username,\s*name,\s*email,\s*gender_code,\s*gender_other\s+FROM\s+user\s+WHERE\s+id\s*=\s*\?`
	cols := []string{"signup_time", "username", "name", "email", "gender_code", "gender_other"}
	mock.ExpectQuery(q).WithArgs(int64(1)).WillReturnRows(
		sqlmock.NewRows(cols).AddRow(int64(10), "alice", "Alice", nil, int64(3), "agender"))
	mock.ExpectQuery(q).WithArgs(int64(2)).WillReturnRows(
		sqlmock.NewRows(cols).AddRow(int64(20), "bob", nil, nil, int64(9), nil))
	mock.ExpectQuery(q).WithArgs(int64(3)).WillReturnError(sql.ErrNoRows)

	p, err := repo.GetProfile(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, p.Name)
	assert.Equal(t, "Alice", *p.Name)
	assert.Nil(t, p.Email)
	assert.Equal(t, models.Other("agender"), p.Gender)

	p, err = repo.GetProfile(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", p.Username)
	assert.Equal(t, models.Unknown(), p.Gender)

	_, err = repo.GetProfile(context.Background(), 3)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateProfile(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+user\s+SET\s+name\s*=\s*\?,\s*email\s*=\s*\?,\s*gender_code\s*=\s*\?,\s*gender_other\s*=\s*\?\s+WHERE\s+id\s*=\s*\?`
	name := "Alice"
	mock.ExpectExec(q).
		WithArgs("Alice", nil, int64(2), nil, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q).WillReturnError(errors.New("db down"))

	err := repo.UpdateProfile(context.Background(), 1, models.ProfileUpdate{Name: &name, Gender: models.Female()})
	require.NoError(t, err)

	err = repo.UpdateProfile(context.Background(), 99, models.ProfileUpdate{})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = repo.UpdateProfile(context.Background(), 1, models.ProfileUpdate{})
	assert.Regexp(t, `db error: .*db down`, err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}
