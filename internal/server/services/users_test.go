package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/server/auth"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserAndAuthenticate(t *testing.T) {
	users, _ := newServices(t)
	ctx := context.Background()

	require.NoError(t, users.CreateUser(ctx, "alice", "pw1"))

	sess, err := users.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Claims.Username)
	assert.Equal(t, common.SessionCookieName, sess.Cookie.Name)

	claims, ok := users.ValidateSession(sess.Token)
	require.True(t, ok)
	assert.Equal(t, sess.Claims.UserID, claims.UserID)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestCreateUser_Duplicate(t *testing.T) {
	users, _ := newServices(t)
	ctx := context.Background()

	require.NoError(t, users.CreateUser(ctx, "alice", "pw1"))
	err := users.CreateUser(ctx, "alice", "other")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	_, err = users.Authenticate(ctx, "alice", "other")
	assert.ErrorIs(t, err, common.ErrorAuthenticationFailed, "first password stays in force")
}

func TestCreateUser_Validation(t *testing.T) {
	users, _ := newServices(t)
	ctx := context.Background()

	for _, tc := range []struct{ user, pass string }{
		{"", "pw"},
		{"alice", ""},
		{" alice", "pw"},
		{"a/b", "pw"},
		{strings.Repeat("a", maxUsernameLen+1), "pw"},
		{"alice", strings.Repeat("p", maxPasswordLen+1)},
	} {
		err := users.CreateUser(ctx, tc.user, tc.pass)
		assert.ErrorIs(t, err, common.ErrorValidation, "%q/%q", tc.user, tc.pass)
	}
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	users, _ := newServices(t)
	ctx := context.Background()
	require.NoError(t, users.CreateUser(ctx, "alice", "pw1"))

	_, wrongPass := users.Authenticate(ctx, "alice", "nope")
	_, noUser := users.Authenticate(ctx, "ghost", "pw1")

	require.ErrorIs(t, wrongPass, common.ErrorAuthenticationFailed)
	require.ErrorIs(t, noUser, common.ErrorAuthenticationFailed)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestConcurrentCreateUser_ExactlyOneWins(t *testing.T) {
	users, _ := newServices(t)
	ctx := context.Background()

	const n = 16
	results := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = users.CreateUser(ctx, "alice", "pw")
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	}
	assert.Equal(t, 1, ok)
}

func TestGetUserProfile(t *testing.T) {
	users, _ := newServices(t)
	ctx := context.Background()
	require.NoError(t, users.CreateUser(ctx, "alice", "pw"))

	p, err := users.GetUserProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	assert.Nil(t, p.Name)
	assert.Nil(t, p.Email)
	assert.Equal(t, models.Unknown(), p.Gender)
	assert.InDelta(t, time.Now().Unix(), p.SignupTime, 5)

	_, err = users.GetUserProfile(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestOwnProfileAndUpdate(t *testing.T) {
	users, _ := newServices(t)
	ctx := context.Background()
	require.NoError(t, users.CreateUser(ctx, "alice", "pw"))
	sess, err := users.Authenticate(ctx, "alice", "pw")
	require.NoError(t, err)

	_, err = users.GetOwnProfile(ctx, nil)
	assert.ErrorIs(t, err, common.ErrorInvalidSession)

	name, email := "Alice", "alice@example.com"
	p, err := users.UpdateProfile(ctx, sess.Claims, models.ProfileUpdate{Name: &name, Email: &email, Gender: models.Other("agender")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", *p.Name)
	assert.Equal(t, models.Other("agender"), p.Gender)

	p, err = users.GetOwnProfile(ctx, sess.Claims)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", *p.Email)

	bad := "not-an-email"
	_, err = users.UpdateProfile(ctx, sess.Claims, models.ProfileUpdate{Email: &bad})
	assert.ErrorIs(t, err, common.ErrorValidation)

	blank := "  "
	_, err = users.UpdateProfile(ctx, sess.Claims, models.ProfileUpdate{Name: &blank})
	assert.ErrorIs(t, err, common.ErrorValidation)

	ghost := &auth.Claims{UserID: sess.Claims.UserID + 1, Username: "ghost"}
	_, err = users.UpdateProfile(ctx, ghost, models.ProfileUpdate{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUserService_StorageFailuresPropagate(t *testing.T) {
	users, err := NewUserService(failingStore{}, fastHasher(t), auth.NewIssuer(auth.StaticSecret("k"), 0), nil)
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, users.CreateUser(ctx, "alice", "pw"), common.ErrorStorage)

	_, err = users.Authenticate(ctx, "alice", "pw")
	assert.ErrorIs(t, err, common.ErrorStorage)
	assert.NotErrorIs(t, err, common.ErrorAuthenticationFailed)

	_, err = users.GetUserProfile(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrorStorage)

	_, err = users.UpdateProfile(ctx, &auth.Claims{UserID: 1, Username: "a"}, models.ProfileUpdate{})
	assert.ErrorIs(t, err, common.ErrorStorage)
}

func TestValidateSession_Garbage(t *testing.T) {
	users, _ := newServices(t)
	_, ok := users.ValidateSession("garbage")
	assert.False(t, ok)
}

func TestSessionFromRequest(t *testing.T) {
	users, _ := newServices(t)
	ctx := context.Background()
	require.NoError(t, users.CreateUser(ctx, "carol", "pw"))
	sess, err := users.Authenticate(ctx, "carol", "pw")
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/diary/me", nil)
	_, ok := users.SessionFromRequest(r)
	assert.False(t, ok, "no cookie")

	r.AddCookie(sess.Cookie)
	claims, ok := users.SessionFromRequest(r)
	require.True(t, ok)
	assert.Equal(t, "carol", claims.Username)

	bad := httptest.NewRequest("GET", "/diary/me", nil)
	bad.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: "garbage"})
	_, ok = users.SessionFromRequest(bad)
	assert.False(t, ok)
}
