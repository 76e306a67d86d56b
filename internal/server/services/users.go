package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/cryptox"
	"github.com/dmitrijs2005/diary/internal/logging"
	"github.com/dmitrijs2005/diary/internal/server/auth"
	"github.com/dmitrijs2005/diary/internal/server/models"
)

// UserService handles account creation, login and profiles.
type UserService struct {
	store  UserStore
	hasher *cryptox.Hasher
	issuer *auth.Issuer
	logger logging.Logger

	// dummySalt and dummyHash are verified against when the user does not
	// exist, so both failure paths cost one hash.
	dummySalt string
	dummyHash string
}

func NewUserService(store UserStore, hasher *cryptox.Hasher, issuer *auth.Issuer, logger logging.Logger) (*UserService, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	dummyPassword, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("dummy credentials: %w", err)
	}
	hash, salt, err := hasher.GenerateSaltedHash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("dummy credentials: %w", err)
	}
	return &UserService{
		store:     store,
		hasher:    hasher,
		issuer:    issuer,
		logger:    logger.With("component", "users"),
		dummySalt: salt,
		dummyHash: hash,
	}, nil
}

// CreateUser registers username with password. A taken username is
// common.ErrorAlreadyExists, whether it is caught by the early check or by the
// unique constraint under a concurrent signup.
func (s *UserService) CreateUser(ctx context.Context, username, password string) error {
	if err := validateCredentials(username, password); err != nil {
		return err
	}

	exists, err := s.store.UserExists(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return common.ErrorAlreadyExists
	}

	hash, salt, err := s.hasher.GenerateSaltedHash(password)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	id, err := s.store.AddUser(ctx, username, hash, salt)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "user created", "username", username, "user_id", id)
	return nil
}

// Authenticate checks the password and issues a session. Unknown user and
// wrong password are indistinguishable.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*auth.Session, error) {
	u, err := s.store.GetUserCredentials(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.hasher.Verify(password, s.dummySalt, s.dummyHash)
		return nil, common.ErrorAuthenticationFailed
	}
	if !s.hasher.Verify(password, u.PasswordSalt, u.PasswordHash) {
		return nil, common.ErrorAuthenticationFailed
	}

	sess, err := s.issuer.Issue(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	s.logger.Info(ctx, "session issued", "user_id", u.ID)
	return sess, nil
}

func (s *UserService) ValidateSession(token string) (*auth.Claims, bool) {
	return s.issuer.Validate(token)
}

// SessionFromRequest validates the session cookie carried by r.
func (s *UserService) SessionFromRequest(r *http.Request) (*auth.Claims, bool) {
	return s.issuer.FromRequest(r)
}

// GetUserProfile returns the public profile of username.
func (s *UserService) GetUserProfile(ctx context.Context, username string) (*models.UserProfile, error) {
	id, found, err := s.store.FindUserID(ctx, username)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, common.ErrorNotFound
	}
	return s.profileByID(ctx, id)
}

// GetOwnProfile returns the profile of the session holder.
func (s *UserService) GetOwnProfile(ctx context.Context, claims *auth.Claims) (*models.UserProfile, error) {
	if claims == nil {
		return nil, common.ErrorInvalidSession
	}
	return s.profileByID(ctx, claims.UserID)
}

// UpdateProfile overwrites name, email and gender of the session holder.
func (s *UserService) UpdateProfile(ctx context.Context, claims *auth.Claims, p models.ProfileUpdate) (*models.UserProfile, error) {
	if claims == nil {
		return nil, common.ErrorInvalidSession
	}
	if p.Name != nil {
		if err := validateName("name", *p.Name, maxNameLen); err != nil {
			return nil, err
		}
	}
	if p.Email != nil {
		if err := validateName("email", *p.Email, maxEmailLen); err != nil {
			return nil, err
		}
		if !strings.Contains(*p.Email, "@") {
			return nil, invalid("email has no @")
		}
	}

	ok, err := s.store.UpdateUserProfile(ctx, claims.UserID, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s.profileByID(ctx, claims.UserID)
}

func (s *UserService) profileByID(ctx context.Context, id int64) (*models.UserProfile, error) {
	p, err := s.store.GetUserProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, common.ErrorNotFound
	}
	return p, nil
}
