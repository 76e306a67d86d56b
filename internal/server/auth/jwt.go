// Package auth issues and validates the signed session tokens carried in the
// "token" cookie.
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var signingMethod = jwt.SigningMethodHS512

// Claims is the token payload.
type Claims struct {
	Username string `json:"username"`
	UserID   int64  `json:"user_id"`
	jwt.RegisteredClaims
}

// Session is a freshly issued token together with its decoded claims and the
// cookie that carries it.
type Session struct {
	Token  string
	Claims *Claims
	Cookie *http.Cookie
}

type Issuer struct {
	secret SecretSource
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer signing with secret. A non-positive ttl means
// common.DefaultSessionTTL.
func NewIssuer(secret SecretSource, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = common.DefaultSessionTTL
	}
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(userID int64, username string) (*Session, error) {
	if userID == 0 || username == "" {
		return nil, errors.New("issue session: empty identity")
	}

	iat := i.now().Truncate(time.Second)
	exp := iat.Add(i.ttl)
	claims := &Claims{
		Username: username,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(signingMethod, claims).SignedString(i.secret.Secret())
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:  token,
		Claims: claims,
		Cookie: &http.Cookie{
			Name:     common.SessionCookieName,
			Value:    token,
			Path:     "/",
			Expires:  exp,
			MaxAge:   int(i.ttl / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}, nil
}

// Validate verifies token and returns its claims. Bad signature, another
// algorithm, expiry, malformed input or missing identity all yield false.
func (i *Issuer) Validate(token string) (*Claims, bool) {
	if token == "" {
		return nil, false
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.secret.Secret(), nil },
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, false
	}
	if claims.UserID == 0 || claims.Username == "" {
		return nil, false
	}
	return claims, true
}

// FromRequest validates the session cookie of r. A request without the
// cookie is anonymous.
func (i *Issuer) FromRequest(r *http.Request) (*Claims, bool) {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		return nil, false
	}
	return i.Validate(c.Value)
}

// ClearCookie returns a cookie that removes the session from the client.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
