package common

import "time"

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "token"

// DefaultSessionTTL is the lifetime of a freshly issued session token.
const DefaultSessionTTL = 24 * time.Hour
