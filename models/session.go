package models

import "time"

// SessionTTL is the fixed validity window for an admin session, measured from
// login. Sessions are never refreshed by use.
const SessionTTL = 24 * time.Hour

// AdminSession is a minted login token. An expired session is treated as
// absent even while the record still physically exists.
type AdminSession struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the session has outlived the ttl at the given
// instant.
func (s AdminSession) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.CreatedAt) >= ttl
}

// AdminCredentials is the stored password hash plus login bookkeeping. The
// previous-login timestamp feeds the dashboard's "comments since your last
// visit" counter.
type AdminCredentials struct {
	PasswordHash    string     `json:"passwordHash"`
	UpdatedAt       *time.Time `json:"updatedAt"`
	LastLoginAt     *time.Time `json:"lastLoginAt"`
	PreviousLoginAt *time.Time `json:"previousLoginAt"`
}
