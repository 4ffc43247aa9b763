package models

import "time"

// AuthTokenName is the name of the single login token a user may hold
const AuthTokenName = "auth_token"

// Token represents an issued bearer token. Only the hash of the bearer
// string is stored.
type Token struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	Name      string     `db:"name"`
	Hash      string     `db:"token"`
	CreatedAt time.Time  `db:"created_at"`
	ExpiresAt *time.Time `db:"expires_at"`
}

// Expired reports whether the token has an expiry in the past
func (t *Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}
