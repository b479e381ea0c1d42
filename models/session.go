package models

import "time"

// AdminSession is an in-memory admin capability grant
type AdminSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now.
// A session is still valid at exactly ExpiresAt.
func (s AdminSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
