// Package snapshot defines the persistable session state entity.
package snapshot

import (
	"time"

	"reqbridge/domain/cookie"
)

// Snapshot captures the transferable state of a session: its cookies, the
// outgoing user-agent, and the last visited URL. Restoring a snapshot into a
// fresh session reproduces its authentication state without replaying logins.
type Snapshot struct {
	// ID is the unique identifier assigned by the store (MongoDB ObjectID).
	ID string

	// Name is the caller-chosen handle used for lookup and upsert.
	Name string

	// UserAgent is the outgoing user-agent header at save time.
	UserAgent string

	// LastURL is the session's last visited URL at save time.
	LastURL string

	// Cookies are the jar contents at save time.
	Cookies []cookie.Cookie

	// SavedAt is when the snapshot was taken.
	SavedAt time.Time
}

// HasCookies returns true if the snapshot carries any cookies.
func (s *Snapshot) HasCookies() bool {
	return len(s.Cookies) > 0
}

// Clone creates a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	clone := *s
	clone.Cookies = make([]cookie.Cookie, len(s.Cookies))
	copy(clone.Cookies, s.Cookies)
	return &clone
}
