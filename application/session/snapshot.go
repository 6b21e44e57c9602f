package session

import (
	"time"

	"reqbridge/domain/snapshot"
)

// Export captures the session's cookies, user-agent and last URL into a
// named snapshot suitable for persistence.
func (s *Session) Export(name string) snapshot.Snapshot {
	return snapshot.Snapshot{
		Name:      name,
		UserAgent: s.userAgent,
		LastURL:   s.lastURL,
		Cookies:   s.jar.All(),
		SavedAt:   time.Now(),
	}
}

// Restore loads a snapshot's cookies, user-agent and last URL into the
// session. Existing cookies with the same identity are overwritten; the rest
// of the jar is untouched.
func (s *Session) Restore(snap snapshot.Snapshot) error {
	for _, c := range snap.Cookies {
		if err := s.jar.Set(c); err != nil {
			return err
		}
	}
	if snap.UserAgent != "" {
		s.userAgent = snap.UserAgent
	}
	if snap.LastURL != "" {
		s.lastURL = snap.LastURL
	}
	return nil
}
