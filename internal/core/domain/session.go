package domain

import "time"

// Session is the gateway-side record behind the signed session cookie. The
// upstream bearer token never leaves the gateway after login; the browser only
// ever holds the cookie referencing this record.
//
// Identity and Project are the two pieces of state shared by every screen.
// Both are single-writer in practice; the stores apply last-write-wins.
type Session struct {
	ID         string    `json:"id"`
	Token      string    `json:"token,omitempty"`
	Identity   *Identity `json:"identity,omitempty"`
	Project    *Project  `json:"project,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// Authenticated reports whether the profile fetch has resolved an identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.Identity != nil
}
