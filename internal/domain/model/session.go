package model

import "time"

// Session is the server-held authentication state of one browser client. Name
// and Tier cache the beneficiary's profile so handlers never re-read it.
type Session struct {
	ID             string
	BeneficiaryRut string
	Name           string
	Tier           string
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
