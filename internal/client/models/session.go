package models

import (
	"time"

	"github.com/dmitrijs2005/postapp/internal/common"
)

// Session is the signed-in state of one user. It lives in process memory
// and is never persisted.
type Session struct {
	SignedIn     bool
	UserName     string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Clear signs the session out.
func (s *Session) Clear() {
	*s = Session{}
}

// ShortToken abbreviates the access token for display.
func (s Session) ShortToken() string {
	return common.ShortToken(s.AccessToken)
}

// Expired reports whether the access token expiry is known and has passed.
func (s Session) Expired(now time.Time) bool {
	return s.SignedIn && !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// DisplayName is the prompt label: the user name or "anonymous".
func (s Session) DisplayName() string {
	if !s.SignedIn || s.UserName == "" {
		return "anonymous"
	}
	return s.UserName
}
