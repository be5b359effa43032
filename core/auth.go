package core

import "time"

// Challenge represents a captcha challenge held in the shared cache
type Challenge struct {
	ID        string    // Unique identifier handed to the client
	Answer    string    // Expected answer
	ExpiresAt time.Time // When the cache evicts the challenge
}

// CaptchaChallenge is what the client receives for a freshly issued challenge
type CaptchaChallenge struct {
	ID    string // Challenge identifier to echo back on register/login
	Image string // Base64 encoded image of the puzzle
}

// Session represents an authenticated user session. The client only ever
// holds Token; the record itself lives in the session store.
type Session struct {
	Token            string    `json:"token"`
	UserID           string    `json:"userId"`
	NickName         string    `json:"nickName"`
	Avatar           string    `json:"avatar"`
	ExpireAt         time.Time `json:"expireAt"`
	FanCount         int       `json:"fanCount"`
	CurrentCoinCount int       `json:"currentCoinCount"`
	FocusCount       int       `json:"focusCount"`
}

// Remaining returns how long the session stays valid after now.
func (s Session) Remaining(now time.Time) time.Duration {
	return s.ExpireAt.Sub(now)
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpireAt)
}

// SessionFromAccount copies the profile fields of an account into a session
// record. Token and ExpireAt are left for the session store to fill in.
func SessionFromAccount(a Account) Session {
	return Session{
		UserID:           a.UserID,
		NickName:         a.NickName,
		Avatar:           a.Avatar,
		CurrentCoinCount: a.CurrentCoinCount,
	}
}

// WithProfileOf returns a copy of s carrying the profile of another session,
// used when a session is renewed under a new token.
func (s Session) WithProfileOf(other Session) Session {
	s.UserID = other.UserID
	s.NickName = other.NickName
	s.Avatar = other.Avatar
	s.FanCount = other.FanCount
	s.CurrentCoinCount = other.CurrentCoinCount
	s.FocusCount = other.FocusCount
	return s
}
