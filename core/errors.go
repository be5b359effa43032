package core

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCaptcha     = errors.New("invalid captcha")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateNickname  = errors.New("nickname already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrSessionRequired    = errors.New("login required")
)

var businessErrors = []error{
	ErrInvalidCaptcha,
	ErrDuplicateEmail,
	ErrDuplicateNickname,
	ErrInvalidCredentials,
	ErrAccountDisabled,
}

// IsBusiness reports whether err is a definitive, user-facing outcome as
// opposed to an infrastructure failure.
func IsBusiness(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
