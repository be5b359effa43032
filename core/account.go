package core

import "time"

// AccountStatus is the enabled/disabled flag of an account.
type AccountStatus int

const (
	AccountDisabled AccountStatus = 0
	AccountEnabled  AccountStatus = 1
)

// Sex values stored on an account.
const (
	SexFemale  = 0
	SexMale    = 1
	SexUnknown = 2
)

// DefaultTheme is assigned to new accounts.
const DefaultTheme = 1

// UserIDLength is the number of digits in a generated account id.
const UserIDLength = 10

// Account is a persisted user record. UserID, Email and NickName are unique.
type Account struct {
	UserID             string
	NickName           string
	Email              string
	Password           string // bcrypt digest, never plaintext
	Avatar             string
	Sex                int
	Birthday           string
	School             string
	PersonIntroduction string
	NoticeInfo         string
	RegisterTime       time.Time
	LastLoginTime      *time.Time
	LastLoginIP        string
	Status             AccountStatus
	TotalCoinCount     int
	CurrentCoinCount   int
	Theme              int
}

// Enabled reports whether the account may log in.
func (a Account) Enabled() bool {
	return a.Status == AccountEnabled
}

// AccountUpdate carries a partial update; nil fields are left untouched.
type AccountUpdate struct {
	NickName           *string
	Avatar             *string
	Sex                *int
	Birthday           *string
	School             *string
	PersonIntroduction *string
	NoticeInfo         *string
	LastLoginTime      *time.Time
	LastLoginIP        *string
	Status             *AccountStatus
	TotalCoinCount     *int
	CurrentCoinCount   *int
	Theme              *int
}

// Empty reports whether the update would change nothing.
func (u AccountUpdate) Empty() bool {
	return u == AccountUpdate{}
}

// Apply writes the non-nil fields of u onto a.
func (u AccountUpdate) Apply(a *Account) {
	if u.NickName != nil {
		a.NickName = *u.NickName
	}
	if u.Avatar != nil {
		a.Avatar = *u.Avatar
	}
	if u.Sex != nil {
		a.Sex = *u.Sex
	}
	if u.Birthday != nil {
		a.Birthday = *u.Birthday
	}
	if u.School != nil {
		a.School = *u.School
	}
	if u.PersonIntroduction != nil {
		a.PersonIntroduction = *u.PersonIntroduction
	}
	if u.NoticeInfo != nil {
		a.NoticeInfo = *u.NoticeInfo
	}
	if u.LastLoginTime != nil {
		t := *u.LastLoginTime
		a.LastLoginTime = &t
	}
	if u.LastLoginIP != nil {
		a.LastLoginIP = *u.LastLoginIP
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.TotalCoinCount != nil {
		a.TotalCoinCount = *u.TotalCoinCount
	}
	if u.CurrentCoinCount != nil {
		a.CurrentCoinCount = *u.CurrentCoinCount
	}
	if u.Theme != nil {
		a.Theme = *u.Theme
	}
}
