package user

import "time"

// User represents a customer account.
type User struct {
	ID           int64
	Name         string
	Email        string // Email is unique and stored lower-cased
	Phone        string
	PasswordHash string
	Address      string
	DateOfBirth  *time.Time
	Blocked      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Filter narrows user listings.
type Filter struct {
	Query   string
	Blocked *bool
	Page    int64
	Limit   int64
}

// AgeAt returns the user's age in whole years at now.
// ok is false when no date of birth is on record.
func (u *User) AgeAt(now time.Time) (age int, ok bool) {
	if u.DateOfBirth == nil {
		return 0, false
	}
	dob := u.DateOfBirth.UTC()
	now = now.UTC()

	age = now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age, true
}
