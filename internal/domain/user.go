package domain

import "github.com/Vampire-js/techfiesta/pkg/timex"

// User is the authenticated owner identity.
type User struct {
	UID       int64
	Email     string
	Username  string
	Password  string
	Avatar    string
	CreatedAt timex.Time
	UpdatedAt timex.Time
}
