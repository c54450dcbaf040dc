package dto

import "github.com/Vampire-js/techfiesta/pkg/timex"

type UserRegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Username string `json:"username" form:"username" binding:"required,min=2,max=32"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=64"`
}

// UserLoginRequest accepts either an email address or a username in
// Credentials.
type UserLoginRequest struct {
	Credentials string `json:"credentials" form:"credentials" binding:"required"`
	Password    string `json:"password" form:"password" binding:"required"`
}

type UserChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" form:"newPassword" binding:"required,min=6,max=64"`
}

type User struct {
	UID       int64      `json:"uid"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	Avatar    string     `json:"avatar"`
	Token     string     `json:"token,omitempty"`
	CreatedAt timex.Time `json:"createdAt"`
	UpdatedAt timex.Time `json:"updatedAt"`
}
