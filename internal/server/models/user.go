// Package models defines the server-side data model: users, diary books,
// diary entries and the bootstrap record.
package models

// User is the stored account record.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	PasswordSalt string
	// SignupTime is in seconds since the Unix epoch.
	SignupTime int64
}

// UserProfile is the public part of a user.
type UserProfile struct {
	SignupTime int64   `json:"signupTime"`
	Username   string  `json:"username"`
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Gender     Gender  `json:"gender"`
}

// ProfileUpdate carries the mutable profile fields. An update overwrites all
// of them; nil clears the column.
type ProfileUpdate struct {
	Name   *string
	Email  *string
	Gender Gender
}
