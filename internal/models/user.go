package models

import "time"

// User is the minimal identity carried by an authenticated session.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Session is the server-side authenticated-session marker. Created on
// login, destroyed on logout.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
