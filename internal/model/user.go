package model

import "time"

// User is an identity record. Email is the unique business key; Avatar is a
// plain URL reference. Users are created on first sign-up and never mutated
// or deleted by this application.
type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}
