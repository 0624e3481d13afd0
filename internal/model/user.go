package model

import "time"

// User represents a user account in the database. PasswordHash never leaves
// the server; API responses go through UserResponse instead.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// SignupRequest represents a signup request. The same shape is accepted as
// JSON (extension API) and as a form post (web dashboard).
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly minted token back to an API client.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse represents user data safe for clients (no hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
