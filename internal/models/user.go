package models

import "time"

// User represents a registered customer of the restaurant.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(100)"`
	LastName     string    `json:"last_name" gorm:"type:varchar(100)"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"` // No json exposure for security
	Salt         []byte    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileView is the non-sensitive projection of a User returned to clients.
// The password hash and salt never leave the service layer.
type ProfileView struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
