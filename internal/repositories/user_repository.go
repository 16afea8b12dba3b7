package repositories

import "github.com/matyasmehes/szakdolgozat/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create inserts a new user. The email uniqueness check and the insert
	// run in a single transaction; a duplicate email yields ErrEmailTaken.
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
}
