package repositories

import "github.com/matyasmehes/szakdolgozat/internal/models"

// OrderRepository defines the interface for order data access.
// Orders are never deleted; the only mutation is the delivered flag flip.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	// ListOpen returns all orders not yet delivered, in insertion order.
	ListOpen() ([]models.Order, error)
	// ListByUser returns all orders owned by the given user.
	ListByUser(userID uint) ([]models.Order, error)
	// MarkDelivered flips the delivered flag. It is idempotent; only a
	// genuinely absent order yields ErrNotFound.
	MarkDelivered(id uint) error
}
