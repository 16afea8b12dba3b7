package repositories

import "github.com/matyasmehes/szakdolgozat/internal/models"

// MenuItemRepository defines the interface for menu item data access.
// The order flow only ever reads menu items; Create exists for seeding.
type MenuItemRepository interface {
	GetAll() ([]models.MenuItem, error)
	GetByID(id uint) (*models.MenuItem, error)
	Create(item *models.MenuItem) error
	Count() (int64, error)
}
