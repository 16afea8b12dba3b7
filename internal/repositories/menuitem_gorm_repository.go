package repositories

import (
	"errors"
	"fmt"

	"github.com/matyasmehes/szakdolgozat/internal/models"

	"gorm.io/gorm"
)

// GORMMenuItemRepository is a GORM implementation of MenuItemRepository.
type GORMMenuItemRepository struct {
	db *gorm.DB
}

// NewGORMMenuItemRepository creates a new instance of GORMMenuItemRepository.
func NewGORMMenuItemRepository(db *gorm.DB) *GORMMenuItemRepository {
	return &GORMMenuItemRepository{
		db: db,
	}
}

// GetAll retrieves the full menu from the database.
func (r *GORMMenuItemRepository) GetAll() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, nil
}

// GetByID retrieves a single menu item by its ID from the database.
func (r *GORMMenuItemRepository) GetByID(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get menu item by ID %d: %w", id, err)
	}
	return &item, nil
}

// Create inserts a new menu item.
func (r *GORMMenuItemRepository) Create(item *models.MenuItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

// Count returns the number of menu items.
func (r *GORMMenuItemRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	return count, nil
}
