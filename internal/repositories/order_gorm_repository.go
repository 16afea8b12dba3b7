package repositories

import (
	"errors"
	"fmt"

	"github.com/matyasmehes/szakdolgozat/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts a new order together with its items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order with its items and their menu items.
func (r *GORMOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items.MenuItem").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	return &order, nil
}

// ListOpen retrieves all orders that have not been delivered yet.
func (r *GORMOrderRepository) ListOpen() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items.MenuItem").Where("delivered = ?", false).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list open orders: %w", err)
	}
	return orders, nil
}

// ListByUser retrieves all orders owned by the given user.
func (r *GORMOrderRepository) ListByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items.MenuItem").Where("user_id = ?", userID).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for user %d: %w", userID, err)
	}
	return orders, nil
}

// MarkDelivered sets the delivered flag on an order. The lookup and the
// update share one transaction; an order that vanished in between surfaces
// as ErrNotFound rather than a generic failure.
func (r *GORMOrderRepository) MarkDelivered(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load order %d: %w", id, err)
		}
		if order.Delivered {
			// Already completed; the flag is monotonic.
			return nil
		}
		res := tx.Model(&models.Order{}).Where("id = ?", id).Update("delivered", true)
		if res.Error != nil {
			return fmt.Errorf("failed to mark order %d delivered: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost a race with a concurrent delete of the row.
			return ErrNotFound
		}
		return nil
	})
}
