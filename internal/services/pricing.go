package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/matyasmehes/szakdolgozat/internal/models"
	"github.com/matyasmehes/szakdolgozat/internal/repositories"

	"github.com/shopspring/decimal"
)

// PricingService resolves requested order lines against the authoritative
// menu and computes the order total. Prices always come from the menu, never
// from client input.
type PricingService struct {
	menuRepo repositories.MenuItemRepository
}

// NewPricingService creates a new PricingService.
func NewPricingService(menuRepo repositories.MenuItemRepository) *PricingService {
	return &PricingService{
		menuRepo: menuRepo,
	}
}

// ResolveItems resolves each requested line against the menu and returns the
// resolved order items together with the exact decimal total. Lines whose
// menu item ID does not resolve are dropped; every line is checked, so a bad
// reference never affects the lines after it. A zero or negative quantity is
// a client error.
func (s *PricingService) ResolveItems(requested []models.OrderItemRequest) ([]models.OrderItem, decimal.Decimal, error) {
	total := decimal.Zero
	resolved := make([]models.OrderItem, 0, len(requested))

	for _, line := range requested {
		if line.Quantity <= 0 {
			return nil, decimal.Zero, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidOrder, line.Quantity)
		}

		item, err := s.menuRepo.GetByID(line.MenuItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				log.Printf("Dropping order line with unknown menu item %d", line.MenuItemID)
				continue
			}
			return nil, decimal.Zero, fmt.Errorf("failed to resolve menu item %d: %w", line.MenuItemID, err)
		}

		resolved = append(resolved, models.OrderItem{
			MenuItemID: item.ID,
			MenuItem:   *item,
			Quantity:   line.Quantity,
		})
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return resolved, total, nil
}
