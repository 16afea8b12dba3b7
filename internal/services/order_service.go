package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/matyasmehes/szakdolgozat/internal/models"
	"github.com/matyasmehes/szakdolgozat/internal/repositories"
)

// OrderService handles business logic related to orders and the menu.
type OrderService struct {
	orderRepo repositories.OrderRepository
	menuRepo  repositories.MenuItemRepository
	userRepo  repositories.UserRepository
	pricing   *PricingService
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, menuRepo repositories.MenuItemRepository, userRepo repositories.UserRepository, pricing *PricingService) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		userRepo:  userRepo,
		pricing:   pricing,
	}
}

// ListMenu retrieves the full menu.
func (s *OrderService) ListMenu() ([]models.MenuItem, error) {
	return s.menuRepo.GetAll()
}

// ListOpenOrders returns every order not yet delivered, enriched with the
// owning customer's display name for the order board.
func (s *OrderService) ListOpenOrders() ([]models.OrderSummary, error) {
	orders, err := s.orderRepo.ListOpen()
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string)
	summaries := make([]models.OrderSummary, 0, len(orders))
	for _, order := range orders {
		name, ok := names[order.UserID]
		if !ok {
			user, err := s.userRepo.GetByID(order.UserID)
			if err != nil {
				if !errors.Is(err, repositories.ErrNotFound) {
					return nil, err
				}
				log.Printf("Order %d references unknown user %d", order.ID, order.UserID)
			} else {
				name = user.FirstName + " " + user.LastName
			}
			names[order.UserID] = name
		}
		summaries = append(summaries, models.OrderSummary{
			ID:              order.ID,
			UserID:          order.UserID,
			CustomerName:    name,
			CustomerPhone:   order.CustomerPhone,
			CustomerAddress: order.CustomerAddress,
			TotalPrice:      order.TotalPrice,
			Delivered:       order.Delivered,
			Items:           order.Items,
			OrderedAt:       order.OrderedAt,
		})
	}
	return summaries, nil
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// ListUserOrders retrieves all orders placed by the given user.
func (s *OrderService) ListUserOrders(userID uint) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}

// PlaceOrder validates and prices an order request for the authenticated
// user and persists it. New orders always start undelivered with a server
// timestamp.
func (s *OrderService) PlaceOrder(userID uint, req *models.OrderRequest) (*models.Order, error) {
	if req == nil || len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidOrder)
	}

	items, total, err := s.pricing.ResolveItems(req.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:          userID,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		TotalPrice:      total,
		Delivered:       false,
		Items:           items,
		OrderedAt:       time.Now(),
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	return order, nil
}

// CompleteOrder marks an order as delivered. Completing an already delivered
// order is a no-op; only a genuinely absent order yields
// repositories.ErrNotFound.
func (s *OrderService) CompleteOrder(id uint) error {
	return s.orderRepo.MarkDelivered(id)
}
