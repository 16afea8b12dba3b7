package repositories

import (
	"sort"
	"sync"
	"time"

	"github.com/matyasmehes/szakdolgozat/internal/models"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[uint]models.Order
	nextID uint
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[uint]models.Order),
		nextID: 1,
	}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == 0 {
		order.ID = r.nextID
		r.nextID++
	}
	if order.OrderedAt.IsZero() {
		order.OrderedAt = time.Now()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id uint) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &order, nil
}

// ListOpen returns all undelivered orders in ID order.
func (r *MockOrderRepository) ListOpen() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if !order.Delivered {
			orderList = append(orderList, order)
		}
	}
	sort.Slice(orderList, func(i, j int) bool { return orderList[i].ID < orderList[j].ID })
	return orderList, nil
}

// ListByUser returns all orders owned by the given user in ID order.
func (r *MockOrderRepository) ListByUser(userID uint) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	sort.Slice(orderList, func(i, j int) bool { return orderList[i].ID < orderList[j].ID })
	return orderList, nil
}

// MarkDelivered flips the delivered flag on an order.
func (r *MockOrderRepository) MarkDelivered(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	order.Delivered = true
	r.orders[id] = order
	return nil
}
