package repositories

import (
	"sort"
	"sync"

	"github.com/matyasmehes/szakdolgozat/internal/models"
)

// MockMenuItemRepository is an in-memory implementation of MenuItemRepository.
type MockMenuItemRepository struct {
	items  map[uint]models.MenuItem
	nextID uint
	mu     sync.RWMutex
}

// NewMockMenuItemRepository creates a new instance of MockMenuItemRepository.
func NewMockMenuItemRepository() *MockMenuItemRepository {
	return &MockMenuItemRepository{
		items:  make(map[uint]models.MenuItem),
		nextID: 1,
	}
}

// GetAll returns all menu items ordered by ID.
func (r *MockMenuItemRepository) GetAll() ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemList := make([]models.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		itemList = append(itemList, item)
	}
	sort.Slice(itemList, func(i, j int) bool { return itemList[i].ID < itemList[j].ID })
	return itemList, nil
}

// GetByID returns a menu item by its ID.
func (r *MockMenuItemRepository) GetByID(id uint) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

// Create adds a new menu item.
func (r *MockMenuItemRepository) Create(item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		item.ID = r.nextID
		r.nextID++
	} else if item.ID >= r.nextID {
		r.nextID = item.ID + 1
	}
	r.items[item.ID] = *item
	return nil
}

// Count returns the number of menu items.
func (r *MockMenuItemRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.items)), nil
}
