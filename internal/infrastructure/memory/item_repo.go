package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
)

type ItemRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  []domain.Item
}

func NewItemRepo() *ItemRepo {
	return &ItemRepo{}
}

// List returns items in insertion order.
func (r *ItemRepo) List(ctx context.Context) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *ItemRepo) Create(ctx context.Context, it domain.Item) (domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	it.ID = r.nextID
	it.CreatedAt = time.Now().UTC()
	it.UpdatedAt = it.CreatedAt
	r.items = append(r.items, it)
	return it, nil
}
