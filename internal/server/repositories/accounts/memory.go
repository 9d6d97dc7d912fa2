package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thecollekta/airbnb-clone-project/internal/common"
	"github.com/thecollekta/airbnb-clone-project/internal/server/models"
)

// MemoryRepository is the reference in-memory credential store. It provides
// the same per-record atomicity as the SQL implementation (a single mutex
// guards every read-modify-write), which makes the register check-then-insert
// race-free. Intended for tests and local development.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.Account
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]models.Account),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a := r.byID[id]
	return &a, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) Insert(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := models.NormalizeEmail(account.Email)
	if _, exists := r.byEmail[key]; exists {
		return nil, common.ErrorDuplicateEmail
	}

	now := time.Now().UTC()
	stored := *account
	stored.ID = uuid.New().String()
	stored.IsActive = true
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.byID[stored.ID] = stored
	r.byEmail[key] = stored.ID

	out := stored
	return &out, nil
}

func (r *MemoryRepository) Update(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.byID[account.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}

	stored := *account
	stored.CreatedAt = prev.CreatedAt
	stored.UpdatedAt = time.Now().UTC()

	delete(r.byEmail, models.NormalizeEmail(prev.Email))
	r.byID[stored.ID] = stored
	r.byEmail[models.NormalizeEmail(stored.Email)] = stored.ID

	out := stored
	return &out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}

	delete(r.byID, id)
	delete(r.byEmail, models.NormalizeEmail(a.Email))
	return nil
}
