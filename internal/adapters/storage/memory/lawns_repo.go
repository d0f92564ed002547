package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"lawn-care-scheduler/internal/domain/lawns"
)

type lawnRepo struct {
	mu   sync.RWMutex
	byID map[string]lawns.Profile
}

func NewLawnRepo() lawns.Repository {
	return &lawnRepo{
		byID: make(map[string]lawns.Profile),
	}
}

// activeTaken emula el índice único parcial (user_id) WHERE is_active.
func (r *lawnRepo) activeTaken(p lawns.Profile) bool {
	if !p.IsActive {
		return false
	}
	for _, other := range r.byID {
		if other.ID != p.ID && other.UserID == p.UserID && other.IsActive {
			return true
		}
	}
	return false
}

func (r *lawnRepo) Create(ctx context.Context, p lawns.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("lawn profile id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("lawn profile already exists")
	}
	if r.activeTaken(p) {
		return lawns.ErrActiveProfileExists
	}
	r.byID[p.ID] = p
	return nil
}

func (r *lawnRepo) Update(ctx context.Context, p lawns.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return lawns.ErrNotFound
	}
	if r.activeTaken(p) {
		return lawns.ErrActiveProfileExists
	}
	r.byID[p.ID] = p
	return nil
}

func (r *lawnRepo) GetByID(ctx context.Context, id string) (lawns.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return lawns.Profile{}, lawns.ErrNotFound
	}
	return p, nil
}

func (r *lawnRepo) GetActiveByUser(ctx context.Context, userID string) (lawns.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.UserID == userID && p.IsActive {
			return p, nil
		}
	}
	return lawns.Profile{}, lawns.ErrNotFound
}
