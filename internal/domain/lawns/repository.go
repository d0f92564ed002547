package lawns

import "context"

// Repository devuelve ErrNotFound cuando no hay fila y ErrActiveProfileExists
// cuando se viola la unicidad (user_id, is_active).
type Repository interface {
	Create(ctx context.Context, p Profile) error
	Update(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, id string) (Profile, error)
	GetActiveByUser(ctx context.Context, userID string) (Profile, error)
}
