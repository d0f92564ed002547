package templates

import "context"

type Repository interface {
	List(ctx context.Context) ([]Template, error)
	GetByID(ctx context.Context, id string) (Template, error)
	GetByName(ctx context.Context, name string) (Template, error)
	Create(ctx context.Context, t Template) error
	Update(ctx context.Context, t Template) error
}
