package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("template not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]Template, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (Template, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Template{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ImportResult resume lo que hizo Import.
type ImportResult struct {
	Created int
	Updated int
}

// Import hace upsert por nombre: las plantillas existentes conservan su ID
// (los tratamientos ya generados siguen apuntando a ellas).
func (s *Service) Import(ctx context.Context, items []Template) (ImportResult, error) {
	var res ImportResult

	for _, in := range items {
		if err := Validate(in); err != nil {
			return res, err
		}

		now := s.now().UTC()
		current, err := s.repo.GetByName(ctx, strings.TrimSpace(in.Name))
		switch {
		case err == nil:
			current.Description = in.Description
			current.Kind = in.Kind
			current.MinCooldownDays = in.MinCooldownDays
			current.Periods = in.Periods
			current.Priority = in.Priority
			current.UpdatedAt = now
			if err := s.repo.Update(ctx, current); err != nil {
				return res, fmt.Errorf("update template %q: %w", current.Name, err)
			}
			res.Updated++
		case errors.Is(err, ErrNotFound):
			t := in
			t.ID = uuid.NewString()
			t.Name = strings.TrimSpace(in.Name)
			t.CreatedAt = now
			t.UpdatedAt = now
			if err := s.repo.Create(ctx, t); err != nil {
				return res, fmt.Errorf("create template %q: %w", t.Name, err)
			}
			res.Created++
		default:
			return res, err
		}
	}

	return res, nil
}

// Validate revisa una plantilla antes de persistirla.
// Una plantilla sin períodos es válida: simplemente nunca genera tratamientos.
func Validate(t Template) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, t.Kind)
	}
	if t.MinCooldownDays < 0 {
		return fmt.Errorf("%w: min_cooldown_days must be >= 0", ErrInvalidInput)
	}
	for i, p := range t.Periods {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %s period[%d] %s..%s: %v", ErrInvalidInput, t.Name, i, p.Start, p.End, err)
		}
	}
	return nil
}
