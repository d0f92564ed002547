package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"lawn-care-scheduler/internal/domain/calendar"
	"lawn-care-scheduler/internal/domain/templates"
)

type TemplateRepo struct {
	mu   sync.RWMutex
	byID map[string]templates.Template
}

func NewTemplateRepo() *TemplateRepo {
	return &TemplateRepo{
		byID: make(map[string]templates.Template),
	}
}

// List devuelve por prioridad y luego nombre, para que la generación sea estable.
func (r *TemplateRepo) List(ctx context.Context) ([]templates.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]templates.Template, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, clone(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *TemplateRepo) GetByID(ctx context.Context, id string) (templates.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return templates.Template{}, templates.ErrNotFound
	}
	return clone(t), nil
}

func (r *TemplateRepo) GetByName(ctx context.Context, name string) (templates.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.byID {
		if t.Name == name {
			return clone(t), nil
		}
	}
	return templates.Template{}, templates.ErrNotFound
}

func (r *TemplateRepo) Create(ctx context.Context, t templates.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(t.ID) == "" {
		return errors.New("template id required")
	}
	if _, exists := r.byID[t.ID]; exists {
		return errors.New("template already exists")
	}
	r.byID[t.ID] = clone(t)
	return nil
}

func (r *TemplateRepo) Update(ctx context.Context, t templates.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[t.ID]; !exists {
		return templates.ErrNotFound
	}
	r.byID[t.ID] = clone(t)
	return nil
}

func (r *TemplateRepo) summary(id string) (templates.Summary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return templates.Summary{}, false
	}
	return t.Summary(), true
}

// clone evita compartir el slice de períodos con el llamador.
func clone(t templates.Template) templates.Template {
	if t.Periods != nil {
		t.Periods = append([]calendar.Period(nil), t.Periods...)
	}
	return t
}
