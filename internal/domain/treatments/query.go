package treatments

import (
	"fmt"
	"time"

	"lawn-care-scheduler/internal/domain/calendar"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	DefaultUpcomingDays = 10
	DefaultBackfillDays = 60
)

// Sort ordena siempre por proposed_date; el desempate es por id.
type Sort string

const (
	SortProposedDateAsc  Sort = "proposed_date_asc"
	SortProposedDateDesc Sort = "proposed_date_desc"

	sortProposedDateAlias Sort = "proposed_date"
)

// ParseSort acepta "" y "proposed_date" como ascendente.
func ParseSort(s string) (Sort, error) {
	switch Sort(s) {
	case "", sortProposedDateAlias, SortProposedDateAsc:
		return SortProposedDateAsc, nil
	case SortProposedDateDesc:
		return SortProposedDateDesc, nil
	}
	return "", fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, s)
}

func (s Sort) Descending() bool { return s == SortProposedDateDesc }

// Filter combina todos los campos con AND; nil / "" = sin filtro.
type Filter struct {
	Status     *Status
	TemplateID string
	From       *calendar.Date
	To         *calendar.Date
}

// Matches aplica el filtro en memoria (lo usan los adapters sin SQL).
func (f Filter) Matches(t Treatment) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.TemplateID != "" && t.TemplateID != f.TemplateID {
		return false
	}
	if f.From != nil && t.ProposedDate.Before(*f.From) {
		return false
	}
	if f.To != nil && t.ProposedDate.After(*f.To) {
		return false
	}
	return true
}

func (f Filter) activeOnly() bool {
	return f.Status != nil && *f.Status == StatusActive
}

type ListQuery struct {
	Filter

	Page  int
	Limit int
	Sort  Sort

	EmbedTemplate bool
}

func (q ListQuery) Offset() int { return (q.Page - 1) * q.Limit }

func (q ListQuery) validate() error {
	if q.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxLimit)
	}
	if q.Sort != SortProposedDateAsc && q.Sort != SortProposedDateDesc {
		return fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, q.Sort)
	}
	if q.Status != nil && !q.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *q.Status)
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return fmt.Errorf("%w: from must be on or before to", ErrInvalidInput)
	}
	return nil
}

// UpcomingQuery es la parametrización fija de "próximos tratamientos":
// activos, [hoy, hoy+windowDays], con plantilla, página 1 de 100, ascendente.
func UpcomingQuery(windowDays int, now time.Time) ListQuery {
	from, to := calendar.Window(windowDays, now)
	active := StatusActive
	return ListQuery{
		Filter: Filter{
			Status: &active,
			From:   &from,
			To:     &to,
		},
		Page:          1,
		Limit:         MaxLimit,
		Sort:          SortProposedDateAsc,
		EmbedTemplate: true,
	}
}

type Page struct {
	Items []Treatment
	Total int
}
