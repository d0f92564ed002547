package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"lawn-care-scheduler/internal/domain/calendar"
	"lawn-care-scheduler/internal/domain/treatments"

	"github.com/google/uuid"
)

type TreatmentRepo struct {
	mu      sync.RWMutex
	byID    map[string]treatments.Treatment
	history []treatments.HistoryEntry

	// Para embed=template; puede ser nil.
	templates *TemplateRepo
}

func NewTreatmentRepo(tpls *TemplateRepo) *TreatmentRepo {
	return &TreatmentRepo{
		byID:      make(map[string]treatments.Treatment),
		templates: tpls,
	}
}

func occurrence(t treatments.Treatment) string {
	return t.LawnProfileID + "|" + t.TemplateID + "|" + t.ProposedDate.String()
}

// InsertMany es todo-o-nada: si algún item choca con el índice único no se inserta ninguno.
func (r *TreatmentRepo) InsertMany(ctx context.Context, items []treatments.Treatment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	taken := make(map[string]struct{}, len(r.byID)+len(items))
	for _, t := range r.byID {
		taken[occurrence(t)] = struct{}{}
	}
	for _, t := range items {
		if strings.TrimSpace(t.ID) == "" {
			return errors.New("treatment id required")
		}
		if _, exists := r.byID[t.ID]; exists {
			return errors.New("treatment already exists")
		}
		k := occurrence(t)
		if _, dup := taken[k]; dup {
			return treatments.ErrConflict
		}
		taken[k] = struct{}{}
	}

	for _, t := range items {
		t.Template = nil
		r.byID[t.ID] = t
	}
	return nil
}

func (r *TreatmentRepo) ExistingOccurrences(ctx context.Context, lawnID string, from, to calendar.Date) (treatments.OccurrenceSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := treatments.OccurrenceSet{}
	f := treatments.Filter{From: &from, To: &to}
	for _, t := range r.byID {
		if t.LawnProfileID == lawnID && f.Matches(t) {
			out.Add(t.TemplateID, t.ProposedDate)
		}
	}
	return out, nil
}

func (r *TreatmentRepo) matching(lawnID string, f treatments.Filter) []treatments.Treatment {
	out := make([]treatments.Treatment, 0)
	for _, t := range r.byID {
		if t.LawnProfileID == lawnID && f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func (r *TreatmentRepo) List(ctx context.Context, lawnID string, f treatments.Filter, s treatments.Sort, offset, limit int, embed bool) ([]treatments.Treatment, error) {
	r.mu.RLock()
	items := r.matching(lawnID, f)
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.ProposedDate.Equal(b.ProposedDate) {
			if s.Descending() {
				return a.ProposedDate.After(b.ProposedDate)
			}
			return a.ProposedDate.Before(b.ProposedDate)
		}
		return a.ID < b.ID
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []treatments.Treatment{}, nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	page := items[offset:end]

	if embed && r.templates != nil {
		for i := range page {
			if sum, ok := r.templates.summary(page[i].TemplateID); ok {
				page[i].Template = &sum
			}
		}
	}
	return page, nil
}

func (r *TreatmentRepo) Count(ctx context.Context, lawnID string, f treatments.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matching(lawnID, f)), nil
}

func (r *TreatmentRepo) GetByID(ctx context.Context, id string) (treatments.Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return treatments.Treatment{}, treatments.ErrNotFound
	}
	return t, nil
}

func (r *TreatmentRepo) UpdateStatus(ctx context.Context, tr treatments.Transition) (treatments.Treatment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[tr.TreatmentID]
	if !ok {
		return treatments.Treatment{}, treatments.ErrNotFound
	}
	if t.Status != tr.From {
		return treatments.Treatment{}, treatments.ErrConflict
	}

	t.Status = tr.To
	t.UpdatedAt = tr.At
	r.byID[t.ID] = t
	r.appendHistory(t, tr.From, tr.PerformedDate, tr.RejectionReason, tr.At)
	return t, nil
}

func (r *TreatmentRepo) ExpireBefore(ctx context.Context, cutoff calendar.Date, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, t := range r.byID {
		if t.Status != treatments.StatusActive || !t.ProposedDate.Before(cutoff) {
			continue
		}
		t.Status = treatments.StatusExpired
		t.UpdatedAt = at
		r.byID[id] = t
		r.appendHistory(t, treatments.StatusActive, nil, nil, at)
		n++
	}
	return n, nil
}

func (r *TreatmentRepo) History(ctx context.Context, treatmentID string) ([]treatments.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]treatments.HistoryEntry, 0)
	for _, h := range r.history {
		if h.TreatmentID == treatmentID {
			out = append(out, h)
		}
	}
	return out, nil
}

// appendHistory requiere r.mu tomado.
func (r *TreatmentRepo) appendHistory(t treatments.Treatment, old treatments.Status, performed *calendar.Date, reason *string, at time.Time) {
	r.history = append(r.history, treatments.HistoryEntry{
		ID:              uuid.NewString(),
		TreatmentID:     t.ID,
		LawnProfileID:   t.LawnProfileID,
		StatusOld:       old,
		StatusNew:       t.Status,
		PerformedDate:   performed,
		RejectionReason: reason,
		CreatedAt:       at,
	})
}
