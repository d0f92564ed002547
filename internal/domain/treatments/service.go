package treatments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lawn-care-scheduler/internal/domain/calendar"
	"lawn-care-scheduler/internal/platform/logger"

	"github.com/google/uuid"
)

const maxReasonLen = 500

type Service struct {
	repo   Repository
	tpls   TemplateSource
	owners LawnOwnerLookup
	log    logger.Logger
	now    func() time.Time

	upcomingDays int
	backfillDays int
}

type Option func(*Service)

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithUpcomingDays(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.upcomingDays = n
		}
	}
}

func WithBackfillDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.backfillDays = n
		}
	}
}

func NewService(repo Repository, tpls TemplateSource, owners LawnOwnerLookup, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		tpls:         tpls,
		owners:       owners,
		log:          logger.Discard(),
		now:          time.Now,
		upcomingDays: DefaultUpcomingDays,
		backfillDays: DefaultBackfillDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) UpcomingDays() int { return s.upcomingDays }

// AuthorizeLawn verifica que el perfil exista (ErrLawnNotFound) y sea de actorID (ErrForbidden).
func (s *Service) AuthorizeLawn(ctx context.Context, lawnProfileID, actorID string) error {
	owner, err := s.owners.OwnerOf(ctx, lawnProfileID)
	if err != nil {
		return s.fail("get lawn owner", err, map[string]any{"lawn_profile_id": lawnProfileID})
	}
	if owner == "" || owner != actorID {
		return ErrForbidden
	}
	return nil
}

// List devuelve la página pedida y el total de filas que cumplen el filtro.
// Son dos consultas independientes; bajo escrituras concurrentes pueden no coincidir.
func (s *Service) List(ctx context.Context, lawnProfileID string, q ListQuery) (Page, error) {
	if strings.TrimSpace(lawnProfileID) == "" {
		return Page{}, fmt.Errorf("%w: lawn profile id required", ErrInvalidInput)
	}
	if err := q.validate(); err != nil {
		return Page{}, err
	}

	fields := map[string]any{"lawn_profile_id": lawnProfileID}

	items, err := s.repo.List(ctx, lawnProfileID, q.Filter, q.Sort, q.Offset(), q.Limit, q.EmbedTemplate)
	if err != nil {
		return Page{}, s.fail("list treatments", err, fields)
	}
	total, err := s.repo.Count(ctx, lawnProfileID, q.Filter)
	if err != nil {
		return Page{}, s.fail("count treatments", err, fields)
	}

	if items == nil {
		items = []Treatment{}
	}
	return Page{Items: items, Total: total}, nil
}

// UpcomingQuery usa la ventana configurada y el reloj del servicio.
func (s *Service) UpcomingQuery() ListQuery {
	return UpcomingQuery(s.upcomingDays, s.now())
}

// ListUpcoming es List con UpcomingQuery; no hay otro camino de lectura.
func (s *Service) ListUpcoming(ctx context.Context, lawnProfileID string, windowDays int) (Page, error) {
	return s.List(ctx, lawnProfileID, UpcomingQuery(windowDays, s.now()))
}

// ListWithBackfill ejecuta List y, si una consulta de activos no trae nada,
// genera tratamientos para el horizonte de backfill y repite la consulta una sola vez.
// Un fallo de generación se registra y se devuelve la página vacía original.
func (s *Service) ListWithBackfill(ctx context.Context, lawnProfileID string, q ListQuery) (Page, error) {
	page, err := s.List(ctx, lawnProfileID, q)
	if err != nil {
		return Page{}, err
	}
	if page.Total > 0 || !q.activeOnly() {
		return page, nil
	}

	if _, err := s.Backfill(ctx, lawnProfileID, s.backfillDays); err != nil {
		s.log.Warn("backfill failed; returning empty page", map[string]any{
			"lawn_profile_id": lawnProfileID,
			"horizon_days":    s.backfillDays,
			"error":           err.Error(),
		})
		return page, nil
	}
	return s.List(ctx, lawnProfileID, q)
}

// Backfill genera y persiste los tratamientos faltantes en [hoy, hoy+horizonDays].
// Devuelve cuántos insertó. Un choque con el índice único significa que otra
// llamada ya los generó: se registra y se devuelve 0 sin error.
func (s *Service) Backfill(ctx context.Context, lawnProfileID string, horizonDays int) (int, error) {
	if strings.TrimSpace(lawnProfileID) == "" {
		return 0, fmt.Errorf("%w: lawn profile id required", ErrInvalidInput)
	}
	if horizonDays < 0 {
		return 0, fmt.Errorf("%w: horizon must be >= 0", ErrInvalidInput)
	}

	now := s.now().UTC()
	from, to := calendar.Window(horizonDays, now)
	fields := map[string]any{
		"lawn_profile_id": lawnProfileID,
		"from":            from.String(),
		"to":              to.String(),
	}

	tpls, err := s.tpls.List(ctx)
	if err != nil {
		return 0, s.fail("list templates", err, fields)
	}
	existing, err := s.repo.ExistingOccurrences(ctx, lawnProfileID, from, to)
	if err != nil {
		return 0, s.fail("existing occurrences", err, fields)
	}

	drafts := Expand(tpls, lawnProfileID, from, to, existing)
	if len(drafts) == 0 {
		return 0, nil
	}

	items := make([]Treatment, 0, len(drafts))
	for _, d := range drafts {
		items = append(items, Treatment{
			ID:             uuid.NewString(),
			LawnProfileID:  d.LawnProfileID,
			TemplateID:     d.TemplateID,
			ProposedDate:   d.ProposedDate,
			Status:         StatusActive,
			GenerationKind: d.GenerationKind,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	if err := s.repo.InsertMany(ctx, items); err != nil {
		if errors.Is(err, ErrConflict) {
			s.log.Info("backfill skipped: occurrences already generated", fields)
			return 0, nil
		}
		return 0, s.fail("insert treatments", err, fields)
	}

	s.log.Info("backfill generated treatments", map[string]any{
		"lawn_profile_id": lawnProfileID,
		"count":           len(items),
	})
	return len(items), nil
}

// Complete pasa un tratamiento de active a completed.
// performedDate es opcional (YYYY-MM-DD); sin valor se registra la fecha de hoy.
func (s *Service) Complete(ctx context.Context, treatmentID, actorID, performedDate string) (Treatment, error) {
	performed := calendar.DateOf(s.now())
	if strings.TrimSpace(performedDate) != "" {
		d, err := calendar.ParseDate(strings.TrimSpace(performedDate))
		if err != nil {
			return Treatment{}, fmt.Errorf("%w: performed_date must be YYYY-MM-DD", ErrInvalidInput)
		}
		performed = d
	}

	return s.transition(ctx, treatmentID, actorID, Transition{
		To:            StatusCompleted,
		PerformedDate: &performed,
	})
}

// Reject pasa un tratamiento de active a rejected con un motivo opcional.
func (s *Service) Reject(ctx context.Context, treatmentID, actorID, reason string) (Treatment, error) {
	tr := Transition{To: StatusRejected}
	if r := strings.TrimSpace(reason); r != "" {
		if len([]rune(r)) > maxReasonLen {
			return Treatment{}, fmt.Errorf("%w: reason must have at most %d characters", ErrInvalidInput, maxReasonLen)
		}
		tr.RejectionReason = &r
	}
	return s.transition(ctx, treatmentID, actorID, tr)
}

// transition chequea en orden: existe (ErrNotFound) -> dueño (ErrForbidden) -> estado (ErrConflict).
func (s *Service) transition(ctx context.Context, treatmentID, actorID string, tr Transition) (Treatment, error) {
	treatmentID = strings.TrimSpace(treatmentID)
	if treatmentID == "" {
		return Treatment{}, ErrNotFound
	}
	fields := map[string]any{"treatment_id": treatmentID, "to": string(tr.To)}

	t, err := s.repo.GetByID(ctx, treatmentID)
	if err != nil {
		return Treatment{}, s.fail("get treatment", err, fields)
	}

	if err := s.AuthorizeLawn(ctx, t.LawnProfileID, actorID); err != nil {
		// Un perfil inexistente para un tratamiento existente se trata como falta de acceso.
		if errors.Is(err, ErrLawnNotFound) {
			return Treatment{}, ErrForbidden
		}
		return Treatment{}, err
	}

	if t.Status != StatusActive {
		return Treatment{}, fmt.Errorf("%w: treatment is already %s", ErrConflict, t.Status)
	}

	tr.TreatmentID = t.ID
	tr.From = StatusActive
	tr.At = s.now().UTC()

	updated, err := s.repo.UpdateStatus(ctx, tr)
	if err != nil {
		return Treatment{}, s.fail("update treatment status", err, fields)
	}
	return updated, nil
}

// History devuelve el historial de un tratamiento del actor.
func (s *Service) History(ctx context.Context, treatmentID, actorID string) ([]HistoryEntry, error) {
	t, err := s.repo.GetByID(ctx, strings.TrimSpace(treatmentID))
	if err != nil {
		return nil, s.fail("get treatment", err, map[string]any{"treatment_id": treatmentID})
	}
	if err := s.AuthorizeLawn(ctx, t.LawnProfileID, actorID); err != nil {
		if errors.Is(err, ErrLawnNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	entries, err := s.repo.History(ctx, t.ID)
	if err != nil {
		return nil, s.fail("list history", err, map[string]any{"treatment_id": t.ID})
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}

// ExpireOverdue marca como expired los activos con proposed_date anterior a hoy-graceDays.
func (s *Service) ExpireOverdue(ctx context.Context, graceDays int) (int, error) {
	if graceDays < 0 {
		graceDays = 0
	}
	now := s.now().UTC()
	cutoff := calendar.DateOf(now).AddDays(-graceDays)

	n, err := s.repo.ExpireBefore(ctx, cutoff, now)
	if err != nil {
		return 0, s.fail("expire treatments", err, map[string]any{"cutoff": cutoff.String()})
	}
	if n > 0 {
		s.log.Info("expired overdue treatments", map[string]any{"count": n, "cutoff": cutoff.String()})
	}
	return n, nil
}

// fail clasifica el error y deja en el log los fallos de store con su contexto.
func (s *Service) fail(op string, err error, fields map[string]any) error {
	err = storeErr(op, err)
	var se *StoreError
	if errors.As(err, &se) {
		f := map[string]any{"op": op, "error": se.Err.Error()}
		for k, v := range fields {
			f[k] = v
		}
		s.log.Error("treatments store failure", f)
	}
	return err
}
