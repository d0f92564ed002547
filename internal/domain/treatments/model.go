package treatments

import (
	"fmt"
	"time"

	"lawn-care-scheduler/internal/domain/calendar"
	"lawn-care-scheduler/internal/domain/templates"
)

// Status define el ciclo de vida de un tratamiento.
// @Enum active, completed, rejected, expired
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusRejected, StatusExpired:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
	}
	return st, nil
}

// GenerationKind indica cómo se generó el tratamiento.
// Hoy solo se produce static; dynamic queda reservado.
type GenerationKind string

const (
	GenerationStatic  GenerationKind = "static"
	GenerationDynamic GenerationKind = "dynamic"
)

type Treatment struct {
	ID            string
	LawnProfileID string
	TemplateID    string

	ProposedDate   calendar.Date
	Status         Status
	GenerationKind GenerationKind

	// Siempre nil para generación estática.
	WeatherRationale *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Solo se completa cuando se pide embed=template.
	Template *templates.Summary
}

// Draft es una ocurrencia calculada por Expand, todavía sin persistir.
type Draft struct {
	LawnProfileID  string
	TemplateID     string
	ProposedDate   calendar.Date
	GenerationKind GenerationKind
}

// OccurrenceSet es el conjunto de pares (template_id, fecha) ya existentes para un césped.
type OccurrenceSet map[string]struct{}

func occurrenceKey(templateID string, d calendar.Date) string {
	return templateID + "|" + d.String()
}

func (s OccurrenceSet) Has(templateID string, d calendar.Date) bool {
	_, ok := s[occurrenceKey(templateID, d)]
	return ok
}

func (s OccurrenceSet) Add(templateID string, d calendar.Date) {
	s[occurrenceKey(templateID, d)] = struct{}{}
}

// Transition describe un cambio de estado con precondición sobre el estado actual.
type Transition struct {
	TreatmentID string
	From        Status
	To          Status

	PerformedDate   *calendar.Date
	RejectionReason *string

	At time.Time
}

// HistoryEntry es un registro de treatment_history; lo escribe el store en cada transición.
type HistoryEntry struct {
	ID            string
	TreatmentID   string
	LawnProfileID string

	StatusOld Status
	StatusNew Status

	PerformedDate   *calendar.Date
	RejectionReason *string

	CreatedAt time.Time
}
