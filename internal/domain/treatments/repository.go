package treatments

import (
	"context"
	"time"

	"lawn-care-scheduler/internal/domain/calendar"
	"lawn-care-scheduler/internal/domain/templates"
)

// Repository es el store de tratamientos.
//
// InsertMany es todo-o-nada y devuelve ErrConflict si choca con el índice único
// (lawn_profile_id, template_id, proposed_date). UpdateStatus devuelve ErrNotFound
// si no existe la fila y ErrConflict si el estado actual no es tr.From; en el mismo
// paso registra la entrada de historial.
type Repository interface {
	InsertMany(ctx context.Context, items []Treatment) error
	ExistingOccurrences(ctx context.Context, lawnProfileID string, from, to calendar.Date) (OccurrenceSet, error)

	List(ctx context.Context, lawnProfileID string, f Filter, sort Sort, offset, limit int, embedTemplate bool) ([]Treatment, error)
	Count(ctx context.Context, lawnProfileID string, f Filter) (int, error)
	GetByID(ctx context.Context, id string) (Treatment, error)

	UpdateStatus(ctx context.Context, tr Transition) (Treatment, error)
	// ExpireBefore pasa a expired los activos con proposed_date < cutoff.
	ExpireBefore(ctx context.Context, cutoff calendar.Date, at time.Time) (int, error)

	History(ctx context.Context, treatmentID string) ([]HistoryEntry, error)
}

// TemplateSource entrega las plantillas vigentes para la generación.
type TemplateSource interface {
	List(ctx context.Context) ([]templates.Template, error)
}

// LawnOwnerLookup evita importar el paquete lawns.
// Debe devolver ErrLawnNotFound cuando el perfil no existe.
type LawnOwnerLookup interface {
	OwnerOf(ctx context.Context, lawnProfileID string) (string, error)
}
