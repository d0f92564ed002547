package templates

import (
	"time"

	"lawn-care-scheduler/internal/domain/calendar"
)

// Kind define el tipo de tratamiento que genera una plantilla.
// @Enum mowing, fertilizing, watering, aeration, dethatching
type Kind string

const (
	KindMowing      Kind = "mowing"
	KindFertilizing Kind = "fertilizing"
	KindWatering    Kind = "watering"
	KindAeration    Kind = "aeration"
	KindDethatching Kind = "dethatching"
)

func (k Kind) Valid() bool {
	switch k {
	case KindMowing, KindFertilizing, KindWatering, KindAeration, KindDethatching:
		return true
	}
	return false
}

// Template es una definición recurrente de tratamiento.
// Es data de referencia: el motor de generación nunca la modifica.
type Template struct {
	ID          string
	Name        string
	Description *string

	Kind            Kind
	MinCooldownDays int
	Periods         []calendar.Period

	// Priority es informativo; la generación no lo usa.
	Priority int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary es la vista denormalizada que se embebe en cada tratamiento.
type Summary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Kind            Kind   `json:"kind"`
	MinCooldownDays int    `json:"min_cooldown_days"`
}

func (t Template) Summary() Summary {
	return Summary{
		ID:              t.ID,
		Name:            t.Name,
		Kind:            t.Kind,
		MinCooldownDays: t.MinCooldownDays,
	}
}
