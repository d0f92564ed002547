package lawns

import "time"

// SunExposure define la exposición al sol del césped.
// @Enum low, medium, high
type SunExposure string

const (
	SunLow    SunExposure = "low"
	SunMedium SunExposure = "medium"
	SunHigh   SunExposure = "high"
)

func (s SunExposure) Valid() bool {
	switch s {
	case SunLow, SunMedium, SunHigh:
		return true
	}
	return false
}

const (
	DefaultSizeM2      = 100.0
	DefaultSunExposure = SunMedium
)

// Profile representa un césped registrado por un usuario.
type Profile struct {
	ID     string
	UserID string

	Name      string
	Latitude  float64
	Longitude float64

	SizeM2      float64
	SunExposure SunExposure
	SurfaceType *string // opcional (tipo de superficie)

	// Solo un perfil activo por usuario.
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
