package lawns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("lawn profile not found")
	ErrForbidden           = errors.New("forbidden")
	ErrActiveProfileExists = errors.New("user already has an active lawn profile")
)

const (
	maxNameLen        = 255
	maxSurfaceTypeLen = 500
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

type CreateInput struct {
	Name        string
	Latitude    float64
	Longitude   float64
	SizeM2      *float64
	SunExposure *SunExposure
	SurfaceType *string
	IsActive    *bool
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrInvalidInput
	}

	p := Profile{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		SizeM2:      DefaultSizeM2,
		SunExposure: DefaultSunExposure,
		SurfaceType: normalizeOptional(in.SurfaceType),
		IsActive:    true,
	}
	if in.SizeM2 != nil {
		p.SizeM2 = *in.SizeM2
	}
	if in.SunExposure != nil {
		p.SunExposure = *in.SunExposure
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := validate(p); err != nil {
		return Profile{}, err
	}

	now := s.now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetActive devuelve el perfil activo del usuario o ErrNotFound.
func (s *Service) GetActive(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrInvalidInput
	}
	return s.repo.GetActiveByUser(ctx, userID)
}

// OptionalString permite distinguir "no enviado" de "enviado como null" en PATCH.
type OptionalString struct {
	Present bool
	Value   *string
}

type UpdateInput struct {
	// Punteros: nil = no tocar.
	Name        *string
	Latitude    *float64
	Longitude   *float64
	SizeM2      *float64
	SunExposure *SunExposure
	SurfaceType OptionalString
	IsActive    *bool
}

func (in UpdateInput) empty() bool {
	return in.Name == nil && in.Latitude == nil && in.Longitude == nil && in.SizeM2 == nil &&
		in.SunExposure == nil && !in.SurfaceType.Present && in.IsActive == nil
}

// Update aplica un PATCH parcial. Orden de chequeos: existe (404) -> dueño (403) -> validación.
func (s *Service) Update(ctx context.Context, userID, lawnID string, in UpdateInput) (Profile, error) {
	current, err := s.GetByID(ctx, lawnID)
	if err != nil {
		return Profile{}, err
	}
	if current.UserID != strings.TrimSpace(userID) {
		return Profile{}, ErrForbidden
	}
	if in.empty() {
		return current, nil
	}

	p := current
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Latitude != nil {
		p.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = *in.Longitude
	}
	if in.SizeM2 != nil {
		p.SizeM2 = *in.SizeM2
	}
	if in.SunExposure != nil {
		p.SunExposure = *in.SunExposure
	}
	if in.SurfaceType.Present {
		p.SurfaceType = normalizeOptional(in.SurfaceType.Value)
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if err := validate(p); err != nil {
		return Profile{}, err
	}

	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// OwnerOf expone el user_id dueño de un perfil.
// Lo usa treatments para autorizar sin importar el paquete lawns en sus modelos.
func (s *Service) OwnerOf(ctx context.Context, lawnID string) (string, error) {
	p, err := s.GetByID(ctx, lawnID)
	if err != nil {
		return "", err
	}
	return p.UserID, nil
}

func validate(p Profile) error {
	if p.Name == "" || len([]rune(p.Name)) > maxNameLen {
		return fmt.Errorf("%w: name must have 1..%d characters", ErrInvalidInput, maxNameLen)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidInput)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidInput)
	}
	if p.SizeM2 <= 0 {
		return fmt.Errorf("%w: size_m2 must be greater than 0", ErrInvalidInput)
	}
	if !p.SunExposure.Valid() {
		return fmt.Errorf("%w: sun_exposure must be low, medium or high", ErrInvalidInput)
	}
	if p.SurfaceType != nil && len([]rune(*p.SurfaceType)) > maxSurfaceTypeLen {
		return fmt.Errorf("%w: surface_type must have at most %d characters", ErrInvalidInput, maxSurfaceTypeLen)
	}
	return nil
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
