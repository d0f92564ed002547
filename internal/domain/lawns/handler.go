package lawns

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"lawn-care-scheduler/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/lawn-profiles", func(lr chi.Router) {
		lr.Post("/", createProfileHandler(svc))
		lr.Get("/active", getActiveProfileHandler(svc))
		lr.Get("/{lawnProfileID}", getProfileHandler(svc))
		lr.Patch("/{lawnProfileID}", updateProfileHandler(svc))
	})
}

type createProfileRequest struct {
	Name        string       `json:"name"`
	Latitude    *float64     `json:"latitude"`
	Longitude   *float64     `json:"longitude"`
	SizeM2      *float64     `json:"size_m2"`
	SunExposure *SunExposure `json:"sun_exposure" enums:"low,medium,high"`
	SurfaceType *string      `json:"surface_type"`
	IsActive    *bool        `json:"is_active"`
}

type updateProfileRequest struct {
	Name        *string      `json:"name"`
	Latitude    *float64     `json:"latitude"`
	Longitude   *float64     `json:"longitude"`
	SizeM2      *float64     `json:"size_m2"`
	SunExposure *SunExposure `json:"sun_exposure" enums:"low,medium,high"`
	SurfaceType *string      `json:"surface_type"` // null = limpiar
	IsActive    *bool        `json:"is_active"`
}

type profileResponse struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Name        string      `json:"name"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	SizeM2      float64     `json:"size_m2"`
	SunExposure SunExposure `json:"sun_exposure"`
	SurfaceType *string     `json:"surface_type"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type profileEnvelope struct {
	Data *profileResponse `json:"data"`
}

// createProfileHandler godoc
// @Summary Crear perfil de césped
// @Description Crea un perfil para el usuario autenticado. Valores por defecto: size_m2=100, sun_exposure=medium, is_active=true. Un usuario puede tener un solo perfil activo.
// @Tags lawn-profiles
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body createProfileRequest true "Datos del perfil"
// @Success 201 {object} profileEnvelope
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "ya existe un perfil activo"
// @Router /lawn-profiles [post]
func createProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Latitude == nil || req.Longitude == nil {
			http.Error(w, "latitude and longitude are required", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:        req.Name,
			Latitude:    *req.Latitude,
			Longitude:   *req.Longitude,
			SizeM2:      req.SizeM2,
			SunExposure: req.SunExposure,
			SurfaceType: req.SurfaceType,
			IsActive:    req.IsActive,
		})
		if err != nil {
			writeServiceError(w, r, "create lawn profile", err)
			return
		}

		writeJSON(w, http.StatusCreated, envelope(p))
	}
}

// getActiveProfileHandler godoc
// @Summary Perfil activo del usuario
// @Description Devuelve el perfil activo del usuario autenticado o `data: null` si no tiene ninguno.
// @Tags lawn-profiles
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} profileEnvelope
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /lawn-profiles/active [get]
func getActiveProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetActive(r.Context(), claims.UserID)
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusOK, profileEnvelope{Data: nil})
			return
		}
		if err != nil {
			writeServiceError(w, r, "get active lawn profile", err)
			return
		}

		writeJSON(w, http.StatusOK, envelope(p))
	}
}

// getProfileHandler godoc
// @Summary Obtener perfil de césped
// @Tags lawn-profiles
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param lawnProfileID path string true "ID del perfil"
// @Success 200 {object} profileEnvelope
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "lawn profile not found"
// @Router /lawn-profiles/{lawnProfileID} [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "lawnProfileID"))
		if err != nil {
			writeServiceError(w, r, "get lawn profile", err)
			return
		}
		if p.UserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, envelope(p))
	}
}

// updateProfileHandler godoc
// @Summary Actualizar perfil de césped (PATCH parcial)
// @Description Solo el dueño puede actualizar. `surface_type: null` limpia el campo.
// @Tags lawn-profiles
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param lawnProfileID path string true "ID del perfil"
// @Param payload body updateProfileRequest true "Campos a modificar"
// @Success 200 {object} profileEnvelope
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "lawn profile not found"
// @Failure 409 {string} string "ya existe un perfil activo"
// @Router /lawn-profiles/{lawnProfileID} [patch]
func updateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Decodificamos primero a map para detectar presencia de surface_type (null = limpiar).
		dec := json.NewDecoder(r.Body)
		var raw map[string]json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var req updateProfileRequest
		{
			b, _ := json.Marshal(raw)
			inner := json.NewDecoder(strings.NewReader(string(b)))
			inner.DisallowUnknownFields()
			if err := inner.Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		surface := OptionalString{}
		if v, exists := raw["surface_type"]; exists {
			surface.Present = true
			if string(v) != "null" {
				surface.Value = req.SurfaceType
			}
		}

		p, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "lawnProfileID"), UpdateInput{
			Name:        req.Name,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			SizeM2:      req.SizeM2,
			SunExposure: req.SunExposure,
			SurfaceType: surface,
			IsActive:    req.IsActive,
		})
		if err != nil {
			writeServiceError(w, r, "update lawn profile", err)
			return
		}

		writeJSON(w, http.StatusOK, envelope(p))
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "lawn profile not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrActiveProfileExists):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		middleware.LoggerFrom(r.Context()).Error(op+" failed", map[string]any{"error": err.Error()})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func envelope(p Profile) profileEnvelope {
	resp := toProfileResponse(p)
	return profileEnvelope{Data: &resp}
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		SizeM2:      p.SizeM2,
		SunExposure: p.SunExposure,
		SurfaceType: p.SurfaceType,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// writeJSON se repite en cada paquete de handlers (lawns/treatments/templates)
// para no crear un paquete de helpers compartidos todavía.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
