package templates

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"lawn-care-scheduler/internal/domain/calendar"
	"lawn-care-scheduler/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/treatment-templates", listTemplatesHandler(svc))
}

type templateResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     *string           `json:"description"`
	Kind            Kind              `json:"kind"`
	MinCooldownDays int               `json:"min_cooldown_days"`
	Periods         []calendar.Period `json:"execution_periods"`
	Priority        int               `json:"priority"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// listTemplatesHandler godoc
// @Summary Listar plantillas de tratamientos
// @Description Devuelve el catálogo de plantillas (tipo, cooldown mínimo y períodos MM-DD de ejecución). Requiere `Authorization: Bearer <token>`.
// @Tags templates
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} templateResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /treatment-templates [get]
func listTemplatesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			middleware.LoggerFrom(r.Context()).Error("list templates failed", map[string]any{"error": err.Error()})
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]templateResponse, 0, len(items))
		for _, t := range items {
			periods := t.Periods
			if periods == nil {
				periods = []calendar.Period{}
			}
			out = append(out, templateResponse{
				ID:              t.ID,
				Name:            t.Name,
				Description:     t.Description,
				Kind:            t.Kind,
				MinCooldownDays: t.MinCooldownDays,
				Periods:         periods,
				Priority:        t.Priority,
				CreatedAt:       t.CreatedAt,
				UpdatedAt:       t.UpdatedAt,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
