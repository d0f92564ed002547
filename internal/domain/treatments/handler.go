package treatments

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lawn-care-scheduler/internal/domain/calendar"
	"lawn-care-scheduler/internal/domain/templates"
	"lawn-care-scheduler/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/lawn-profiles/{lawnProfileID}/treatments", func(tr chi.Router) {
		tr.Get("/", listTreatmentsHandler(svc))
	})

	r.Route("/treatments/{treatmentID}", func(tr chi.Router) {
		tr.Patch("/complete", completeTreatmentHandler(svc))
		tr.Patch("/reject", rejectTreatmentHandler(svc))
		tr.Get("/history", treatmentHistoryHandler(svc))
	})
}

type treatmentResponse struct {
	ID               string             `json:"id"`
	LawnProfileID    string             `json:"lawn_profile_id"`
	TemplateID       string             `json:"template_id"`
	ProposedDate     calendar.Date      `json:"proposed_date" swaggertype:"string" example:"2026-04-08"`
	GenerationKind   GenerationKind     `json:"generation_kind"`
	WeatherRationale *string            `json:"weather_rationale"`
	Status           Status             `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Template         *templates.Summary `json:"template,omitempty"`
}

type listResponse struct {
	Data  []treatmentResponse `json:"data"`
	Total int                 `json:"total"`
}

type treatmentEnvelope struct {
	Data treatmentResponse `json:"data"`
}

type historyResponse struct {
	ID              string         `json:"id"`
	TreatmentID     string         `json:"treatment_id"`
	LawnProfileID   string         `json:"lawn_profile_id"`
	StatusOld       Status         `json:"status_old"`
	StatusNew       Status         `json:"status_new"`
	PerformedDate   *calendar.Date `json:"performed_date" swaggertype:"string"`
	RejectionReason *string        `json:"rejection_reason"`
	CreatedAt       time.Time      `json:"created_at"`
}

type completeRequest struct {
	PerformedDate string `json:"performed_date" example:"2026-04-08"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// listTreatmentsHandler godoc
// @Summary Listar tratamientos de un césped
// @Description Lista paginada con filtros. Si una consulta de activos no devuelve nada, se generan tratamientos para los próximos 60 días y se repite la consulta una vez. `upcoming=true` fuerza status=active, ventana [hoy, hoy+10], embed=template, page=1, limit=100.
// @Tags treatments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param lawnProfileID path string true "ID del perfil"
// @Param status query string false "active|completed|rejected|expired"
// @Param template_id query string false "ID de plantilla"
// @Param from query string false "Fecha mínima proposed_date (YYYY-MM-DD)"
// @Param to query string false "Fecha máxima proposed_date (YYYY-MM-DD)"
// @Param page query int false "Página (>=1). Por defecto 1"
// @Param limit query int false "Tamaño de página (1-100). Por defecto 20"
// @Param sort query string false "proposed_date_asc (default) | proposed_date_desc"
// @Param embed query string false "template"
// @Param upcoming query bool false "Próximos tratamientos"
// @Success 200 {object} listResponse
// @Failure 400 {string} string "Parámetros inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "lawn profile not found"
// @Failure 500 {string} string "internal error"
// @Router /lawn-profiles/{lawnProfileID}/treatments [get]
func listTreatmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		lawnID := chi.URLParam(r, "lawnProfileID")

		q, err := parseListQuery(r.URL.Query(), svc)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := svc.AuthorizeLawn(r.Context(), lawnID, claims.UserID); err != nil {
			writeServiceError(w, r, err)
			return
		}

		page, err := svc.ListWithBackfill(r.Context(), lawnID, q)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]treatmentResponse, 0, len(page.Items))
		for _, t := range page.Items {
			out = append(out, toTreatmentResponse(t))
		}
		writeJSON(w, http.StatusOK, listResponse{Data: out, Total: page.Total})
	}
}

// completeTreatmentHandler godoc
// @Summary Marcar tratamiento como realizado
// @Description Solo tratamientos activos del usuario. `performed_date` es opcional (por defecto hoy) y queda en el historial.
// @Tags treatments
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param treatmentID path string true "ID del tratamiento"
// @Param payload body completeRequest false "Fecha de realización"
// @Success 200 {object} treatmentEnvelope
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "treatment not found"
// @Failure 409 {string} string "el tratamiento no está activo"
// @Router /treatments/{treatmentID}/complete [patch]
func completeTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req completeRequest
		if err := decodeOptionalBody(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.Complete(r.Context(), chi.URLParam(r, "treatmentID"), claims.UserID, req.PerformedDate)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, treatmentEnvelope{Data: toTreatmentResponse(t)})
	}
}

// rejectTreatmentHandler godoc
// @Summary Rechazar tratamiento
// @Tags treatments
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param treatmentID path string true "ID del tratamiento"
// @Param payload body rejectRequest false "Motivo"
// @Success 200 {object} treatmentEnvelope
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "treatment not found"
// @Failure 409 {string} string "el tratamiento no está activo"
// @Router /treatments/{treatmentID}/reject [patch]
func rejectTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req rejectRequest
		if err := decodeOptionalBody(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := svc.Reject(r.Context(), chi.URLParam(r, "treatmentID"), claims.UserID, req.Reason)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, treatmentEnvelope{Data: toTreatmentResponse(t)})
	}
}

// treatmentHistoryHandler godoc
// @Summary Historial de cambios de estado
// @Tags treatments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param treatmentID path string true "ID del tratamiento"
// @Success 200 {array} historyResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "treatment not found"
// @Router /treatments/{treatmentID}/history [get]
func treatmentHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		entries, err := svc.History(r.Context(), chi.URLParam(r, "treatmentID"), claims.UserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]historyResponse, 0, len(entries))
		for _, h := range entries {
			out = append(out, historyResponse{
				ID:              h.ID,
				TreatmentID:     h.TreatmentID,
				LawnProfileID:   h.LawnProfileID,
				StatusOld:       h.StatusOld,
				StatusNew:       h.StatusNew,
				PerformedDate:   h.PerformedDate,
				RejectionReason: h.RejectionReason,
				CreatedAt:       h.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func parseListQuery(v url.Values, svc *Service) (ListQuery, error) {
	if s := strings.TrimSpace(v.Get("upcoming")); s != "" {
		upcoming, err := strconv.ParseBool(s)
		if err != nil {
			return ListQuery{}, errors.New("upcoming must be a boolean")
		}
		if upcoming {
			return svc.UpcomingQuery(), nil
		}
	}

	q := ListQuery{Page: 1, Limit: DefaultLimit, Sort: SortProposedDateAsc}

	if s := strings.TrimSpace(v.Get("status")); s != "" {
		st, err := ParseStatus(s)
		if err != nil {
			return ListQuery{}, errors.New("status must be one of active, completed, rejected, expired")
		}
		q.Status = &st
	}
	q.TemplateID = strings.TrimSpace(v.Get("template_id"))

	for _, p := range []struct {
		name string
		dst  **calendar.Date
	}{{"from", &q.From}, {"to", &q.To}} {
		s := strings.TrimSpace(v.Get(p.name))
		if s == "" {
			continue
		}
		d, err := calendar.ParseDate(s)
		if err != nil {
			return ListQuery{}, fmt.Errorf("%s must be YYYY-MM-DD", p.name)
		}
		*p.dst = &d
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return ListQuery{}, errors.New("from must be on or before to")
	}

	if s := strings.TrimSpace(v.Get("page")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return ListQuery{}, errors.New("page must be an integer >= 1")
		}
		q.Page = n
	}
	if s := strings.TrimSpace(v.Get("limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxLimit {
			return ListQuery{}, fmt.Errorf("limit must be an integer between 1 and %d", MaxLimit)
		}
		q.Limit = n
	}

	sort, err := ParseSort(strings.TrimSpace(v.Get("sort")))
	if err != nil {
		return ListQuery{}, errors.New("sort must be proposed_date, proposed_date_asc or proposed_date_desc")
	}
	q.Sort = sort

	switch strings.TrimSpace(v.Get("embed")) {
	case "":
	case "template":
		q.EmbedTemplate = true
	default:
		return ListQuery{}, errors.New("embed must be template")
	}

	return q, nil
}

// decodeOptionalBody acepta body vacío (todos los campos son opcionales).
func decodeOptionalBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var se *StoreError
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrLawnNotFound):
		http.Error(w, "lawn profile not found", http.StatusNotFound)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "treatment not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &se):
		// El servicio ya lo registró con contexto.
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		middleware.LoggerFrom(r.Context()).Error("treatments request failed", map[string]any{"error": err.Error()})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toTreatmentResponse(t Treatment) treatmentResponse {
	return treatmentResponse{
		ID:               t.ID,
		LawnProfileID:    t.LawnProfileID,
		TemplateID:       t.TemplateID,
		ProposedDate:     t.ProposedDate,
		GenerationKind:   t.GenerationKind,
		WeatherRationale: t.WeatherRationale,
		Status:           t.Status,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		Template:         t.Template,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
