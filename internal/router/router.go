package router

import (
	"net/http"

	_ "lawn-care-scheduler/docs"
	"lawn-care-scheduler/internal/app"
	"lawn-care-scheduler/internal/config"
	"lawn-care-scheduler/internal/domain/lawns"
	"lawn-care-scheduler/internal/domain/templates"
	"lawn-care-scheduler/internal/domain/treatments"
	"lawn-care-scheduler/internal/middleware"
	"lawn-care-scheduler/internal/platform/logger"
	"lawn-care-scheduler/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // nil => ningún request autentica
	Logger       logger.Logger

	// Opcional: si no viene, servicios sobre repos in-memory.
	Services *app.Services
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	svcs := opts.Services
	if svcs == nil {
		s := app.NewServices(app.MemoryStores(), config.ScheduleConfig{
			UpcomingDays: treatments.DefaultUpcomingDays,
			BackfillDays: treatments.DefaultBackfillDays,
		}, log)
		svcs = &s
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	lawns.RegisterRoutes(r, svcs.Lawns)
	templates.RegisterRoutes(r, svcs.Templates)
	treatments.RegisterRoutes(r, svcs.Treatments)

	return r
}
