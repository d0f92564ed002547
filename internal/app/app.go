// Package app arma repositorios, servicios y verificador a partir de la configuración.
// Lo comparten cmd/api y cmd/lawnctl.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lawn-care-scheduler/internal/adapters/auth/gotrue"
	"lawn-care-scheduler/internal/adapters/auth/jwtverifier"
	mem "lawn-care-scheduler/internal/adapters/storage/memory"
	pg "lawn-care-scheduler/internal/adapters/storage/postgres"
	"lawn-care-scheduler/internal/adapters/storage/sqldb"
	"lawn-care-scheduler/internal/adapters/storage/sqlite"
	"lawn-care-scheduler/internal/config"
	"lawn-care-scheduler/internal/domain/lawns"
	"lawn-care-scheduler/internal/domain/templates"
	"lawn-care-scheduler/internal/domain/treatments"
	"lawn-care-scheduler/internal/platform/logger"
	"lawn-care-scheduler/internal/ports/auth"
)

type Stores struct {
	Lawns      lawns.Repository
	Templates  templates.Repository
	Treatments treatments.Repository

	// nil en modo memoria
	DB *sql.DB
}

func (s Stores) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func MemoryStores() Stores {
	tpls := mem.NewTemplateRepo()
	return Stores{
		Lawns:      mem.NewLawnRepo(),
		Templates:  tpls,
		Treatments: mem.NewTreatmentRepo(tpls),
	}
}

func SQLStores(db *sql.DB, d sqldb.Dialect) Stores {
	return Stores{
		Lawns:      sqldb.NewLawnsRepo(db, d),
		Templates:  sqldb.NewTemplatesRepo(db, d),
		Treatments: sqldb.NewTreatmentsRepo(db, d),
		DB:         db,
	}
}

// OpenStores abre el almacenamiento según db.driver. Si migrate es true,
// postgres aplica las migraciones (sqlite siempre las aplica al abrir).
func OpenStores(cfg config.DBConfig, migrate bool) (Stores, error) {
	switch cfg.Driver {
	case "", config.DriverMemory:
		return MemoryStores(), nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.DSN)
		if err != nil {
			return Stores{}, err
		}
		return SQLStores(db, sqlite.Dialect()), nil

	case config.DriverPostgres:
		db, err := pg.Open(cfg.DSN)
		if err != nil {
			return Stores{}, fmt.Errorf("open postgres: %w", err)
		}
		if migrate {
			if err := pg.Migrate(db); err != nil {
				_ = db.Close()
				return Stores{}, err
			}
		}
		return SQLStores(db, pg.Dialect()), nil
	}
	return Stores{}, fmt.Errorf("unknown db driver %q", cfg.Driver)
}

type Services struct {
	Lawns      *lawns.Service
	Templates  *templates.Service
	Treatments *treatments.Service
}

func NewServices(st Stores, sched config.ScheduleConfig, log logger.Logger) Services {
	if log == nil {
		log = logger.Discard()
	}
	lawnSvc := lawns.NewService(st.Lawns)
	return Services{
		Lawns:     lawnSvc,
		Templates: templates.NewService(st.Templates),
		Treatments: treatments.NewService(
			st.Treatments,
			st.Templates,
			LawnOwners(lawnSvc),
			treatments.WithLogger(log.With(map[string]any{"component": "treatments"})),
			treatments.WithUpcomingDays(sched.UpcomingDays),
			treatments.WithBackfillDays(sched.BackfillDays),
		),
	}
}

// LawnOwners adapta lawns.Service al puerto que usa treatments.
func LawnOwners(svc *lawns.Service) treatments.LawnOwnerLookup {
	return lawnOwners{svc: svc}
}

type lawnOwners struct {
	svc *lawns.Service
}

func (o lawnOwners) OwnerOf(ctx context.Context, lawnID string) (string, error) {
	userID, err := o.svc.OwnerOf(ctx, lawnID)
	if errors.Is(err, lawns.ErrNotFound) {
		return "", treatments.ErrLawnNotFound
	}
	return userID, err
}

// NewVerifier elige el verificador de identidad. Sin configuración devuelve
// nil: ningún request tendrá claims y los endpoints protegidos responden 401.
func NewVerifier(cfg config.AuthConfig) (auth.AuthVerifier, error) {
	switch {
	case cfg.JWTSecret != "":
		v, err := jwtverifier.New(jwtverifier.Config{
			Secret:   cfg.JWTSecret,
			Audience: cfg.Audience,
		})
		if err != nil {
			return nil, err
		}
		return v, nil
	case cfg.GoTrueURL != "":
		client, err := gotrue.NewClient(gotrue.Config{
			BaseURL: cfg.GoTrueURL,
			APIKey:  cfg.GoTrueAPIKey,
		})
		if err != nil {
			return nil, err
		}
		return gotrue.NewVerifier(client), nil
	}
	return nil, nil
}

// ImportCatalog carga el YAML de plantillas, si hay uno configurado.
func ImportCatalog(ctx context.Context, svc *templates.Service, path string) (templates.ImportResult, error) {
	if path == "" {
		return templates.ImportResult{}, nil
	}
	items, err := templates.LoadCatalogFile(path)
	if err != nil {
		return templates.ImportResult{}, err
	}
	return svc.Import(ctx, items)
}
