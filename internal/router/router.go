package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "menagerie/internal/adapters/storage/memory"
	pg "menagerie/internal/adapters/storage/postgres"
	lite "menagerie/internal/adapters/storage/sqlite"
	"menagerie/internal/domain/pets"
	"menagerie/internal/middleware"
	"menagerie/internal/platform/logger"

	_ "menagerie/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: conexión Postgres ya abierta. Si no viene, se elige el
	// storage por env: DB_DSN (postgres), SQLITE_DSN (sqlite) o in-memory.
	DB *sql.DB

	// Opcional: logger ya configurado; por defecto se arma desde env.
	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	petRepo, eventRepo := buildRepos(opts, log)

	svc := pets.NewService(petRepo, eventRepo, log)
	pets.RegisterRoutes(r, svc)

	r.Get("/swagger/*", httpSwagger.Handler())

	return r
}

func buildRepos(opts Options, log logger.Logger) (pets.PetRepository, pets.EventRepository) {
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err != nil {
				log.Warn("postgres unavailable, falling back", map[string]any{"err": err.Error()})
			} else {
				db = opened
			}
		}
	}
	if db != nil {
		log.Info("storage: postgres", nil)
		return pg.NewPetsRepo(db), pg.NewEventsRepo(db)
	}

	if dsn := os.Getenv("SQLITE_DSN"); dsn != "" {
		sdb, err := lite.Open(dsn)
		if err != nil {
			log.Warn("sqlite unavailable, falling back", map[string]any{"err": err.Error()})
		} else {
			log.Info("storage: sqlite", map[string]any{"dsn": dsn})
			return lite.NewPetsRepo(sdb), lite.NewEventsRepo(sdb)
		}
	}

	log.Info("storage: in-memory", nil)
	return mem.NewStore()
}
