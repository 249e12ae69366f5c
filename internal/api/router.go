package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/sprout/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the collaborators mounted by NewRouter.
type RouterConfig struct {
	Garden  GardenService
	Journal JournalService
	Catalog SpeciesCatalog
	Tips    TipService
	Logger  *slog.Logger

	// Registry receives the HTTP collectors; Gatherer backs /metrics. Both
	// may be nil, which disables request metrics and the metrics endpoint.
	Registry prometheus.Registerer
	Gatherer prometheus.Gatherer
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.TraceMiddleware(log))

	if cfg.Registry != nil {
		metrics, err := middleware.NewHTTPMetrics(cfg.Registry)
		if err != nil {
			return nil, err
		}
		r.Use(metrics.Handler)
	}

	plants := NewPlantHandler(cfg.Garden, log)
	journal := NewJournalHandler(cfg.Journal)
	species := NewSpeciesHandler(cfg.Catalog, cfg.Tips)

	r.Route("/api", func(r chi.Router) {
		r.Get("/species", species.ListSpecies)
		r.Get("/species/{name}/tips", species.GetTips)

		r.Route("/plants", func(r chi.Router) {
			r.Get("/", plants.ListPlants)
			r.Post("/", plants.CreatePlant)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", plants.GetPlant)
				r.Delete("/", plants.DeletePlant)
				r.Post("/germination", plants.ConfirmGermination)
				r.Get("/status", plants.PlantStatus)
				r.Get("/journal", journal.GetJournal)
				r.Post("/journal", journal.AppendEntry)
			})
		})

		r.Put("/garden/region", plants.SetRegion)
		r.Post("/garden/relayout", plants.Relayout)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write health check response", "error", err)
		}
	})

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	return r, nil
}
