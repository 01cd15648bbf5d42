package server

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-terminal/internal/catalog"
	"github.com/fekuna/omnipos-terminal/internal/connectivity"
	"github.com/fekuna/omnipos-terminal/internal/queue"
	"github.com/fekuna/omnipos-terminal/internal/sale"
	syncengine "github.com/fekuna/omnipos-terminal/internal/sync"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the terminal's local HTTP surface, consumed by the register UI.
type Server struct {
	sales     sale.UseCase
	catalog   catalog.UseCase
	queue     queue.Repository
	sync      *syncengine.Engine
	monitor   *connectivity.Monitor
	accountID int64
	logger    logger.ZapLogger
}

func New(sales sale.UseCase, cat catalog.UseCase, q queue.Repository, eng *syncengine.Engine, monitor *connectivity.Monitor, accountID int64, log logger.ZapLogger) *Server {
	return &Server{
		sales:     sales,
		catalog:   cat,
		queue:     q,
		sync:      eng,
		monitor:   monitor,
		accountID: accountID,
		logger:    log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sales", s.handleSubmitSale)
		r.Get("/sales/pending", s.handlePendingSales)
		r.Get("/products", s.handleProducts)
		r.Post("/sync", s.handleTriggerSync)
	})

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
