package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/user/kgharvest/internal/graph"
	"github.com/user/kgharvest/internal/monitoring"
)

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RelationshipLister exposes the graph audit listing.
type RelationshipLister interface {
	ListRelationships(ctx context.Context) ([]graph.Triple, error)
}

// Server holds the dependencies for the admin HTTP server.
type Server struct {
	router     http.Handler
	httpServer *http.Server
	graph      RelationshipLister
	checks     map[string]Pinger
	metrics    *monitoring.Metrics
	gatherer   prometheus.Gatherer
	logger     *zap.Logger
}

// NewServer wires the admin routes. checks maps a dependency name to its probe;
// m may be nil to skip request metrics.
func NewServer(port string, g RelationshipLister, checks map[string]Pinger, m *monitoring.Metrics, gatherer prometheus.Gatherer, l *zap.Logger) *Server {
	s := &Server{
		graph:    g,
		checks:   checks,
		metrics:  m,
		gatherer: gatherer,
		logger:   l,
	}
	s.router = s.setupRouter()
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
