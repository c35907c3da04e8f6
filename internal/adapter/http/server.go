package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dixmont/taxmap/internal/parcels"
)

// ParcelSource provides the parcel collection and its provenance.
type ParcelSource interface {
	Resolve(ctx context.Context) *geojson.FeatureCollection
	Refresh(ctx context.Context) *geojson.FeatureCollection
	Info() parcels.SourceInfo
}

// Server exposes the parcel API, health, and metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	source     ParcelSource
	logger     *slog.Logger
}

// NewServer creates the API server. All routes are GETs; responses are JSON.
func NewServer(addr string, source ParcelSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      withCORS(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source: source,
		logger: logger,
	}

	mux.HandleFunc("GET /api/parcels", s.handleParcels)
	mux.HandleFunc("GET /api/parcel/{id}", s.handleParcel)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/data-source", s.handleDataSource)
	mux.HandleFunc("GET /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleParcels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.source.Resolve(r.Context()))
}

func (s *Server) handleParcel(w http.ResponseWriter, r *http.Request) {
	fc := s.source.Resolve(r.Context())
	feature := parcels.FindByID(fc, r.PathValue("id"))
	if feature == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Parcel not found"})
		return
	}
	writeJSON(w, http.StatusOK, feature)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	fc := s.source.Resolve(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"results": parcels.Search(fc, query),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	fc := s.source.Resolve(r.Context())

	sampleProperties := []string{}
	if len(fc.Features) > 0 {
		for key := range fc.Features[0].Properties {
			sampleProperties = append(sampleProperties, key)
		}
		sort.Strings(sampleProperties)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_parcels":     len(fc.Features),
		"has_data":          len(fc.Features) > 0,
		"sample_properties": sampleProperties,
		"data_source":       s.source.Info(),
	})
}

func (s *Server) handleDataSource(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.source.Info())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	fc := s.source.Refresh(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"data_source":  s.source.Info(),
		"parcel_count": len(fc.Features),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "healthy",
		"data_source": string(s.source.Info().Source),
	})
}

// withCORS allows the map front end to call the API from another origin.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
