package http

import (
	"net/http"

	"parish-backend/internal/handlers"
	"parish-backend/internal/metrics"
	"parish-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	requestHandler *handlers.RequestHandler,
	recordHandler *handlers.RecordHandler,
	certificateHandler *handlers.CertificateHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	m *metrics.Metrics,
	metricsHandler http.Handler,
	log zerolog.Logger,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Observe(m, log))
	r.Use(middleware.PanicRecovery(log))

	// Public API routes
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/requests", requestHandler.Submit).Methods("POST")

	// Protected API routes - Service Requests
	requestsAPI := r.PathPrefix("/api/requests").Subrouter()
	requestsAPI.Use(authMiddleware.Authenticate)
	requestsAPI.HandleFunc("", requestHandler.List).Methods("GET")
	requestsAPI.HandleFunc("/{id}", requestHandler.Get).Methods("GET")
	requestsAPI.HandleFunc("/{id}", requestHandler.Delete).Methods("DELETE")
	requestsAPI.HandleFunc("/{id}/status", requestHandler.UpdateStatus).Methods("PUT")
	requestsAPI.HandleFunc("/{id}/issue", requestHandler.Issue).Methods("POST")

	// Protected API routes - Sacrament Records
	recordsAPI := r.PathPrefix("/api/records").Subrouter()
	recordsAPI.Use(authMiddleware.Authenticate)
	recordsAPI.HandleFunc("", recordHandler.List).Methods("GET")
	recordsAPI.HandleFunc("", recordHandler.Create).Methods("POST")
	recordsAPI.HandleFunc("/{id}", recordHandler.Get).Methods("GET")
	recordsAPI.HandleFunc("/{id}", recordHandler.Update).Methods("PUT")
	recordsAPI.HandleFunc("/{id}/archive", recordHandler.Archive).Methods("POST")
	recordsAPI.HandleFunc("/{id}/unarchive", recordHandler.Unarchive).Methods("POST")

	// Protected API routes - Issued Certificates
	certificatesAPI := r.PathPrefix("/api/certificates").Subrouter()
	certificatesAPI.Use(authMiddleware.Authenticate)
	certificatesAPI.HandleFunc("", certificateHandler.List).Methods("GET")
	certificatesAPI.HandleFunc("/registry", certificateHandler.Registry).Methods("GET")
	certificatesAPI.HandleFunc("/{id}/generate", certificateHandler.Generate).Methods("POST")
	certificatesAPI.HandleFunc("/{id}/upload", certificateHandler.Upload).Methods("POST")
	certificatesAPI.HandleFunc("/{id}/file", certificateHandler.Download).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", metricsHandler)

	return r
}
