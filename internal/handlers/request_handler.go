package handlers

import (
	"encoding/json"
	"net/http"

	"parish-backend/internal/middleware"
	"parish-backend/internal/models"
	"parish-backend/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type RequestHandler struct {
	Service      *services.RequestService
	Certificates *services.CertificateService
	log          zerolog.Logger
}

func NewRequestHandler(s *services.RequestService, c *services.CertificateService, log zerolog.Logger) *RequestHandler {
	return &RequestHandler{
		Service:      s,
		Certificates: c,
		log:          log,
	}
}

// Submit is the public intake endpoint. Auto-rejected submissions are still
// created, so the response is 201 either way.
func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in models.SubmitRequestInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.Service.Submit(r.Context(), &in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(emptyIfNil(requests))
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(req)
}

func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in models.UpdateStatusInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req, err := h.Service.UpdateStatus(r.Context(), mux.Vars(r)["id"], &in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(req)
}

func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Issue records a certificate against a request. The signed-in admin is the
// issuer unless the body names someone else.
func (h *RequestHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var in models.IssueCertificateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if in.IssuedBy == "" {
		in.IssuedBy, _ = middleware.GetUsernameFromContext(r.Context())
	}

	cert, err := h.Certificates.Issue(r.Context(), mux.Vars(r)["id"], &in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(cert)
}
