package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"parish-backend/internal/middleware"
	"parish-backend/internal/models"
	"parish-backend/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// multipart headers and boundaries on top of the file itself
const uploadOverhead = 1 << 20

type CertificateHandler struct {
	Service         *services.CertificateService
	RegistryService *services.RegistryService
	log             zerolog.Logger
}

func NewCertificateHandler(s *services.CertificateService, registry *services.RegistryService, log zerolog.Logger) *CertificateHandler {
	return &CertificateHandler{
		Service:         s,
		RegistryService: registry,
		log:             log,
	}
}

func (h *CertificateHandler) List(w http.ResponseWriter, r *http.Request) {
	certs, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(emptyIfNil(certs))
}

// Registry returns issued certificates grouped per person and sacrament.
func (h *CertificateHandler) Registry(w http.ResponseWriter, r *http.Request) {
	groups, err := h.RegistryService.Groups(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(emptyIfNil(groups))
}

func (h *CertificateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	cert, err := h.Service.Generate(r.Context(), mux.Vars(r)["id"], callerName(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cert)
}

// Upload accepts a multipart form with the PDF or image in the "file" field.
func (h *CertificateHandler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := h.Service.Options.UploadLimit
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+uploadOverhead)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("File is larger than %d MB.", limit>>20), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	cert, err := h.Service.Upload(r.Context(), mux.Vars(r)["id"], &models.UploadCertificateInput{
		FileName:   header.Filename,
		MimeType:   header.Header.Get("Content-Type"),
		Data:       data,
		UploadedBy: callerName(r),
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cert)
}

func (h *CertificateHandler) Download(w http.ResponseWriter, r *http.Request) {
	file, err := h.Service.Download(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", "inline; filename="+strconv.Quote(file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

// callerName prefers the admin's display name over the login name.
func callerName(r *http.Request) string {
	if name, ok := middleware.GetNameFromContext(r.Context()); ok && name != "" {
		return name
	}
	username, _ := middleware.GetUsernameFromContext(r.Context())
	return username
}
