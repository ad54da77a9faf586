package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"parish-backend/internal/middleware"
	"parish-backend/internal/models"
	"parish-backend/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type RecordHandler struct {
	Service *services.RecordService
	log     zerolog.Logger
}

func NewRecordHandler(s *services.RecordService, log zerolog.Logger) *RecordHandler {
	return &RecordHandler{
		Service: s,
		log:     log,
	}
}

// List supports ?type=BAPTISM and ?include_archived=true
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	includeArchived, _ := strconv.ParseBool(q.Get("include_archived"))

	records, err := h.Service.List(r.Context(), models.SacramentType(q.Get("type")), includeArchived)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(emptyIfNil(records))
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d models.RecordDetails
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.Service.Create(r.Context(), &d)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(record)
}

func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	var d models.RecordDetails
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.Service.Update(r.Context(), mux.Vars(r)["id"], &d)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// Archive takes an optional {"reason": "..."} body.
func (h *RecordHandler) Archive(w http.ResponseWriter, r *http.Request) {
	var body models.ArchiveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	caller, _ := middleware.GetUsernameFromContext(r.Context())
	record, err := h.Service.Archive(r.Context(), mux.Vars(r)["id"], caller, body.Reason)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

func (h *RecordHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.Unarchive(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}
