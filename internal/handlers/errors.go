package handlers

import (
	"errors"
	"net/http"

	"parish-backend/internal/apperr"
	"parish-backend/pkg/utils"

	"github.com/rs/zerolog"
)

// writeError maps a service error to a status code and the text an admin or
// requester can act on. Unexpected errors are logged and hidden.
func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var validation *apperr.ValidationError
	var noRecord *apperr.NoRecordLinkedError

	switch {
	case errors.As(err, &validation):
		utils.JSON(w, http.StatusBadRequest, map[string]string{
			"error": validation.Message,
			"field": validation.Field,
		})
	case errors.Is(err, apperr.ErrInvalidCredentials):
		utils.Error(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrFileNotAvailable):
		utils.Error(w, http.StatusNotFound, apperr.Guidance(err))
	case errors.Is(err, apperr.ErrInvalidTransition):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperr.ErrRecordAlreadyLinked):
		utils.Error(w, http.StatusConflict, "A sacrament record is already linked to this request.")
	case errors.Is(err, apperr.ErrAlreadyIssued), errors.Is(err, apperr.ErrTerminalState):
		utils.Error(w, http.StatusConflict, apperr.Guidance(err))
	case errors.As(err, &noRecord), errors.Is(err, apperr.ErrNoMatchingRecord), errors.Is(err, apperr.ErrNoGenerator):
		utils.Error(w, http.StatusUnprocessableEntity, apperr.Guidance(err))
	default:
		log.Error().Err(err).Msg("Request failed")
		utils.Error(w, http.StatusInternalServerError, apperr.Guidance(err))
	}
}

// emptyIfNil keeps JSON lists as [] instead of null.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
