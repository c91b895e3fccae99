package api

import (
	"errors"
	"net/http"

	"github.com/alertdash/alertdash/internal/engine"
)

// RespondEngineError maps typed engine errors onto HTTP status codes and the
// standard error envelope. Unknown error types become 500s.
func RespondEngineError(w http.ResponseWriter, err error) {
	var validationErr *engine.ValidationError
	var notFoundErr *engine.NotFoundError
	var conflictErr *engine.StateConflictError

	switch {
	case errors.As(err, &validationErr):
		RespondErrorWithCode(w, http.StatusBadRequest, "validation_error", validationErr.Error())
	case errors.As(err, &notFoundErr):
		RespondErrorWithCode(w, http.StatusNotFound, "not_found", notFoundErr.Error())
	case errors.As(err, &conflictErr):
		RespondErrorWithCode(w, http.StatusConflict, "state_conflict", conflictErr.Error())
	default:
		RespondErrorWithCode(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// IngestResultDetail converts an engine ingest result to its wire form.
func IngestResultDetail(res *engine.IngestResult) WebhookResultDetail {
	return WebhookResultDetail{
		Outcome:     string(res.Outcome),
		Fingerprint: res.Fingerprint,
		AlertID:     res.AlertID,
		IncidentID:  res.IncidentID,
	}
}
