package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alertdash/alertdash/internal/engine"
)

func TestRespondEngineError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation error",
			err:        &engine.ValidationError{Field: "severity", Message: "unknown severity"},
			wantStatus: 400,
			wantCode:   "validation_error",
		},
		{
			name:       "not found",
			err:        &engine.NotFoundError{Kind: "alert", ID: "abc"},
			wantStatus: 404,
			wantCode:   "not_found",
		},
		{
			name:       "state conflict",
			err:        &engine.StateConflictError{ID: "abc", Current: engine.StatusDismissed, Action: engine.ActionResolve},
			wantStatus: 409,
			wantCode:   "state_conflict",
		},
		{
			name:       "unknown error",
			err:        json.Unmarshal([]byte("{"), &struct{}{}),
			wantStatus: 500,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondEngineError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("Expected code %q, got %q", tt.wantCode, body.Code)
			}
		})
	}
}

func TestIngestResultDetail(t *testing.T) {
	res := &engine.IngestResult{
		Outcome:     engine.OutcomeNew,
		Fingerprint: "fp-1",
		AlertID:     "id-1",
		IncidentID:  "inc-1",
	}
	detail := IngestResultDetail(res)
	if detail.Outcome != "new" || detail.Fingerprint != "fp-1" || detail.AlertID != "id-1" || detail.IncidentID != "inc-1" {
		t.Errorf("Unexpected detail: %+v", detail)
	}
}
