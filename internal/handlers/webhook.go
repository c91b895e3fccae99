package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/alertdash/alertdash/internal/alerts"
	"github.com/alertdash/alertdash/internal/api"
	"github.com/alertdash/alertdash/internal/engine"
)

// maxWebhookBody caps webhook payloads at 1 MB
const maxWebhookBody = 1 << 20

// WebhookHandler processes incoming alert webhooks from monitoring sources
type WebhookHandler struct {
	engine   *engine.Engine
	registry *alerts.Registry
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(eng *engine.Engine, registry *alerts.Registry) *WebhookHandler {
	return &WebhookHandler{
		engine:   eng,
		registry: registry,
	}
}

// SetupRoutes configures webhook routes
func (h *WebhookHandler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhook/alert/{source}", h.HandleWebhook)
}

// HandleWebhook processes one webhook delivery. Each alert in the payload is
// ingested independently; a delivery where every alert fails validation is a
// 400, partial failures still return 200 with per-alert results.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	sourceType := r.PathValue("source")

	adapter, err := h.registry.Get(sourceType)
	if err != nil {
		api.RespondErrorWithCode(w, http.StatusNotFound, "unknown_source", err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	events, err := adapter.ParsePayload(body)
	if err != nil {
		log.Printf("Webhook parse failed for source %s: %v", sourceType, err)
		api.RespondErrorWithCode(w, http.StatusBadRequest, "parse_error", err.Error())
		return
	}
	if len(events) == 0 {
		api.RespondErrorWithCode(w, http.StatusBadRequest, "empty_payload", "payload contained no alerts")
		return
	}

	resp := api.WebhookResponse{Results: make([]api.WebhookResultDetail, 0, len(events))}
	for _, ev := range events {
		res, err := h.engine.Ingest(ev)
		if err != nil {
			resp.Rejected++
			resp.Results = append(resp.Results, api.WebhookResultDetail{Error: err.Error()})
			continue
		}
		resp.Accepted++
		resp.Results = append(resp.Results, api.IngestResultDetail(res))
	}

	status := http.StatusOK
	if resp.Accepted == 0 {
		status = http.StatusBadRequest
	}
	api.RespondJSON(w, status, resp)
}
