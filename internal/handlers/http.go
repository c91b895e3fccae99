// Package handlers wires the HTTP surface of the alert dashboard.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// HTTPHandler handles HTTP endpoints
type HTTPHandler struct {
	apiHandler     *APIHandler
	webhookHandler *WebhookHandler
	streamHandler  *StreamHandler
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(apiHandler *APIHandler, webhookHandler *WebhookHandler, streamHandler *StreamHandler) *HTTPHandler {
	return &HTTPHandler{
		apiHandler:     apiHandler,
		webhookHandler: webhookHandler,
		streamHandler:  streamHandler,
	}
}

// SetupRoutes configures all HTTP routes
func (h *HTTPHandler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handleHealth)
	if h.apiHandler != nil {
		h.apiHandler.SetupRoutes(mux)
	}
	if h.webhookHandler != nil {
		h.webhookHandler.SetupRoutes(mux)
	}
	if h.streamHandler != nil {
		h.streamHandler.SetupRoutes(mux)
	}
}

// handleHealth returns a simple health check response
func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]string{
		"status":  "ok",
		"version": "1.0.0",
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding health response: %v", err)
	}
}
