package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/alertdash/alertdash/internal/api"
	"github.com/alertdash/alertdash/internal/database"
	"github.com/alertdash/alertdash/internal/engine"
)

// APIHandler handles API endpoints for the dashboard UI
type APIHandler struct {
	engine *engine.Engine
	db     *gorm.DB
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(eng *engine.Engine, db *gorm.DB) *APIHandler {
	return &APIHandler{
		engine: eng,
		db:     db,
	}
}

// SetupRoutes sets up all API routes
func (h *APIHandler) SetupRoutes(mux *http.ServeMux) {
	// Alert views
	mux.HandleFunc("GET /api/alerts", h.handleListAlerts)
	mux.HandleFunc("POST /api/alerts", h.handleQueryAlerts)
	mux.HandleFunc("GET /api/alerts/{id}", h.handleGetAlert)
	mux.HandleFunc("POST /api/alerts/bulk", h.handleBulkAction)
	mux.HandleFunc("POST /api/alerts/{id}/enrich", h.handleEnrichAlert)
	mux.HandleFunc("POST /api/alerts/{id}/correlate", h.handleCorrelateAlert)

	// Grouped incident view
	mux.HandleFunc("GET /api/incidents", h.handleListIncidents)
	mux.HandleFunc("GET /api/incidents/{id}", h.handleGetIncident)

	// Aggregates and export
	mux.HandleFunc("GET /api/stats", h.handleStats)
	mux.HandleFunc("GET /api/export", h.handleExport)

	// Filter presets
	mux.HandleFunc("GET /api/presets", h.handleListPresets)
	mux.HandleFunc("POST /api/presets", h.handleCreatePreset)
	mux.HandleFunc("GET /api/presets/{id}", h.handleGetPreset)
	mux.HandleFunc("PUT /api/presets/{id}", h.handleUpdatePreset)
	mux.HandleFunc("DELETE /api/presets/{id}", h.handleDeletePreset)

	// Engine settings
	mux.HandleFunc("GET /api/settings", h.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", h.handleUpdateSettings)
}

// handleListAlerts handles GET /api/alerts with query-string filters
func (h *APIHandler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	filter := api.ParseFilter(r)
	opts := api.ParseQueryOptions(r)

	page, err := h.engine.QueryAlerts(filter, opts)
	if err != nil {
		api.RespondEngineError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, page)
}

// handleQueryAlerts handles POST /api/alerts for filters too rich for the
// query string (tag sets, saved preset bodies)
func (h *APIHandler) handleQueryAlerts(w http.ResponseWriter, r *http.Request) {
	var req api.QueryRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.engine.QueryAlerts(req.Filter, req.Options)
	if err != nil {
		api.RespondEngineError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, page)
}

// handleGetAlert handles GET /api/alerts/{id}
func (h *APIHandler) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	rec, err := h.engine.GetAlert(r.PathValue("id"))
	if err != nil {
		api.RespondEngineError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, rec)
}

// handleBulkAction handles POST /api/alerts/bulk
func (h *APIHandler) handleBulkAction(w http.ResponseWriter, r *http.Request) {
	var req api.BulkActionRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	result, err := h.engine.BulkAction(req.AlertIDs, engine.Action(req.Action), req.Reason)
	if err != nil {
		api.RespondEngineError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, result)
}

// handleEnrichAlert handles POST /api/alerts/{id}/enrich
func (h *APIHandler) handleEnrichAlert(w http.ResponseWriter, r *http.Request) {
	var req api.EnrichRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	if err := h.engine.Enrich(r.PathValue("id"), req.Key, req.Value, req.Source); err != nil {
		api.RespondEngineError(w, err)
		return
	}
	api.RespondNoContent(w)
}

// handleCorrelateAlert handles POST /api/alerts/{id}/correlate
func (h *APIHandler) handleCorrelateAlert(w http.ResponseWriter, r *http.Request) {
	var req api.CorrelateRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	if err := h.engine.Correlate(r.PathValue("id"), req.RelatedAlertID, req.Type, req.Confidence); err != nil {
		api.RespondEngineError(w, err)
		return
	}
	api.RespondNoContent(w)
}

// handleListIncidents handles GET /api/incidents
func (h *APIHandler) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	filter := api.ParseFilter(r)
	opts := api.ParseQueryOptions(r)

	page, err := h.engine.QueryIncidents(filter, opts)
	if err != nil {
		api.RespondEngineError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, page)
}

// handleGetIncident handles GET /api/incidents/{id}
func (h *APIHandler) handleGetIncident(w http.ResponseWriter, r *http.Request) {
	group, err := h.engine.GetIncident(r.PathValue("id"))
	if err != nil {
		api.RespondEngineError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, group)
}

// handleStats handles GET /api/stats
func (h *APIHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	api.RespondJSON(w, http.StatusOK, h.engine.StatsSnapshot())
}

// handleExport handles GET /api/export
func (h *APIHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := engine.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		api.RespondEngineError(w, err)
		return
	}

	result, err := h.engine.Export(api.ParseFilter(r), format)
	if err != nil {
		api.RespondEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Content); err != nil {
		log.Printf("Failed to write export response: %v", err)
	}
}

// handleListPresets handles GET /api/presets
func (h *APIHandler) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := database.ListFilterPresets(h.db)
	if err != nil {
		api.RespondError(w, http.StatusInternalServerError, "failed to list presets")
		return
	}
	api.RespondJSON(w, http.StatusOK, presets)
}

// handleCreatePreset handles POST /api/presets
func (h *APIHandler) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var req api.CreatePresetRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}
	if err := req.Filter.Validate(); err != nil {
		api.RespondEngineError(w, err)
		return
	}
	if err := req.Options.Validate(); err != nil {
		api.RespondEngineError(w, err)
		return
	}

	preset := &database.FilterPreset{
		Name:        req.Name,
		Description: req.Description,
		Filter:      database.FilterColumn(req.Filter),
		Options:     database.OptionsColumn(req.Options),
	}
	if err := database.CreateFilterPreset(h.db, preset); err != nil {
		api.RespondErrorWithCode(w, http.StatusConflict, "preset_exists", "a preset with that name already exists")
		return
	}
	api.RespondJSON(w, http.StatusCreated, preset)
}

// handleGetPreset handles GET /api/presets/{id}
func (h *APIHandler) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	preset, err := database.GetFilterPreset(h.db, r.PathValue("id"))
	if err != nil {
		h.respondPresetError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, preset)
}

// handleUpdatePreset handles PUT /api/presets/{id}
func (h *APIHandler) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	preset, err := database.GetFilterPreset(h.db, r.PathValue("id"))
	if err != nil {
		h.respondPresetError(w, err)
		return
	}

	var req api.UpdatePresetRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	if req.Name != nil {
		preset.Name = *req.Name
	}
	if req.Description != nil {
		preset.Description = *req.Description
	}
	if req.Filter != nil {
		if err := req.Filter.Validate(); err != nil {
			api.RespondEngineError(w, err)
			return
		}
		preset.Filter = database.FilterColumn(*req.Filter)
	}
	if req.Options != nil {
		if err := req.Options.Validate(); err != nil {
			api.RespondEngineError(w, err)
			return
		}
		preset.Options = database.OptionsColumn(*req.Options)
	}

	if err := database.UpdateFilterPreset(h.db, preset); err != nil {
		api.RespondError(w, http.StatusInternalServerError, "failed to update preset")
		return
	}
	api.RespondJSON(w, http.StatusOK, preset)
}

// handleDeletePreset handles DELETE /api/presets/{id}
func (h *APIHandler) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := database.DeleteFilterPreset(h.db, r.PathValue("id")); err != nil {
		h.respondPresetError(w, err)
		return
	}
	api.RespondNoContent(w)
}

func (h *APIHandler) respondPresetError(w http.ResponseWriter, err error) {
	if err == database.ErrPresetNotFound {
		api.RespondErrorWithCode(w, http.StatusNotFound, "not_found", "filter preset not found")
		return
	}
	api.RespondError(w, http.StatusInternalServerError, "preset lookup failed")
}

// handleGetSettings handles GET /api/settings
func (h *APIHandler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := database.GetOrCreateEngineSettings(h.db)
	if err != nil {
		api.RespondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	api.RespondJSON(w, http.StatusOK, api.SettingsResponse{
		SuppressionWindowSeconds: settings.SuppressionWindowSeconds,
		ActiveWindowMinutes:      settings.ActiveWindowMinutes,
	})
}

// handleUpdateSettings handles PUT /api/settings. Changes are persisted and
// applied to the running engine immediately.
func (h *APIHandler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateSettingsRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	settings, err := database.GetOrCreateEngineSettings(h.db)
	if err != nil {
		api.RespondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	if req.SuppressionWindowSeconds != nil {
		settings.SuppressionWindowSeconds = *req.SuppressionWindowSeconds
	}
	if req.ActiveWindowMinutes != nil {
		settings.ActiveWindowMinutes = *req.ActiveWindowMinutes
	}

	if err := database.UpdateEngineSettings(h.db, settings); err != nil {
		api.RespondError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	h.engine.SetWindows(
		time.Duration(settings.SuppressionWindowSeconds)*time.Second,
		time.Duration(settings.ActiveWindowMinutes)*time.Minute,
	)
	log.Printf("Engine windows updated: suppression=%ds active=%dm",
		settings.SuppressionWindowSeconds, settings.ActiveWindowMinutes)

	api.RespondJSON(w, http.StatusOK, api.SettingsResponse{
		SuppressionWindowSeconds: settings.SuppressionWindowSeconds,
		ActiveWindowMinutes:      settings.ActiveWindowMinutes,
	})
}
