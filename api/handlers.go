package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"guildconsole/application"
	"guildconsole/domain/entities"
)

// Console is the settings console as used by the handlers
type Console interface {
	GuildIDs() []string
	Record(guildID string) (entities.GuildSettingsRecord, bool)
	Statuses(guildID string) map[entities.SectionName]application.SectionStatus
	ExternalID(guildID string) (int64, error)
	SyncGuilds(guildIDs []string)
	EnsureHydrated(ctx context.Context, guildID string) error
	UpdateSection(ctx context.Context, guildID string, section entities.SectionName, patch entities.Patch) error
	ResetSection(ctx context.Context, guildID string, section entities.SectionName) error
	Save(ctx context.Context, guildID string, section entities.SectionName) error
}

// Handler serves the console API
type Handler struct {
	console Console
}

// NewHandler creates a new handler
func NewHandler(console Console) *Handler {
	return &Handler{console: console}
}

// Health reports that the service is up
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthDTO{Status: "ok", Guilds: len(h.console.GuildIDs())})
}

// ListGuilds returns every known guild with its section statuses
func (h *Handler) ListGuilds(w http.ResponseWriter, r *http.Request) {
	guildIDs := h.console.GuildIDs()

	dtos := make([]GuildSummaryDTO, 0, len(guildIDs))
	for _, guildID := range guildIDs {
		externalID, _ := h.console.ExternalID(guildID)
		dtos = append(dtos, GuildSummaryDTO{
			GuildID:    guildID,
			ExternalID: externalID,
			Statuses:   h.console.Statuses(guildID),
		})
	}

	writeJSON(w, http.StatusOK, dtos)
}

// TrackGuild brings a guild into scope and hydrates it. Used when no Discord
// session lists guilds for the console.
func (h *Handler) TrackGuild(w http.ResponseWriter, r *http.Request) {
	guildID := strings.TrimSpace(chi.URLParam(r, "guildID"))
	if guildID == "" {
		writeError(w, http.StatusBadRequest, "Guild id is required", nil)
		return
	}

	status := http.StatusOK
	if _, ok := h.console.Record(guildID); !ok {
		h.console.SyncGuilds([]string{guildID})
		status = http.StatusCreated
	}

	if err := h.console.EnsureHydrated(r.Context(), guildID); err != nil {
		log.WithField("guildID", guildID).WithError(err).Warn("Tracking guild without remote data")
	}

	h.writeSettings(w, status, guildID)
}

// GetSettings returns a guild's settings, loading remote data on first access
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	if err := h.console.EnsureHydrated(r.Context(), guildID); err != nil {
		if errors.Is(err, application.ErrUnknownGuild) {
			writeError(w, http.StatusNotFound, "Guild not found", nil)
			return
		}
		log.WithField("guildID", guildID).WithError(err).Warn("Serving settings without remote data")
	}

	h.writeSettings(w, http.StatusOK, guildID)
}

// GetExternalID returns the remote identifier of a guild
func (h *Handler) GetExternalID(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	if _, ok := h.console.Record(guildID); !ok {
		writeError(w, http.StatusNotFound, "Guild not found", nil)
		return
	}

	externalID, err := h.console.ExternalID(guildID)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Guild has no external id", err)
		return
	}

	writeJSON(w, http.StatusOK, ExternalIDDTO{GuildID: guildID, ExternalID: externalID})
}

// UpdateSection merges the JSON object in the body into a section
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	guildID, section, ok := h.target(w, r)
	if !ok {
		return
	}

	var patch entities.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil || patch == nil {
		writeError(w, http.StatusBadRequest, "Request body must be a JSON object", err)
		return
	}

	if err := h.console.UpdateSection(r.Context(), guildID, section, patch); err != nil {
		writeConsoleError(w, err)
		return
	}

	h.writeSettings(w, http.StatusOK, guildID)
}

// ResetSection restores a section to its defaults
func (h *Handler) ResetSection(w http.ResponseWriter, r *http.Request) {
	guildID, section, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.console.ResetSection(r.Context(), guildID, section); err != nil {
		writeConsoleError(w, err)
		return
	}

	h.writeSettings(w, http.StatusOK, guildID)
}

// SaveSection commits a section, writing the guild section to every remote source
func (h *Handler) SaveSection(w http.ResponseWriter, r *http.Request) {
	guildID, section, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.console.Save(r.Context(), guildID, section); err != nil {
		writeConsoleError(w, err)
		return
	}

	h.writeSettings(w, http.StatusOK, guildID)
}

// target resolves the guild and section path parameters
func (h *Handler) target(w http.ResponseWriter, r *http.Request) (string, entities.SectionName, bool) {
	guildID := chi.URLParam(r, "guildID")
	if _, ok := h.console.Record(guildID); !ok {
		writeError(w, http.StatusNotFound, "Guild not found", nil)
		return "", "", false
	}

	section, ok := entities.ParseSectionName(chi.URLParam(r, "section"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown settings section", nil)
		return "", "", false
	}
	return guildID, section, true
}

func (h *Handler) writeSettings(w http.ResponseWriter, status int, guildID string) {
	record, ok := h.console.Record(guildID)
	if !ok {
		writeError(w, http.StatusNotFound, "Guild not found", nil)
		return
	}
	externalID, _ := h.console.ExternalID(guildID)

	writeJSON(w, status, SettingsDTO{
		GuildID:    guildID,
		ExternalID: externalID,
		Settings:   record.Settings,
		LastSaved:  record.LastSaved,
		Statuses:   h.console.Statuses(guildID),
	})
}

func writeConsoleError(w http.ResponseWriter, err error) {
	var aggErr *application.AggregateError
	switch {
	case errors.As(err, &aggErr):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:    "Failed to save settings to some sources",
			Details:  err.Error(),
			Failures: aggErr.Sources(),
		})
	case errors.Is(err, application.ErrUnknownGuild):
		writeError(w, http.StatusNotFound, "Guild not found", nil)
	case errors.Is(err, application.ErrUnknownSection):
		writeError(w, http.StatusBadRequest, "Unknown settings section", nil)
	case errors.Is(err, application.ErrSaveInProgress):
		writeError(w, http.StatusConflict, "Save already in progress", nil)
	case errors.Is(err, application.ErrNoExternalID):
		writeError(w, http.StatusUnprocessableEntity, "Guild has no external id", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
