package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musivault/internal/shared"
	"github.com/desertthunder/musivault/internal/store"
	"github.com/desertthunder/musivault/internal/tasks"
)

// SyncFunc triggers a full collection run. Wired to the collector by the CLI
// layer; nil disables the sync endpoint.
type SyncFunc func(ctx context.Context) (*tasks.CollectionReport, error)

// VaultHandler serves read-only views of the vault plus a sync trigger.
// Implements [Handler].
type VaultHandler struct {
	store  *store.Store
	logger *log.Logger
	sync   SyncFunc
}

// NewVaultHandler creates a VaultHandler over a migrated store.
func NewVaultHandler(st *store.Store, logger *log.Logger, sync SyncFunc) *VaultHandler {
	return &VaultHandler{store: st, logger: logger, sync: sync}
}

// Routes returns the HTTP routes this handler serves.
func (h *VaultHandler) Routes() []string {
	return []string{
		"GET /api/stats",
		"GET /api/users/{id}",
		"GET /api/users/{id}/playlists",
		"GET /api/users/{id}/saved-tracks",
		"GET /api/users/{id}/top-tracks",
		"GET /api/users/{id}/top-artists",
		"GET /api/users/{id}/followed-artists",
		"GET /api/playlists/{id}",
		"GET /api/tracks/{id}",
		"GET /api/tracks/{id}/features",
		"POST /api/sync",
	}
}

func (h *VaultHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "GET /api/stats":
		h.handleStats(w, r)
	case "GET /api/users/{id}":
		h.handleUser(w, r)
	case "GET /api/users/{id}/playlists":
		h.handleUserPlaylists(w, r)
	case "GET /api/users/{id}/saved-tracks":
		h.handleSavedTracks(w, r)
	case "GET /api/users/{id}/top-tracks":
		h.handleTopTracks(w, r)
	case "GET /api/users/{id}/top-artists":
		h.handleTopArtists(w, r)
	case "GET /api/users/{id}/followed-artists":
		h.handleFollowedArtists(w, r)
	case "GET /api/playlists/{id}":
		h.handlePlaylist(w, r)
	case "GET /api/tracks/{id}":
		h.handleTrack(w, r)
	case "GET /api/tracks/{id}/features":
		h.handleTrackFeatures(w, r)
	case "POST /api/sync":
		h.handleSync(w, r)
	default:
		h.writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *VaultHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		h.logger.Error("failed to marshal response", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func (h *VaultHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *VaultHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		h.logger.Error("stats query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *VaultHandler) handleUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("user query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		h.writeError(w, http.StatusNotFound, "user not found")
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *VaultHandler) handleUserPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.store.GetUserPlaylists(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("playlists query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load playlists")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": playlists, "total": len(playlists)})
}

func (h *VaultHandler) handleSavedTracks(w http.ResponseWriter, r *http.Request) {
	saved, err := h.store.GetSavedTracks(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("saved tracks query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load saved tracks")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": saved, "total": len(saved)})
}

// timeRangeParam validates the optional time_range query parameter. An empty
// value means every range.
func timeRangeParam(r *http.Request) (string, bool) {
	timeRange := r.URL.Query().Get("time_range")
	if timeRange == "" {
		return "", true
	}
	for _, valid := range store.TimeRanges {
		if timeRange == valid {
			return timeRange, true
		}
	}
	return "", false
}

func (h *VaultHandler) handleTopTracks(w http.ResponseWriter, r *http.Request) {
	timeRange, ok := timeRangeParam(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid time_range")
		return
	}

	entries, err := h.store.GetUserTopTracks(r.Context(), r.PathValue("id"), timeRange)
	if err != nil {
		h.logger.Error("top tracks query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load top tracks")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": entries, "total": len(entries)})
}

func (h *VaultHandler) handleTopArtists(w http.ResponseWriter, r *http.Request) {
	timeRange, ok := timeRangeParam(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid time_range")
		return
	}

	entries, err := h.store.GetUserTopArtists(r.Context(), r.PathValue("id"), timeRange)
	if err != nil {
		h.logger.Error("top artists query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load top artists")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": entries, "total": len(entries)})
}

func (h *VaultHandler) handleFollowedArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.store.GetFollowedArtists(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("followed artists query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load followed artists")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"items": artists, "total": len(artists)})
}

func (h *VaultHandler) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.store.GetPlaylist(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("playlist query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load playlist")
		return
	}
	if playlist == nil {
		h.writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	h.writeJSON(w, http.StatusOK, playlist)
}

func (h *VaultHandler) handleTrack(w http.ResponseWriter, r *http.Request) {
	track, err := h.store.GetTrack(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("track query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load track")
		return
	}
	if track == nil {
		h.writeError(w, http.StatusNotFound, "track not found")
		return
	}
	h.writeJSON(w, http.StatusOK, track)
}

func (h *VaultHandler) handleTrackFeatures(w http.ResponseWriter, r *http.Request) {
	features, err := h.store.GetAudioFeatures(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("features query failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load features")
		return
	}
	if features == nil {
		h.writeError(w, http.StatusNotFound, "no features for track")
		return
	}
	h.writeJSON(w, http.StatusOK, features)
}

func (h *VaultHandler) handleSync(w http.ResponseWriter, r *http.Request) {
	if h.sync == nil {
		h.writeError(w, http.StatusServiceUnavailable, "sync not configured")
		return
	}

	report, err := h.sync(r.Context())
	if err != nil {
		h.logger.Error("sync failed", "error", err)
		h.writeError(w, http.StatusBadGateway, "sync failed")
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}
