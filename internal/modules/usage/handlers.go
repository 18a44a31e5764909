package usage

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/domain"
	"github.com/wattadvisor/wattadvisor/internal/events"
)

// Handler handles usage history HTTP requests
type Handler struct {
	repo     *Repository
	profiler *Profiler
	events   *events.Manager
	log      zerolog.Logger
}

// NewHandler creates a new usage handler
func NewHandler(repo *Repository, profiler *Profiler, eventManager *events.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		profiler: profiler,
		events:   eventManager,
		log:      log.With().Str("handler", "usage").Logger(),
	}
}

// usagePayload is the POST body for recording readings
type usagePayload struct {
	Points []domain.MonthlyUsagePoint `json:"points"`
}

// HandleRecordUsage handles POST /{userID} - store monthly readings
func (h *Handler) HandleRecordUsage(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	var payload usagePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid usage payload", http.StatusBadRequest)
		return
	}
	if len(payload.Points) == 0 {
		http.Error(w, "at least one usage point is required", http.StatusBadRequest)
		return
	}
	if len(payload.Points) > 24 {
		http.Error(w, "at most 24 usage points are accepted per request", http.StatusBadRequest)
		return
	}

	if err := h.repo.RecordBatch(userID, payload.Points); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to record usage")
		http.Error(w, "Failed to record usage", http.StatusInternalServerError)
		return
	}

	h.events.Emit(events.UsageRecorded, "usage", map[string]interface{}{
		"user_id": userID,
		"points":  len(payload.Points),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"recorded": len(payload.Points),
	})
}

// HandleGetProfile handles GET /{userID}/profile - compute the usage profile
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	points, err := h.repo.History(userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("Failed to load usage history")
		http.Error(w, "Failed to load usage history", http.StatusInternalServerError)
		return
	}

	regionalAvg := 0.0
	if raw := r.URL.Query().Get("regional_avg_kwh"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed >= 0 {
			regionalAvg = parsed
		}
	}

	profile := h.profiler.Profile(points, regionalAvg)
	writeJSON(w, http.StatusOK, profile)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
