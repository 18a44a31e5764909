package recommendation

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles recommendation HTTP requests
type Handler struct {
	service        *Service
	regionalAvgKWh float64
	log            zerolog.Logger
}

// NewHandler creates a new recommendation handler. regionalAvgKWh is
// the fallback monthly average applied when a request omits its own.
func NewHandler(service *Service, regionalAvgKWh float64, log zerolog.Logger) *Handler {
	return &Handler{
		service:        service,
		regionalAvgKWh: regionalAvgKWh,
		log:            log.With().Str("handler", "recommendation").Logger(),
	}
}

// HandleRecommend handles POST / - run the pipeline for one user
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.RegionalAvgKWh <= 0 {
		req.RegionalAvgKWh = h.regionalAvgKWh
	}

	if err := req.Preferences.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Recommend(req)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", req.UserID).Msg("Recommendation failed")
		http.Error(w, "Failed to generate recommendation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleGetRecommendation handles GET /{uuid}
func (h *Handler) HandleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	result, err := h.service.Get(id)
	if err != nil {
		h.log.Error().Err(err).Str("uuid", id).Msg("Failed to get recommendation")
		http.Error(w, "Failed to get recommendation", http.StatusInternalServerError)
		return
	}
	if result == nil {
		http.Error(w, "Recommendation not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleInvalidate handles DELETE /cache/{fingerprint}
func (h *Handler) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	fingerprint := chi.URLParam(r, "fingerprint")

	if err := h.service.Invalidate(fingerprint); err != nil {
		h.log.Error().Err(err).Str("fingerprint", fingerprint).Msg("Cache invalidation failed")
		http.Error(w, "Failed to invalidate cache", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"fingerprint": fingerprint,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
