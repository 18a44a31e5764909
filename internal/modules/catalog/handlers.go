package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles plan catalog HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "catalog").Logger(),
	}
}

// HandleListPlans handles GET / - list active plans, optionally by region
func (h *Handler) HandleListPlans(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")

	plans, err := h.service.ActivePlans(region)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list plans")
		http.Error(w, "Failed to list plans", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"plans": plans,
		"count": len(plans),
	})
}

// HandleGetPlan handles GET /{planID}
func (h *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planID")

	plan, err := h.service.GetPlan(planID)
	if err != nil {
		h.log.Error().Err(err).Str("plan_id", planID).Msg("Failed to get plan")
		http.Error(w, "Failed to get plan", http.StatusInternalServerError)
		return
	}
	if plan == nil {
		http.Error(w, "Plan not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// HandleUpsertPlan handles POST / - create or update a plan
func (h *Handler) HandleUpsertPlan(w http.ResponseWriter, r *http.Request) {
	var plan Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		http.Error(w, "Invalid plan payload", http.StatusBadRequest)
		return
	}

	if err := plan.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.UpsertPlan(plan); err != nil {
		h.log.Error().Err(err).Str("plan_id", plan.ID).Msg("Failed to upsert plan")
		http.Error(w, "Failed to store plan", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"plan_id": plan.ID,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
