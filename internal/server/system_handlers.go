package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/wattadvisor/wattadvisor/internal/modules/catalog"
)

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	catalogRepo *catalog.Repository
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(catalogRepo *catalog.Repository, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		startupTime: time.Now(),
		catalogRepo: catalogRepo,
	}
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPct, memPct := h.systemLoad()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	planCount, err := h.catalogRepo.Count()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to count catalog plans")
	}

	response := map[string]interface{}{
		"status":         "running",
		"uptime_seconds": int(time.Since(h.startupTime).Seconds()),
		"plan_count":     planCount,
		"system": map[string]interface{}{
			"cpu_percent": cpuPct,
			"ram_percent": memPct,
			"goroutines":  runtime.NumGoroutine(),
			"alloc_mb":    m.Alloc / 1024 / 1024,
		},
	}

	h.writeJSON(w, response)
}

// systemLoad samples CPU and RAM usage
func (h *SystemHandlers) systemLoad() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
