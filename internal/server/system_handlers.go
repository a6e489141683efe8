package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/aetherwealth/aether/internal/modules/holdings"
)

// SystemHandlers serves the process status endpoint.
type SystemHandlers struct {
	mounts      *holdings.Mounts
	devMode     bool
	environment string
	startedAt   time.Time
	hostStats   func() (float64, float64)
	log         zerolog.Logger
}

// NewSystemHandlers creates the status handlers. mounts may be nil.
func NewSystemHandlers(mounts *holdings.Mounts, devMode bool, environment string, log zerolog.Logger) *SystemHandlers {
	h := &SystemHandlers{
		mounts:      mounts,
		devMode:     devMode,
		environment: environment,
		startedAt:   time.Now(),
		log:         log.With().Str("handler", "system").Logger(),
	}
	h.hostStats = h.getSystemStats
	return h
}

// SystemStatusResponse is returned by GET /api/system/status.
type SystemStatusResponse struct {
	Status        string                   `json:"status"`
	Environment   string                   `json:"environment"`
	DevMode       bool                     `json:"dev_mode"`
	StartedAt     time.Time                `json:"started_at"`
	UptimeSeconds int64                    `json:"uptime_seconds"`
	Goroutines    int                      `json:"goroutines"`
	CPUPercent    float64                  `json:"cpu_percent"`
	MemoryPercent float64                  `json:"memory_percent"`
	LiveProviders map[domain.AssetType]int `json:"live_providers"`
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.hostStats()

	live := map[domain.AssetType]int{}
	if h.mounts != nil {
		live = h.mounts.LiveCounts()
	}

	writeJSON(w, http.StatusOK, SystemStatusResponse{
		Status:        "ok",
		Environment:   h.environment,
		DevMode:       h.devMode,
		StartedAt:     h.startedAt.UTC(),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		LiveProviders: live,
	}, h.log)
}

// getSystemStats samples CPU over 100ms so the request stays fast.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
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
