package handler

import (
	"net/http"
	"runtime"
	"time"

	"billing-cache-api/internal/cache"
	"billing-cache-api/internal/repository"
	"billing-cache-api/internal/service"
	"billing-cache-api/pkg/response"
)

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	store     repository.Store
	cache     cache.Cache
	cacheType string
	loader    *service.Loader
	source    service.DataSource
	journal   *service.Journal
	startTime time.Time
}

// AdminConfig holds the dependencies of the admin handler.
type AdminConfig struct {
	Store     repository.Store
	Cache     cache.Cache
	CacheType string
	Loader    *service.Loader
	Source    service.DataSource
	Journal   *service.Journal
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(cfg AdminConfig) *AdminHandler {
	return &AdminHandler{
		store:     cfg.Store,
		cache:     cfg.Cache,
		cacheType: cfg.CacheType,
		loader:    cfg.Loader,
		source:    cfg.Source,
		journal:   cfg.Journal,
		startTime: time.Now(),
	}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"heap_inuse_mb": float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	mongoStats, err := h.store.GetStats(ctx)
	if err == nil {
		mongoStats["status"] = "connected"
		stats["mongodb"] = mongoStats
	} else {
		stats["mongodb"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	}

	cacheStats := map[string]interface{}{"type": h.cacheType}
	if keys, err := h.cache.Keys(ctx, "clients:"); err == nil {
		cacheStats["status"] = "connected"
		cacheStats["client_keys"] = len(keys)
	} else {
		cacheStats["status"] = "error"
		cacheStats["error"] = err.Error()
	}
	stats["cache"] = cacheStats

	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}

// Load handles POST /api/v1/admin/load
func (h *AdminHandler) Load(w http.ResponseWriter, r *http.Request) {
	result, err := h.loader.Load(r.Context(), h.source)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, result)
}

// Audit handles GET /api/v1/admin/audit?limit=&offset=
func (h *AdminHandler) Audit(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 50, 500)
	if err != nil {
		response.Error(w, err)
		return
	}
	offset, err := intQuery(r, "offset", 0, 0)
	if err != nil {
		response.Error(w, err)
		return
	}

	entries, total, err := h.journal.List(r.Context(), limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSONWithMeta(w, http.StatusOK, entries, limit, offset, total)
}
