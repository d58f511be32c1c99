package server

import (
	"net/http"
	"time"

	"tubemp3/logger"
)

// cacheStatsKeySample bounds the diagnostic key listing.
const cacheStatsKeySample = 20

// HealthHandler reports liveness plus basic process stats.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"uptimeSeconds": int(time.Since(h.startedAt).Seconds()),
		"cacheSize":     h.cache.Size(),
	})
}

// CacheStatsHandler exposes the metadata cache's size and a bounded key
// sample. Read-only; no mutation.
func (h *APIHandler) CacheStatsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"size":       h.cache.Size(),
		"capacity":   h.cache.Capacity(),
		"ttlSeconds": int(h.cache.TTL().Seconds()),
		"keys":       h.cache.Keys(cacheStatsKeySample),
	})
}

// ClearCacheHandler empties the metadata cache.
func (h *APIHandler) ClearCacheHandler(w http.ResponseWriter, r *http.Request) {
	removed := h.cache.Clear()
	logger.Info("cache cleared", logger.Int("removed", removed))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "cache_cleared",
		"removed": removed,
	})
}
