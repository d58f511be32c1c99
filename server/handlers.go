package server

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"tubemp3/cache"
	"tubemp3/config"
	"tubemp3/core/audio"
	"tubemp3/core/resolver"
	"tubemp3/core/selector"

	"github.com/gorilla/mux"
)

// directURLValidity matches the upstream platform's own URL lifetime; it is
// echoed to clients, not independently verified.
const directURLValidity = 6 * time.Hour

const maxDescriptionLength = 200

// APIHandler handles all API requests.
type APIHandler struct {
	cfg        *config.Config
	cache      *cache.MetadataCache
	resolver   resolver.Resolver
	transcoder audio.Transcoder
	fetcher    audio.Fetcher
	retry      resolver.RetryPolicy
	startedAt  time.Time
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	cfg *config.Config,
	metaCache *cache.MetadataCache,
	res resolver.Resolver,
	transcoder audio.Transcoder,
	fetcher audio.Fetcher,
) *APIHandler {
	return &APIHandler{
		cfg:        cfg,
		cache:      metaCache,
		resolver:   res,
		transcoder: transcoder,
		fetcher:    fetcher,
		retry:      resolver.DefaultRetryPolicy,
		startedAt:  time.Now(),
	}
}

var (
	invalidFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_\s-]`)
	separatorRuns        = regexp.MustCompile(`[\s-]+`)
)

// sanitizeFilename strips everything outside [A-Za-z0-9_\s-], collapses
// whitespace and hyphen runs to a single underscore, lowercases, and
// truncates to 100 characters.
func sanitizeFilename(title string) string {
	name := invalidFilenameChars.ReplaceAllString(title, "")
	name = separatorRuns.ReplaceAllString(name, "_")
	name = strings.Trim(strings.ToLower(name), "_")
	if len(name) > 100 {
		name = name[:100]
	}
	if name == "" {
		name = "audio"
	}
	return name
}

// videoIDFromRequest extracts and validates the path identifier. A failed
// validation is a client error and never reaches the cache or the network.
func videoIDFromRequest(r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	return id, resolver.ValidateID(id)
}

// VideoInfoHandler returns a metadata summary, reporting whether it was
// served from the cache.
func (h *APIHandler) VideoInfoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_video_id", "video ID must be 11 characters from [A-Za-z0-9_-]")
		return
	}

	meta, cached, err := h.cache.GetOrResolve(r.Context(), id, h.resolver.Resolve)
	if err != nil {
		status, code := resolutionStatus(err)
		writeError(w, status, code, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"videoId":     meta.ID,
		"title":       meta.Title,
		"author":      meta.Author,
		"duration":    meta.Duration,
		"viewCount":   meta.ViewCount,
		"description": truncate(meta.Description, maxDescriptionLength),
		"thumbnails":  meta.Thumbnails,
		"uploadDate":  meta.UploadDate,
		"category":    meta.Category,
		"cached":      cached,
	})
}

// FormatsHandler lists the audio-only formats, up to ten video-only formats,
// and the recommended audio pick.
func (h *APIHandler) FormatsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_video_id", "video ID must be 11 characters from [A-Za-z0-9_-]")
		return
	}

	meta, _, err := h.cache.GetOrResolve(r.Context(), id, h.resolver.Resolve)
	if err != nil {
		status, code := resolutionStatus(err)
		writeError(w, status, code, err.Error())
		return
	}

	body := map[string]interface{}{
		"videoId":      meta.ID,
		"title":        meta.Title,
		"audioFormats": selector.AudioOnly(meta.Formats),
		"videoFormats": selector.VideoOnly(meta.Formats),
	}
	if recommended, err := selector.BestAudio(meta.Formats); err == nil {
		body["recommended"] = recommended
	}
	writeJSON(w, http.StatusOK, body)
}

// DirectLinkHandler resolves and returns the upstream's direct, time-limited
// media URL instead of transcoding.
func (h *APIHandler) DirectLinkHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_video_id", "video ID must be 11 characters from [A-Za-z0-9_-]")
		return
	}

	meta, _, err := h.cache.GetOrResolve(r.Context(), id, h.resolver.Resolve)
	if err != nil {
		status, code := resolutionStatus(err)
		writeError(w, status, code, err.Error())
		return
	}

	format, err := selector.BestAudio(meta.Formats)
	if err != nil {
		writeError(w, http.StatusBadRequest, "no_audio_formats", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"videoId":   meta.ID,
		"title":     meta.Title,
		"author":    meta.Author,
		"duration":  meta.Duration,
		"directUrl": format.URL,
		"format": map[string]interface{}{
			"container":  format.Container,
			"codecs":     format.Codec,
			"bitrate":    selector.ParseBitrate(format.Bitrate),
			"sampleRate": format.SampleRate,
		},
		"expiresAt": time.Now().Add(directURLValidity).UTC().Format(time.RFC3339),
		"note":      "direct URL is valid for roughly 6 hours, matching the upstream platform's link lifetime",
	})
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
