package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"tubemp3/core/resolver"
	"tubemp3/logger"
	"tubemp3/model"

	"github.com/google/uuid"
)

const maxBatchSize = 10

type batchRequest struct {
	VideoIDs []string `json:"videoIds"`
	Quality  string   `json:"quality,omitempty"`
	Bitrate  int      `json:"bitrate,omitempty"`
}

type batchResponse struct {
	Status     string               `json:"status"`
	Successful []model.BatchSuccess `json:"successful"`
	Failed     []model.BatchFailure `json:"failed"`
	Total      int                  `json:"total"`
}

// BatchDownloadHandler fans a bounded list of identifiers out to the
// resolution path concurrently. Items succeed or fail independently; the
// batch call itself only fails on malformed input. No transcode is
// triggered here; successes are name/metadata preparation only.
func (h *APIHandler) BatchDownloadHandler(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_batch_request", "request body must be JSON with a videoIds array")
		return
	}
	if len(req.VideoIDs) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_batch_request", "videoIds must be a non-empty array")
		return
	}
	if len(req.VideoIDs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "invalid_batch_request",
			fmt.Sprintf("videoIds must contain at most %d items", maxBatchSize))
		return
	}

	var (
		mu         sync.Mutex
		successful []model.BatchSuccess
		failed     []model.BatchFailure
		wg         sync.WaitGroup
	)

	ctx := r.Context()
	for _, id := range req.VideoIDs {
		wg.Add(1)
		go func(videoID string) {
			defer wg.Done()

			if !resolver.ValidateID(videoID) {
				mu.Lock()
				failed = append(failed, model.BatchFailure{VideoID: videoID, Error: "invalid video ID"})
				mu.Unlock()
				return
			}

			// Single attempt, matching the non-streaming call sites.
			meta, _, err := h.cache.GetOrResolve(ctx, videoID, h.resolver.Resolve)
			if err != nil {
				mu.Lock()
				failed = append(failed, model.BatchFailure{VideoID: videoID, Error: err.Error()})
				mu.Unlock()
				return
			}

			filename := fmt.Sprintf("%s_%s.mp3", sanitizeFilename(meta.Title), shortSuffix())
			mu.Lock()
			successful = append(successful, model.BatchSuccess{
				VideoID:      videoID,
				Title:        meta.Title,
				Filename:     filename,
				DownloadPath: "/download-mp3/" + videoID,
				Status:       "queued",
			})
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	logger.Info("batch request processed",
		logger.Int("total", len(req.VideoIDs)),
		logger.Int("successful", len(successful)),
		logger.Int("failed", len(failed)))

	if successful == nil {
		successful = []model.BatchSuccess{}
	}
	if failed == nil {
		failed = []model.BatchFailure{}
	}
	writeJSON(w, http.StatusOK, batchResponse{
		Status:     "batch_queued",
		Successful: successful,
		Failed:     failed,
		Total:      len(req.VideoIDs),
	})
}

// shortSuffix disambiguates filenames within a batch.
func shortSuffix() string {
	return uuid.NewString()[:8]
}
