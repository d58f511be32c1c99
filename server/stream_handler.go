package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"tubemp3/core/audio"
	"tubemp3/core/selector"
	"tubemp3/logger"
	"tubemp3/model"
)

// flushWriter pushes bytes to the client as the transcoder produces them,
// counting what was written. Once the first byte is out, failures can no
// longer change the response status; the connection is simply terminated.
type flushWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	written int64
}

func newFlushWriter(w http.ResponseWriter) *flushWriter {
	flusher, _ := w.(http.Flusher)
	return &flushWriter{w: w, flusher: flusher}
}

func (fw *flushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	fw.written += int64(n)
	if fw.flusher != nil {
		fw.flusher.Flush()
	}
	return n, err
}

// DownloadMP3Handler stream-transcodes the best audio source into MP3 and
// relays it as the response body without buffering the whole file. The
// metadata fetch on this path, and only this path, is retried.
func (h *APIHandler) DownloadMP3Handler(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_video_id", "video ID must be 11 characters from [A-Za-z0-9_-]")
		return
	}

	bitrate := h.cfg.DefaultBitrate
	if v := r.URL.Query().Get("bitrate"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			bitrate = n
		}
	}

	ctx := r.Context()

	meta, cached, err := h.resolveWithRetry(ctx, id)
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

	source, err := h.fetcher.Open(ctx, format.URL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "source_fetch_failed", err.Error())
		return
	}
	defer source.Close()

	filename := sanitizeFilename(meta.Title) + ".mp3"
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "no-store")

	logger.Info("streaming download started",
		logger.String("videoId", id),
		logger.String("title", meta.Title),
		logger.Int("bitrate", bitrate),
		logger.Bool("cachedMetadata", cached))

	fw := newFlushWriter(w)
	err = h.transcoder.Transcode(ctx, source, fw, audio.Options{
		Bitrate:    bitrate,
		SampleRate: h.cfg.SampleRate,
		Channels:   h.cfg.Channels,
		Duration:   meta.Duration,
	})
	if err != nil {
		if ctx.Err() != nil {
			// Client disconnect already killed the transcoder; nothing more
			// to write.
			logger.Info("client disconnected mid-stream", logger.String("videoId", id))
			return
		}
		if fw.written == 0 {
			writeError(w, http.StatusInternalServerError, "transcode_failed", err.Error())
			return
		}
		// Headers and bytes are already out; the status cannot change.
		logger.Error("transcode failed after first byte, terminating connection",
			logger.String("videoId", id),
			logger.Int64("bytesWritten", fw.written),
			logger.ErrorField(err))
		return
	}

	logger.Info("streaming download completed",
		logger.String("videoId", id),
		logger.Int64("bytesWritten", fw.written))
}

// resolveWithRetry applies the fixed-delay retry policy to the cache-backed
// metadata fetch. A cache hit satisfies the first attempt immediately.
func (h *APIHandler) resolveWithRetry(ctx context.Context, id string) (meta *model.VideoMetadata, cached bool, err error) {
	err = h.retry.Do(ctx, func() error {
		var resolveErr error
		meta, cached, resolveErr = h.cache.GetOrResolve(ctx, id, h.resolver.Resolve)
		return resolveErr
	})
	return meta, cached, err
}
