package audio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"tubemp3/logger"
)

// FFmpegTranscoder implements Transcoder by piping the source through an
// ffmpeg subprocess. The process is started with exec.CommandContext so a
// cancelled request context kills it outright rather than waiting for a
// graceful exit.
type FFmpegTranscoder struct {
	ffmpegPath string
}

// NewFFmpegTranscoder creates a new FFmpegTranscoder.
func NewFFmpegTranscoder(ffmpegPath string) *FFmpegTranscoder {
	return &FFmpegTranscoder{ffmpegPath: ffmpegPath}
}

// Transcode reads the source stream on stdin and relays MP3 bytes from
// stdout into sink in production order. Progress is parsed from the
// -progress output and logged; it is not part of the response contract.
func (t *FFmpegTranscoder) Transcode(ctx context.Context, source io.Reader, sink io.Writer, opts Options) error {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostats",
		"-progress", "pipe:2",
		"-i", "pipe:0",
		"-vn",
		"-ar", strconv.Itoa(opts.SampleRate),
		"-ac", strconv.Itoa(opts.Channels),
		"-b:a", fmt.Sprintf("%dk", opts.Bitrate),
		"-f", "mp3",
		"-preset", "veryfast",
		"-threads", "0",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)
	cmd.Stdin = source

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start: %w", err)
	}

	logger.Info("transcode started",
		logger.Int("bitrate", opts.Bitrate),
		logger.Int("sampleRate", opts.SampleRate),
		logger.Int("channels", opts.Channels))

	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		t.logProgress(stderr, opts.Duration)
	}()

	written, copyErr := io.Copy(sink, stdout)
	waitErr := cmd.Wait()
	<-progressDone

	if ctx.Err() != nil {
		// Client disconnected; the process was already killed.
		logger.Info("transcode cancelled",
			logger.Int64("bytesWritten", written),
			logger.ErrorField(ctx.Err()))
		return ctx.Err()
	}
	if copyErr != nil {
		return fmt.Errorf("relay output: %w", copyErr)
	}
	if waitErr != nil {
		return fmt.Errorf("ffmpeg exited: %w", waitErr)
	}

	logger.Info("transcode completed", logger.Int64("bytesWritten", written))
	return nil
}

// logProgress parses ffmpeg -progress key=value lines and logs percent
// milestones in 10% steps.
func (t *FFmpegTranscoder) logProgress(r io.Reader, totalSeconds int) {
	scanner := bufio.NewScanner(r)
	lastStep := -1

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "out_time_ms=") {
			continue
		}
		ms, err := strconv.ParseInt(strings.TrimPrefix(line, "out_time_ms="), 10, 64)
		if err != nil || totalSeconds <= 0 {
			continue
		}

		percent := float64(ms) / 1e6 / float64(totalSeconds) * 100
		if percent > 100 {
			percent = 100
		}
		step := int(percent) / 10
		if step > lastStep {
			lastStep = step
			logger.Debug("transcode progress", logger.Float64("percent", percent))
		}
	}
}
