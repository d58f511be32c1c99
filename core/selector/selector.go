package selector

import (
	"errors"
	"strconv"

	"tubemp3/model"
)

// ErrNoAudioFormats indicates that the resolved metadata carries no
// audio-only formats.
var ErrNoAudioFormats = errors.New("no audio-only formats available")

// maxVideoListing bounds the video-only list exposed by introspection
// endpoints.
const maxVideoListing = 10

// BestAudio picks the best audio-only format by numeric bitrate: a stable
// left-to-right fold keeping the running maximum, so ties keep the
// first-seen format. A missing or non-numeric bitrate counts as zero.
func BestAudio(formats []model.MediaFormat) (model.MediaFormat, error) {
	bestIdx := -1
	bestRate := -1

	for i, f := range formats {
		if f.Kind != model.FormatAudioOnly {
			continue
		}
		if rate := parseBitrate(f.Bitrate); rate > bestRate {
			bestIdx = i
			bestRate = rate
		}
	}

	if bestIdx < 0 {
		return model.MediaFormat{}, ErrNoAudioFormats
	}
	return formats[bestIdx], nil
}

// AudioOnly returns the full audio-only subset, unmodified and in order.
func AudioOnly(formats []model.MediaFormat) []model.MediaFormat {
	var out []model.MediaFormat
	for _, f := range formats {
		if f.Kind == model.FormatAudioOnly {
			out = append(out, f)
		}
	}
	return out
}

// VideoOnly returns up to the first ten video-only formats, unmodified.
func VideoOnly(formats []model.MediaFormat) []model.MediaFormat {
	var out []model.MediaFormat
	for _, f := range formats {
		if f.Kind != model.FormatVideoOnly {
			continue
		}
		out = append(out, f)
		if len(out) == maxVideoListing {
			break
		}
	}
	return out
}

// ParseBitrate exposes the selection's bitrate parsing for response echoing.
func ParseBitrate(s string) int { return parseBitrate(s) }

func parseBitrate(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
