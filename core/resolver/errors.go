package resolver

import (
	"errors"
	"fmt"
)

// Kind classifies why a resolution failed.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindNetwork     Kind = "network"
	KindRateLimited Kind = "rate_limited"
	KindMalformed   Kind = "malformed_response"
)

var (
	// ErrInvalidID indicates that a candidate string is not a syntactically
	// valid video identifier.
	ErrInvalidID = errors.New("invalid video identifier")

	// ErrVideoNotFound indicates that the video is unavailable (deleted,
	// private, never existed).
	ErrVideoNotFound = errors.New("video not found")

	// ErrRateLimited indicates that the upstream platform refused the
	// request due to rate limiting.
	ErrRateLimited = errors.New("rate limited by upstream")
)

// ResolutionError wraps a failed metadata resolution with its classification.
type ResolutionError struct {
	VideoID string
	Kind    Kind
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %s: %v", e.VideoID, e.Kind, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func newError(videoID string, kind Kind, err error) *ResolutionError {
	return &ResolutionError{VideoID: videoID, Kind: kind, Err: err}
}

// KindOf extracts the classification from err, or KindNetwork when err is
// not a ResolutionError.
func KindOf(err error) Kind {
	var rerr *ResolutionError
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return KindNetwork
}
