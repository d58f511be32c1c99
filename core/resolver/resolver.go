package resolver

import (
	"context"

	"tubemp3/model"
)

// Resolver turns a validated video identifier into full metadata including
// streamable source formats. Implementations must classify failures with
// ResolutionError so callers can map them to response statuses.
type Resolver interface {
	Resolve(ctx context.Context, videoID string) (*model.VideoMetadata, error)
}
