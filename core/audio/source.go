package audio

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// SourceFetcher opens streaming reads on remote media URLs. No client-side
// timeout is set on the body: a stalled source stalls the transcode until
// the request context is cancelled.
type SourceFetcher struct {
	client    *http.Client
	userAgent string
}

// NewSourceFetcher creates a fetcher sending the given user agent.
func NewSourceFetcher(userAgent string) *SourceFetcher {
	return &SourceFetcher{
		client:    &http.Client{},
		userAgent: userAgent,
	}
}

// Open starts a streaming GET on url. The caller owns the returned body.
func (f *SourceFetcher) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build source request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open source stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("source stream status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
