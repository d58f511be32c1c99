package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const playerResponseMarker = "ytInitialPlayerResponse"

// scrapeWatchPage fetches the public watch page and extracts the embedded
// player response JSON from its script tags. Used only when the player API
// returns an unusable body.
func (c *Client) scrapeWatchPage(ctx context.Context, videoID string) (*playerResponse, error) {
	pageURL := fmt.Sprintf("%s?v=%s", c.watchURL, url.QueryEscape(videoID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, newError(videoID, KindNetwork, err)
	}
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(videoID, KindNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newError(videoID, KindNetwork, fmt.Errorf("watch page status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, newError(videoID, KindMalformed, fmt.Errorf("parse watch page: %w", err))
	}

	var raw string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, playerResponseMarker) {
			return true
		}
		if extracted, ok := extractJSONObject(text, playerResponseMarker); ok {
			raw = extracted
			return false
		}
		return true
	})

	if raw == "" {
		return nil, newError(videoID, KindMalformed, fmt.Errorf("player response not found in watch page"))
	}

	var pr playerResponse
	if err := json.Unmarshal([]byte(raw), &pr); err != nil {
		return nil, newError(videoID, KindMalformed, fmt.Errorf("decode scraped player response: %w", err))
	}
	return &pr, nil
}

// extractJSONObject returns the balanced JSON object assigned to marker
// inside script source, e.g. `var ytInitialPlayerResponse = {...};`.
func extractJSONObject(script, marker string) (string, bool) {
	idx := strings.Index(script, marker)
	if idx < 0 {
		return "", false
	}
	start := strings.IndexByte(script[idx:], '{')
	if start < 0 {
		return "", false
	}
	start += idx

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(script); i++ {
		ch := script[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return script[start : i+1], true
			}
		}
	}
	return "", false
}
