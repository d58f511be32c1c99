package resolver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tubemp3/model"
)

const samplePlayerResponse = `{
	"playabilityStatus": {"status": "OK"},
	"videoDetails": {
		"videoId": "dQw4w9WgXcQ",
		"title": "Never Gonna Give You Up",
		"author": "Rick Astley",
		"lengthSeconds": "213",
		"viewCount": "1400000000",
		"shortDescription": "Official video",
		"thumbnail": {"thumbnails": [{"url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/default.jpg", "width": 120, "height": 90}]}
	},
	"microformat": {"playerMicroformatRenderer": {"category": "Music", "uploadDate": "2009-10-25"}},
	"streamingData": {
		"formats": [
			{"itag": 18, "url": "https://cdn.example/muxed", "mimeType": "video/mp4; codecs=\"avc1.42001E, mp4a.40.2\"", "bitrate": 500000}
		],
		"adaptiveFormats": [
			{"itag": 251, "url": "https://cdn.example/opus", "mimeType": "audio/webm; codecs=\"opus\"", "bitrate": 160000, "audioSampleRate": "48000", "audioChannels": 2, "contentLength": "3400000"},
			{"itag": 137, "url": "https://cdn.example/video", "mimeType": "video/mp4; codecs=\"avc1.640028\"", "bitrate": 2500000, "qualityLabel": "1080p"}
		]
	}
}`

func testClient(serverURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		playerURL:  serverURL + "/player",
		watchURL:   serverURL + "/watch",
		userAgent:  "test-agent",
	}
}

func TestClientResolve_MapsMetadataAndFormats(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("missing custom user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePlayerResponse))
	}))
	defer ts.Close()

	meta, err := testClient(ts.URL).Resolve(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if meta.Title != "Never Gonna Give You Up" || meta.Author != "Rick Astley" {
		t.Fatalf("Resolve() title/author = %q/%q", meta.Title, meta.Author)
	}
	if meta.Duration != 213 {
		t.Fatalf("Resolve() duration = %d, want 213", meta.Duration)
	}
	if meta.ViewCount != 1400000000 {
		t.Fatalf("Resolve() viewCount = %d", meta.ViewCount)
	}
	if meta.Category != "Music" || meta.UploadDate != "2009-10-25" {
		t.Fatalf("Resolve() category/uploadDate = %q/%q", meta.Category, meta.UploadDate)
	}
	if len(meta.Formats) != 3 {
		t.Fatalf("Resolve() returned %d formats, want 3", len(meta.Formats))
	}

	muxed, audio, video := meta.Formats[0], meta.Formats[1], meta.Formats[2]
	if muxed.Kind != model.FormatMuxed {
		t.Fatalf("formats[0].Kind = %s, want muxed", muxed.Kind)
	}
	if audio.Kind != model.FormatAudioOnly || audio.Container != "webm" || audio.Codec != "opus" {
		t.Fatalf("audio format mapped wrong: %+v", audio)
	}
	if audio.Bitrate != "160000" || audio.SampleRate != "48000" || audio.Channels != 2 {
		t.Fatalf("audio format fields wrong: %+v", audio)
	}
	if audio.ContentLength != 3400000 {
		t.Fatalf("audio contentLength = %d", audio.ContentLength)
	}
	if video.Kind != model.FormatVideoOnly {
		t.Fatalf("formats[2].Kind = %s, want video-only", video.Kind)
	}
}

func TestClientResolve_NotFoundStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Resolve(context.Background(), "dQw4w9WgXcQ")
	if KindOf(err) != KindNotFound {
		t.Fatalf("Resolve() kind = %s, want not_found (err=%v)", KindOf(err), err)
	}
	if !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrVideoNotFound", err)
	}
}

func TestClientResolve_RateLimited(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Resolve(context.Background(), "dQw4w9WgXcQ")
	if KindOf(err) != KindRateLimited {
		t.Fatalf("Resolve() kind = %s, want rate_limited (err=%v)", KindOf(err), err)
	}
}

func TestClientResolve_PlayabilityError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"playabilityStatus": {"status": "ERROR", "reason": "Video unavailable"}}`))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Resolve(context.Background(), "dQw4w9WgXcQ")
	if KindOf(err) != KindNotFound {
		t.Fatalf("Resolve() kind = %s, want not_found (err=%v)", KindOf(err), err)
	}
}

func TestClientResolve_ScrapeFallback(t *testing.T) {
	mux := http.NewServeMux()
	// Player API returns a body with no video details, forcing the fallback.
	mux.HandleFunc("/player", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"playabilityStatus": {"status": "OK"}}`))
	})
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><script>var ytInitialPlayerResponse = ` + samplePlayerResponse + `;</script></head><body></body></html>`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	meta, err := testClient(ts.URL).Resolve(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Resolve() with scrape fallback error = %v", err)
	}
	if meta.Title != "Never Gonna Give You Up" {
		t.Fatalf("scraped title = %q", meta.Title)
	}
}

func TestExtractJSONObject(t *testing.T) {
	script := `window.x = 1; var ytInitialPlayerResponse = {"a": {"b": "}"}, "c": [1,2]};more`
	got, ok := extractJSONObject(script, playerResponseMarker)
	if !ok {
		t.Fatal("extractJSONObject() found nothing")
	}
	want := `{"a": {"b": "}"}, "c": [1,2]}`
	if got != want {
		t.Fatalf("extractJSONObject() = %q, want %q", got, want)
	}
}
