package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tubemp3/config"
	"tubemp3/logger"
	"tubemp3/model"
)

const (
	clientName    = "ANDROID"
	clientVersion = "19.09.37"
)

// Client resolves video metadata against the platform's player API, with a
// watch-page scrape fallback when the API response is unusable. A custom
// header set is attached to every outbound call to reduce blocking.
type Client struct {
	httpClient *http.Client
	playerURL  string
	watchURL   string
	userAgent  string
}

// NewClient creates a resolution client from the application config.
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		playerURL:  cfg.PlayerAPIURL,
		watchURL:   cfg.WatchBaseURL,
		userAgent:  cfg.UserAgent,
	}
}

type playerRequest struct {
	Context struct {
		Client struct {
			ClientName        string `json:"clientName"`
			ClientVersion     string `json:"clientVersion"`
			AndroidSDKVersion int    `json:"androidSdkVersion"`
			HL                string `json:"hl"`
		} `json:"client"`
	} `json:"context"`
	VideoID string `json:"videoId"`
}

type rawFormat struct {
	Itag            int    `json:"itag"`
	URL             string `json:"url"`
	MimeType        string `json:"mimeType"`
	Bitrate         int    `json:"bitrate"`
	AudioSampleRate string `json:"audioSampleRate"`
	AudioChannels   int    `json:"audioChannels"`
	ContentLength   string `json:"contentLength"`
	QualityLabel    string `json:"qualityLabel"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails struct {
		VideoID          string `json:"videoId"`
		Title            string `json:"title"`
		Author           string `json:"author"`
		LengthSeconds    string `json:"lengthSeconds"`
		ViewCount        string `json:"viewCount"`
		ShortDescription string `json:"shortDescription"`
		Thumbnail        struct {
			Thumbnails []struct {
				URL    string `json:"url"`
				Width  int    `json:"width"`
				Height int    `json:"height"`
			} `json:"thumbnails"`
		} `json:"thumbnail"`
	} `json:"videoDetails"`
	Microformat struct {
		PlayerMicroformatRenderer struct {
			Category   string `json:"category"`
			UploadDate string `json:"uploadDate"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
	StreamingData struct {
		Formats         []rawFormat `json:"formats"`
		AdaptiveFormats []rawFormat `json:"adaptiveFormats"`
	} `json:"streamingData"`
}

// Resolve fetches metadata and streamable formats for videoID.
func (c *Client) Resolve(ctx context.Context, videoID string) (*model.VideoMetadata, error) {
	pr, err := c.fetchPlayerResponse(ctx, videoID)
	if err != nil {
		return nil, err
	}

	meta, convErr := convertPlayerResponse(videoID, pr)
	if convErr == nil {
		return meta, nil
	}
	if KindOf(convErr) != KindMalformed {
		return nil, convErr
	}

	// Player API gave an unusable body; fall back to scraping the watch page.
	logger.Warn("player API response unusable, falling back to watch page scrape",
		logger.String("videoId", videoID),
		logger.ErrorField(convErr))

	pr, scrapeErr := c.scrapeWatchPage(ctx, videoID)
	if scrapeErr != nil {
		return nil, convErr
	}
	return convertPlayerResponse(videoID, pr)
}

func (c *Client) fetchPlayerResponse(ctx context.Context, videoID string) (*playerResponse, error) {
	var reqBody playerRequest
	reqBody.Context.Client.ClientName = clientName
	reqBody.Context.Client.ClientVersion = clientVersion
	reqBody.Context.Client.AndroidSDKVersion = 30
	reqBody.Context.Client.HL = "en"
	reqBody.VideoID = videoID

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, newError(videoID, KindMalformed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.playerURL, bytes.NewReader(payload))
	if err != nil {
		return nil, newError(videoID, KindNetwork, err)
	}
	c.applyHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(videoID, KindNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, newError(videoID, KindNotFound, ErrVideoNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, newError(videoID, KindRateLimited, ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, newError(videoID, KindNetwork, fmt.Errorf("player API status %d", resp.StatusCode))
	}

	var pr playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, newError(videoID, KindMalformed, fmt.Errorf("decode player response: %w", err))
	}
	return &pr, nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("X-YouTube-Client-Name", "3")
	req.Header.Set("X-YouTube-Client-Version", clientVersion)
}

func convertPlayerResponse(videoID string, pr *playerResponse) (*model.VideoMetadata, error) {
	switch pr.PlayabilityStatus.Status {
	case "", "OK":
		// playable
	case "ERROR":
		return nil, newError(videoID, KindNotFound, fmt.Errorf("%w: %s", ErrVideoNotFound, pr.PlayabilityStatus.Reason))
	default:
		return nil, newError(videoID, KindNotFound,
			fmt.Errorf("%w: playability %s: %s", ErrVideoNotFound, pr.PlayabilityStatus.Status, pr.PlayabilityStatus.Reason))
	}

	details := pr.VideoDetails
	if details.VideoID == "" || details.Title == "" {
		return nil, newError(videoID, KindMalformed, fmt.Errorf("player response missing video details"))
	}

	duration, _ := strconv.Atoi(details.LengthSeconds)
	viewCount, _ := strconv.ParseInt(details.ViewCount, 10, 64)

	meta := &model.VideoMetadata{
		ID:          details.VideoID,
		Title:       details.Title,
		Author:      details.Author,
		Duration:    duration,
		ViewCount:   viewCount,
		Description: details.ShortDescription,
		UploadDate:  pr.Microformat.PlayerMicroformatRenderer.UploadDate,
		Category:    pr.Microformat.PlayerMicroformatRenderer.Category,
	}

	for _, t := range details.Thumbnail.Thumbnails {
		meta.Thumbnails = append(meta.Thumbnails, model.Thumbnail{URL: t.URL, Width: t.Width, Height: t.Height})
	}

	for _, f := range pr.StreamingData.Formats {
		meta.Formats = append(meta.Formats, mapFormat(f, true))
	}
	for _, f := range pr.StreamingData.AdaptiveFormats {
		meta.Formats = append(meta.Formats, mapFormat(f, false))
	}

	return meta, nil
}

func mapFormat(f rawFormat, muxed bool) model.MediaFormat {
	container, codec := splitMimeType(f.MimeType)

	kind := model.FormatMuxed
	if !muxed {
		if strings.HasPrefix(f.MimeType, "audio/") {
			kind = model.FormatAudioOnly
		} else {
			kind = model.FormatVideoOnly
		}
	}

	length, _ := strconv.ParseInt(f.ContentLength, 10, 64)

	return model.MediaFormat{
		Kind:          kind,
		Container:     container,
		Codec:         codec,
		Bitrate:       strconv.Itoa(f.Bitrate),
		SampleRate:    f.AudioSampleRate,
		Channels:      f.AudioChannels,
		ContentLength: length,
		URL:           f.URL,
		QualityLabel:  f.QualityLabel,
	}
}

// splitMimeType turns `audio/webm; codecs="opus"` into ("webm", "opus").
func splitMimeType(mimeType string) (container, codec string) {
	mediaType, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "", ""
	}
	if idx := strings.IndexByte(mediaType, '/'); idx >= 0 {
		container = mediaType[idx+1:]
	}
	return container, params["codecs"]
}
