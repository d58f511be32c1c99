package model

// FormatKind classifies a media format by the tracks it carries.
type FormatKind string

const (
	FormatAudioOnly FormatKind = "audio-only"
	FormatVideoOnly FormatKind = "video-only"
	FormatMuxed     FormatKind = "muxed"
)

// Thumbnail is a single preview image for a video.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// MediaFormat describes one streamable source format of a video.
// Bitrate is kept as reported upstream; it may be empty or non-numeric,
// in which case selection treats it as zero.
type MediaFormat struct {
	Kind          FormatKind `json:"kind"`
	Container     string     `json:"container"`
	Codec         string     `json:"codec"`
	Bitrate       string     `json:"bitrate"`
	SampleRate    string     `json:"sampleRate,omitempty"`
	Channels      int        `json:"channels,omitempty"`
	ContentLength int64      `json:"contentLength,omitempty"` // 0 when the source does not report it
	URL           string     `json:"url"`
	QualityLabel  string     `json:"qualityLabel,omitempty"`
}

// VideoMetadata is the fully resolved description of a remote video.
// Immutable once resolved; cache entries hold it by pointer and never
// mutate it in place.
type VideoMetadata struct {
	ID          string        `json:"videoId"`
	Title       string        `json:"title"`
	Author      string        `json:"author"`
	Duration    int           `json:"duration"` // seconds
	ViewCount   int64         `json:"viewCount"`
	Description string        `json:"description,omitempty"`
	UploadDate  string        `json:"uploadDate,omitempty"`
	Category    string        `json:"category,omitempty"`
	Thumbnails  []Thumbnail   `json:"thumbnails,omitempty"`
	Formats     []MediaFormat `json:"formats"`
}
