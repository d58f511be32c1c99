package model

// BatchSuccess records one successfully prepared item of a batch request.
// No transcode is triggered at batch time; the item is named and queued only.
type BatchSuccess struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Filename     string `json:"filename"`
	DownloadPath string `json:"downloadPath"`
	Status       string `json:"status"`
}

// BatchFailure records one failed item of a batch request.
type BatchFailure struct {
	VideoID string `json:"videoId"`
	Error   string `json:"error"`
}
