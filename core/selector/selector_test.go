package selector

import (
	"errors"
	"fmt"
	"testing"

	"tubemp3/model"
)

func audioFormat(bitrate, url string) model.MediaFormat {
	return model.MediaFormat{Kind: model.FormatAudioOnly, Bitrate: bitrate, URL: url}
}

func TestBestAudio_StableMaxBitrate(t *testing.T) {
	formats := []model.MediaFormat{
		audioFormat("64", "u64"),
		audioFormat("160", "u160-first"),
		audioFormat("128", "u128"),
		audioFormat("160", "u160-second"),
	}

	got, err := BestAudio(formats)
	if err != nil {
		t.Fatalf("BestAudio() error = %v", err)
	}
	if got.URL != "u160-first" {
		t.Fatalf("BestAudio() selected %s, want first-seen 160 (u160-first)", got.URL)
	}
}

func TestBestAudio_NonNumericBitrateTreatedAsZero(t *testing.T) {
	formats := []model.MediaFormat{
		audioFormat("garbage", "u-garbage"),
		audioFormat("", "u-empty"),
		audioFormat("96", "u96"),
	}

	got, err := BestAudio(formats)
	if err != nil {
		t.Fatalf("BestAudio() error = %v", err)
	}
	if got.URL != "u96" {
		t.Fatalf("BestAudio() selected %s, want u96", got.URL)
	}
}

func TestBestAudio_AllNonNumericPicksFirst(t *testing.T) {
	formats := []model.MediaFormat{
		audioFormat("n/a", "u-first"),
		audioFormat("", "u-second"),
	}

	got, err := BestAudio(formats)
	if err != nil {
		t.Fatalf("BestAudio() error = %v", err)
	}
	if got.URL != "u-first" {
		t.Fatalf("BestAudio() selected %s, want u-first", got.URL)
	}
}

func TestBestAudio_IgnoresNonAudioKinds(t *testing.T) {
	formats := []model.MediaFormat{
		{Kind: model.FormatMuxed, Bitrate: "999", URL: "u-muxed"},
		{Kind: model.FormatVideoOnly, Bitrate: "999", URL: "u-video"},
		audioFormat("64", "u64"),
	}

	got, err := BestAudio(formats)
	if err != nil {
		t.Fatalf("BestAudio() error = %v", err)
	}
	if got.URL != "u64" {
		t.Fatalf("BestAudio() selected %s, want u64", got.URL)
	}
}

func TestBestAudio_NoAudioFormats(t *testing.T) {
	formats := []model.MediaFormat{
		{Kind: model.FormatVideoOnly, Bitrate: "2500"},
	}

	_, err := BestAudio(formats)
	if !errors.Is(err, ErrNoAudioFormats) {
		t.Fatalf("BestAudio() error = %v, want ErrNoAudioFormats", err)
	}
}

func TestVideoOnly_CapsAtTen(t *testing.T) {
	var formats []model.MediaFormat
	for i := 0; i < 15; i++ {
		formats = append(formats, model.MediaFormat{
			Kind: model.FormatVideoOnly,
			URL:  fmt.Sprintf("v%d", i),
		})
	}

	got := VideoOnly(formats)
	if len(got) != 10 {
		t.Fatalf("VideoOnly() returned %d formats, want 10", len(got))
	}
	if got[0].URL != "v0" || got[9].URL != "v9" {
		t.Fatalf("VideoOnly() reordered formats: first=%s last=%s", got[0].URL, got[9].URL)
	}
}

func TestAudioOnly_PreservesOrder(t *testing.T) {
	formats := []model.MediaFormat{
		audioFormat("64", "a0"),
		{Kind: model.FormatMuxed, URL: "m0"},
		audioFormat("128", "a1"),
	}

	got := AudioOnly(formats)
	if len(got) != 2 {
		t.Fatalf("AudioOnly() returned %d formats, want 2", len(got))
	}
	if got[0].URL != "a0" || got[1].URL != "a1" {
		t.Fatalf("AudioOnly() order wrong: %s, %s", got[0].URL, got[1].URL)
	}
}
