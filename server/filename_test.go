package server

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"punctuation stripped and runs collapsed", "Artist: Song (Live) #1!", "artist_song_live_1"},
		{"hyphen runs collapse to underscore", "some -- track", "some_track"},
		{"mixed whitespace", "a\tb  c", "a_b_c"},
		{"already clean", "plain_title", "plain_title"},
		{"unicode stripped", "日本語タイトル mix", "mix"},
		{"empty after stripping", "!!!???", "audio"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeFilename(tc.title); got != tc.want {
				t.Fatalf("sanitizeFilename(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}

func TestSanitizeFilename_TruncatesAt100(t *testing.T) {
	long := strings.Repeat("a", 250)
	got := sanitizeFilename(long)
	if len(got) != 100 {
		t.Fatalf("len = %d, want 100", len(got))
	}
}
