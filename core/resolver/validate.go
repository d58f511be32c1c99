package resolver

import "regexp"

// Video identifiers are exactly 11 characters from [A-Za-z0-9_-].
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ValidateID reports whether id is a syntactically valid video identifier.
// Every entry point must call this before touching the cache or the network.
func ValidateID(id string) bool {
	return videoIDPattern.MatchString(id)
}
