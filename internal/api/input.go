// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package api

import (
	"fmt"
	"net/url"
	"strings"
)

const musicPathMarker = "/music/"

// ParseArtistInput accepts a bare artist name or a profile URL such as
// https://www.last.fm/music/Sigur+R%C3%B3s/+similar and returns the artist name.
func ParseArtistInput(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: artist name is empty", ErrInvalidInput)
	}

	idx := strings.Index(strings.ToLower(input), musicPathMarker)
	if idx < 0 {
		lower := strings.ToLower(input)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			return "", fmt.Errorf("%w: URL is not an artist profile link", ErrInvalidInput)
		}
		return input, nil
	}

	segment := input[idx+len(musicPathMarker):]
	if end := strings.IndexAny(segment, "/?#"); end >= 0 {
		segment = segment[:end]
	}
	name, err := url.PathUnescape(strings.ReplaceAll(segment, "+", " "))
	if err != nil {
		return "", fmt.Errorf("%w: bad escape in profile URL: %v", ErrInvalidInput, err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: profile URL has no artist name", ErrInvalidInput)
	}
	return name, nil
}
