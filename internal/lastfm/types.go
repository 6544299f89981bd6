// Sonograph - Artist Similarity Graph Explorer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sonograph

package lastfm

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sonograph/internal/models"
)

// Wire types for the Last.fm 2.0 JSON API. Last.fm encodes numbers as strings
// and collapses one-element arrays into a bare object, so several fields use
// the flexible types below.

type errorResponse struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

type artistInfoResponse struct {
	Artist wireArtist `json:"artist"`
}

type wireArtist struct {
	Name  string      `json:"name"`
	URL   string      `json:"url"`
	Image []wireImage `json:"image"`
	Stats struct {
		Listeners flexInt `json:"listeners"`
		Playcount flexInt `json:"playcount"`
	} `json:"stats"`
	Tags wireTags `json:"tags"`
	Bio  struct {
		Summary string `json:"summary"`
	} `json:"bio"`
}

type wireImage struct {
	URL  string `json:"#text"`
	Size string `json:"size"`
}

type wireTag struct {
	Name string `json:"name"`
}

// wireTags is the "tags" wrapper. Artists without tags get "tags":"".
type wireTags struct {
	Tag flexList[wireTag] `json:"tag"`
}

func (t *wireTags) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*t = wireTags{}
		return nil
	}
	var v struct {
		Tag flexList[wireTag] `json:"tag"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	t.Tag = v.Tag
	return nil
}

type similarResponse struct {
	SimilarArtists struct {
		Artist flexList[wireSimilar] `json:"artist"`
	} `json:"similarartists"`
}

type wireSimilar struct {
	Name  string    `json:"name"`
	Match flexFloat `json:"match"`
	URL   string    `json:"url"`
}

type searchResponse struct {
	Results struct {
		ArtistMatches struct {
			Artist flexList[wireSearchMatch] `json:"artist"`
		} `json:"artistmatches"`
	} `json:"results"`
}

type wireSearchMatch struct {
	Name      string  `json:"name"`
	Listeners flexInt `json:"listeners"`
	URL       string  `json:"url"`
}

// flexInt accepts 123, "123" and "".
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// flexFloat accepts 0.5, "0.5" and "".
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// flexList accepts either a JSON array or a single object.
type flexList[T any] []T

func (l *flexList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	if data[0] != '{' {
		// "" stands in for an empty list.
		*l = nil
		return nil
	}
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*l = []T{item}
	return nil
}

var readMoreAnchor = regexp.MustCompile(`(?is)\s*<a href="https?://www\.last\.fm/[^"]*">\s*Read more on Last\.fm\s*</a>\.?\s*$`)

// cleanBio strips the trailing "Read more on Last.fm" link.
func cleanBio(summary string) string {
	return strings.TrimSpace(readMoreAnchor.ReplaceAllString(summary, ""))
}

var imageSizeRank = map[string]int{
	"small":      1,
	"medium":     2,
	"large":      3,
	"extralarge": 4,
	"mega":       5,
}

// largestImage picks the biggest non-empty image URL.
func largestImage(images []wireImage) string {
	best, bestRank := "", -1
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		if rank := imageSizeRank[img.Size]; rank > bestRank {
			best, bestRank = img.URL, rank
		}
	}
	return best
}

func (a *wireArtist) toRecord() *models.ArtistRecord {
	tags := make([]string, 0, len(a.Tags.Tag))
	for _, t := range a.Tags.Tag {
		if name := strings.TrimSpace(t.Name); name != "" {
			tags = append(tags, name)
		}
	}
	listeners, plays := int64(a.Stats.Listeners), int64(a.Stats.Playcount)
	if listeners < 0 {
		listeners = 0
	}
	if plays < 0 {
		plays = 0
	}
	return &models.ArtistRecord{
		Name:          a.Name,
		ListenerCount: listeners,
		PlayCount:     plays,
		Tags:          tags,
		ImageURL:      largestImage(a.Image),
		ProfileURL:    a.URL,
		Bio:           cleanBio(a.Bio.Summary),
	}
}

func toEntries(list []wireSimilar, limit int) []models.SimilarityEntry {
	entries := make([]models.SimilarityEntry, 0, min(len(list), limit))
	for _, s := range list {
		if len(entries) == limit {
			break
		}
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		score := float64(s.Match)
		switch {
		case score < 0:
			score = 0
		case score > 1:
			score = 1
		}
		entries = append(entries, models.SimilarityEntry{TargetName: s.Name, Score: score})
	}
	return entries
}
