// Package leaderboard persists high scores and serves them over HTTP.
package leaderboard

import (
	"encoding/json"
	"errors"
	"math"
	"slices"
	"strings"
)

// DefaultTop is the number of entries shown on the leaderboard.
const DefaultTop = 10

// MaxStored is the number of entries kept in the backing document.
const MaxStored = 100

var (
	// ErrNameRequired is returned when a submission has an empty name.
	ErrNameRequired = errors.New("name is required")
	// ErrInvalidScore is returned when a submission's score is not a number.
	ErrInvalidScore = errors.New("valid score is required")
	// ErrNotConfigured is returned by a store without credentials or a location.
	ErrNotConfigured = errors.New("score store not configured")
)

// Entry is one leaderboard row.
type Entry struct {
	Name  string `json:"name" msgpack:"name"`
	Score int    `json:"score" msgpack:"score"`
	Date  int64  `json:"date" msgpack:"date"` // Unix milliseconds
}

// UnmarshalJSON accepts any JSON number for score and date and rounds it to a
// whole value. Scores outside the 32-bit range are rejected.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
		Date  float64 `json:"date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	score := math.Round(raw.Score)
	if score > math.MaxInt32 || score < math.MinInt32 {
		return ErrInvalidScore
	}
	*e = Entry{Name: raw.Name, Score: int(score), Date: int64(math.Round(raw.Date))}
	return nil
}

// sortEntries orders entries by score, highest first. Ties keep their order.
func sortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Score - a.Score
	})
}

// top returns the n best entries as a new slice.
func top(entries []Entry, n int) []Entry {
	sorted := slices.Clone(entries)
	sortEntries(sorted)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []Entry{}
	}
	return sorted
}

// nameKey is the identity of a player: trimmed and case-insensitive.
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// mergePlayers collapses entries sharing a nameKey into the best one, keeping
// the position of the first. Reports whether anything was merged.
func mergePlayers(entries []Entry) ([]Entry, bool) {
	seen := make(map[string]int, len(entries))
	merged := make([]Entry, 0, len(entries))
	for _, e := range entries {
		key := nameKey(e.Name)
		i, ok := seen[key]
		if !ok {
			seen[key] = len(merged)
			merged = append(merged, e)
			continue
		}
		if e.Score > merged[i].Score {
			merged[i] = e
		}
	}
	return merged, len(merged) != len(entries)
}

// upsert records score for name, keeping only the best score per player.
// Returns the updated slice and whether anything changed.
func upsert(entries []Entry, name string, score int, now int64) ([]Entry, bool) {
	key := nameKey(name)
	for i := range entries {
		if nameKey(entries[i].Name) != key {
			continue
		}
		if score <= entries[i].Score {
			return entries, false
		}
		entries[i].Score = score
		entries[i].Date = now
		return entries, true
	}
	return append(entries, Entry{Name: strings.TrimSpace(name), Score: score, Date: now}), true
}
