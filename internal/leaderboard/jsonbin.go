package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultJSONBinURL is the JSONBin v3 API root.
const DefaultJSONBinURL = "https://api.jsonbin.io/v3"

// JSONBinStore keeps the score document in a JSONBin bin.
type JSONBinStore struct {
	BaseURL string
	BinID   string
	APIKey  string
	Client  *http.Client
}

// NewJSONBinStore creates a store for bin using the master key apiKey.
// An empty baseURL uses DefaultJSONBinURL.
func NewJSONBinStore(baseURL, binID, apiKey string) *JSONBinStore {
	if baseURL == "" {
		baseURL = DefaultJSONBinURL
	}
	return &JSONBinStore{
		BaseURL: strings.TrimRight(baseURL, "/"),
		BinID:   binID,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *JSONBinStore) configured() bool {
	return s.BinID != "" && s.APIKey != ""
}

// binRecord is the "record" of a bin: either a bare array or {"scores": [...]}.
// Rows that are not valid entries are skipped so one bad row cannot hide the board.
type binRecord []Entry

func (r *binRecord) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Scores json.RawMessage `json:"scores"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		data = bytes.TrimSpace(wrapped.Scores)
	}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		var e Entry
		if err := json.Unmarshal(row, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	*r = entries
	return nil
}

// Load fetches the latest version of the bin.
func (s *JSONBinStore) Load(ctx context.Context) ([]Entry, error) {
	if !s.configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/b/"+s.BinID+"/latest", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Master-Key", s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsonbin load: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("jsonbin load: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var doc struct {
		Record binRecord `json:"record"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("jsonbin load: decode: %w", err)
	}
	return []Entry(doc.Record), nil
}

// Save replaces the bin's content with entries.
func (s *JSONBinStore) Save(ctx context.Context, entries []Entry) error {
	if !s.configured() {
		return ErrNotConfigured
	}
	if entries == nil {
		entries = []Entry{}
	}

	body, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.BaseURL+"/b/"+s.BinID, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Master-Key", s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("jsonbin save: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("jsonbin save: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
