package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/umutdv/riddlebot/internal/riddle"
)

const defaultHTTPTimeout = 10 * time.Second

// HTTP fetches riddles from the prize backend's generateRiddle endpoint.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP builds a remote riddle source. A nil client gets a default with a
// conservative timeout; per-call deadlines still come from the context.
func NewHTTP(baseURL, path string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTP{
		url:    strings.TrimRight(baseURL, "/") + path,
		client: client,
	}
}

// Fetch requests a fresh riddle from the backend.
func (h *HTTP) Fetch(ctx context.Context) (riddle.Riddle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return riddle.Riddle{}, fmt.Errorf("build riddle request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return riddle.Riddle{}, fmt.Errorf("fetch riddle: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return riddle.Riddle{}, fmt.Errorf("read riddle response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return riddle.Riddle{}, fmt.Errorf("riddle backend status %d: %s", resp.StatusCode, errorDetail(body))
	}

	var r riddle.Riddle
	if err := json.Unmarshal(body, &r); err != nil {
		return riddle.Riddle{}, fmt.Errorf("decode riddle response: %w", err)
	}
	return r, nil
}

// errorDetail extracts the backend's {"error": ...} message when present,
// otherwise returns a trimmed body snippet.
func errorDetail(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
