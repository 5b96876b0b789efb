// Package wallet posts prize claims to the reward backend.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/umutdv/riddlebot/core/logger"
	"github.com/umutdv/riddlebot/internal/riddle"
)

const defaultTimeout = 10 * time.Second

// Client registers winner wallet addresses against the reward backend.
// It implements riddle.Registrar.
type Client struct {
	url    string
	client *http.Client
}

// NewClient builds a wallet registrar for the given backend. A nil http
// client gets a default with a conservative timeout.
func NewClient(baseURL, path string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		url:    strings.TrimRight(baseURL, "/") + path,
		client: client,
	}
}

// Register submits the claim as JSON and treats any 2xx response as success.
func (c *Client) Register(ctx context.Context, claim riddle.Claim) error {
	payload, err := json.Marshal(claim)
	if err != nil {
		return fmt.Errorf("encode claim: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build claim request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post claim: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("wallet backend status %d: %s", resp.StatusCode, errorDetail(body))
	}

	logger.Debug(ctx, "wallet", "wallet.register",
		slog.String("status", "ok"),
		slog.String("username", claim.Username),
		slog.Int64("riddle_id", claim.RiddleID),
	)
	return nil
}

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
