// Package notify sends formatted messages through the Telegram Bot
// API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Client posts messages to a fixed chat via a bot token. The base URL
// is configurable so tests can point at a stub server.
type Client struct {
	hc      *http.Client
	baseURL string
	token   string
	chatID  string
}

// NewClient constructs a Client. An empty token or chat ID leaves the
// client unconfigured; sends then fail fast and callers fall back to
// the manual-copy path.
func NewClient(baseURL, token, chatID string) *Client {
	return &Client{
		hc:      &http.Client{},
		baseURL: baseURL,
		token:   token,
		chatID:  chatID,
	}
}

// Configured reports whether both credentials are present.
func (c *Client) Configured() bool {
	return c.token != "" && c.chatID != ""
}

// MessageURL returns a prefilled sendMessage GET URL for manually
// dispatching text, or "" when unconfigured.
func (c *Client) MessageURL(text string) string {
	if !c.Configured() {
		return ""
	}
	q := url.Values{}
	q.Set("chat_id", c.chatID)
	q.Set("text", text)
	q.Set("parse_mode", "Markdown")
	return fmt.Sprintf("%s/bot%s/sendMessage?%s", c.baseURL, c.token, q.Encode())
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage posts text to the configured chat with Markdown parse
// mode. API-level failures carry the provider's description when one
// is present. There are no retries.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if !c.Configured() {
		return fmt.Errorf("telegram integration is not configured")
	}
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()
	var sr sendMessageResponse
	_ = json.NewDecoder(resp.Body).Decode(&sr)
	if resp.StatusCode != http.StatusOK || !sr.OK {
		desc := sr.Description
		if desc == "" {
			desc = "unknown error"
		}
		return fmt.Errorf("telegram api error: %s - %s", resp.Status, desc)
	}
	return nil
}
