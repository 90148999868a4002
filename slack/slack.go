// Package slack posts finished grocery lists to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultUsername  = "Meal Companion"
	DefaultIconEmoji = ":shopping_trolley:"

	maxErrorBody = 512
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	webhookURL string
	httpClient doer
	username   string
	iconEmoji  string
}

type webhookMessage struct {
	Channel   string `json:"channel,omitempty"`
	Text      string `json:"text"`
	Username  string `json:"username,omitempty"`
	IconEmoji string `json:"icon_emoji,omitempty"`
}

func NewClient(webhookURL string, httpClient doer) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		webhookURL: webhookURL,
		httpClient: httpClient,
		username:   DefaultUsername,
		iconEmoji:  DefaultIconEmoji,
	}
}

// PostMessage sends message to channel. An empty channel posts to the
// webhook's default channel.
func (c *Client) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(webhookMessage{
		Channel:   channel,
		Text:      message,
		Username:  c.username,
		IconEmoji: c.iconEmoji,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if reason := strings.TrimSpace(string(body)); reason != "" {
			return fmt.Errorf("failed to post message: %s: %s", resp.Status, reason)
		}
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}
