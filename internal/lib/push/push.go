// Package push sends lock-screen notifications through the Expo push API.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Message is a single notification to one Expo push token.
type Message struct {
	To    string         `json:"to"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

type expoRequest struct {
	Message
	Sound               string `json:"sound"`
	Priority            string `json:"priority"`
	ChannelID           string `json:"channelId"`
	DisplayInForeground bool   `json:"_displayInForeground"`
}

// Client posts messages to the Expo endpoint.
type Client struct {
	http        *http.Client
	url         string
	accessToken string
	logger      *zerolog.Logger
}

// NewClient builds a client for url. accessToken may be empty.
func NewClient(url, accessToken string, logger *zerolog.Logger) *Client {
	return &Client{
		http:        &http.Client{Timeout: 15 * time.Second},
		url:         url,
		accessToken: accessToken,
		logger:      logger,
	}
}

// Send delivers msg. A non-2xx answer is returned as an error.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("push message has no recipient token")
	}
	if msg.Data == nil {
		msg.Data = map[string]any{}
	}

	body, err := json.Marshal(expoRequest{
		Message:             msg,
		Sound:               "default",
		Priority:            "high",
		ChannelID:           "default",
		DisplayInForeground: true,
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode push message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build push request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to call push service")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("push service answered %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	c.logger.Debug().Str("to", msg.To).Msg("push notification accepted")
	return nil
}
