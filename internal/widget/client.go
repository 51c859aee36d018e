package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/mmopane/sitechat/internal/bot"
)

// HTTPClient talks to the server's classification endpoint. It keeps a
// cookie jar so the server can key conversation memory off the
// conversation cookie it issues.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

// NewHTTPClient creates a client for the server at baseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	jar, _ := cookiejar.New(nil)
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
	}
}

// Send posts one message and decodes the reply. Any transport or decode
// failure is returned as an error for the conversation to resolve into
// its client-side fallback.
func (c *HTTPClient) Send(ctx context.Context, message string) (bot.Reply, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return bot.Reply{}, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/bot", bytes.NewReader(body))
	if err != nil {
		return bot.Reply{}, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return bot.Reply{}, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return bot.Reply{}, fmt.Errorf("chat request: unexpected status %d", resp.StatusCode)
	}

	var reply bot.Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return bot.Reply{}, fmt.Errorf("decode chat reply: %w", err)
	}
	return reply, nil
}
