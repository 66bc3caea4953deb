package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultPrompt = "Rewrite the following timesheet work description to be professional and concise. Return only the rewritten text."

// Client calls the text enhancement API. Enhancement is best effort: any
// failure, timeout or empty result falls back to the original text so
// the grid never loses what the contractor typed.
type Client struct {
	apiURL  string
	apiKey  string
	timeout time.Duration
	logger  *slog.Logger
}

type Config struct {
	APIURL  string
	APIKey  string
	Timeout time.Duration
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiURL:  config.APIURL,
		apiKey:  config.APIKey,
		timeout: timeout,
		logger:  logger,
	}
}

// EnhanceText returns a polished version of the description, or the
// original text unchanged when the API is unconfigured or fails.
func (c *Client) EnhanceText(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if c.apiURL == "" {
		c.logger.Debug("enhance API not configured, returning original text")
		return text
	}

	enhanced, err := c.callAPI(ctx, text)
	if err != nil {
		c.logger.Warn("text enhancement failed, falling back to original", "error", err)
		return text
	}
	if strings.TrimSpace(enhanced) == "" {
		c.logger.Warn("enhance API returned empty text, falling back to original")
		return text
	}

	return strings.TrimSpace(enhanced)
}

func (c *Client) callAPI(ctx context.Context, text string) (string, error) {
	payload := map[string]interface{}{
		"prompt": defaultPrompt,
		"text":   text,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal enhance request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, "POST", c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	client := &http.Client{Timeout: c.timeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("enhance API returned status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return apiResponse.Text, nil
}
