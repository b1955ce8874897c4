// Package generator talks to an OpenAI-compatible chat completions API.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zenmindful/internal/domain"
)

type Client struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		url:    buildURL(baseURL),
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: timeout},
	}
}

func buildURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}
	return baseURL + "/chat/completions"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends one system and one user message and returns the first
// choice's text. Every failure wraps domain.ErrContentUnavailable.
func (c *Client) Generate(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: no api key configured", domain.ErrContentUnavailable)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrContentUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrContentUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrContentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status=%d body=%s", domain.ErrContentUnavailable, resp.StatusCode, msg)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode: %v", domain.ErrContentUnavailable, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrContentUnavailable)
	}

	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrContentUnavailable)
	}
	return text, nil
}

// GenerateList asks for a JSON array of strings and tolerates the array
// being wrapped in prose or a markdown fence.
func (c *Client) GenerateList(ctx context.Context, system, prompt string, maxTokens int) ([]string, error) {
	text, err := c.Generate(ctx, system, prompt, maxTokens)
	if err != nil {
		return nil, err
	}

	raw := ExtractJSONArray(text)
	if raw == "" {
		return nil, fmt.Errorf("%w: no list in response", domain.ErrContentUnavailable)
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrContentUnavailable, err)
	}

	out := items[:0]
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty list", domain.ErrContentUnavailable)
	}
	return out, nil
}
