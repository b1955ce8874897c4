// Package notify delivers one-time login codes to phones.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// WebhookSender posts the code to an SMS gateway webhook.
type WebhookSender struct {
	url    string
	apiKey string
	client *http.Client
}

func NewWebhookSender(url, apiKey string) *WebhookSender {
	return &WebhookSender{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type smsRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (s *WebhookSender) SendCode(ctx context.Context, phone, code string) error {
	body, err := json.Marshal(smsRequest{
		To:   phone,
		Body: fmt.Sprintf("Your ZenMindful code is %s. It expires in a few minutes.", code),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway error: status=%d body=%s", resp.StatusCode, msg)
	}
	return nil
}

// LogSender writes the code to the log. For development without a gateway.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendCode(_ context.Context, phone, code string) error {
	s.log.Info("login code issued", "phone", phone, "code", code)
	return nil
}
