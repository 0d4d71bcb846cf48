package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gramseva/grievance-service/internal/config"
)

// Mailer sends transactional email through a Brevo-compatible HTTP API.
type Mailer struct {
	baseURL    string
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
}

// NewMailer builds a client from config. A missing API key yields a client
// whose sends fail with an explicit error, which OTP issuance treats as a
// transport failure.
func NewMailer(cfg config.MailerConfig) *Mailer {
	return &Mailer{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		fromEmail:  cfg.FromEmail,
		fromName:   cfg.FromName,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type sendEmailRequest struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// SendEmail delivers a single message.
func (m *Mailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if m.apiKey == "" {
		return fmt.Errorf("mailer not configured, email to %s skipped", to)
	}

	payload, err := json.Marshal(sendEmailRequest{
		Sender:      map[string]string{"email": m.fromEmail, "name": m.fromName},
		To:          []map[string]string{{"email": to}},
		Subject:     subject,
		HTMLContent: body,
	})
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("api-key", m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("email API error: status %d", resp.StatusCode)
	}
	return nil
}
