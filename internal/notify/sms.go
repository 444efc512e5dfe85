package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"userbase/internal/service"
)

var _ service.SMSSender = (*SMSGateway)(nil)

// SMSGateway posts messages to an HTTP SMS provider. With an empty or
// "dry-run" API key it logs instead of calling out.
type SMSGateway struct {
	APIKey  string
	Sender  string
	BaseURL string
	Client  *http.Client
}

type smsGatewayResponse struct {
	Code int `json:"code"`
	Data struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

func NewSMSGateway(apiKey, sender, baseURL string) *SMSGateway {
	return &SMSGateway{
		APIKey:  apiKey,
		Sender:  sender,
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *SMSGateway) Send(ctx context.Context, to, body string) error {
	if g.APIKey == "" || g.APIKey == "dry-run" {
		slog.Info("sms dry-run", "to", to, "body", body)
		return nil
	}

	form := url.Values{
		"apiKey":    {g.APIKey},
		"recipient": {to},
		"text":      {body},
	}
	if g.Sender != "" {
		form.Set("from", g.Sender)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms request: %w", err)
	}
	defer resp.Body.Close()

	var result smsGatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("parse sms response: %w", err)
	}
	if result.Code != 0 {
		return fmt.Errorf("sms gateway returned error code: %d", result.Code)
	}
	return nil
}
