package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"userbase/internal/service"
)

var _ service.PushSender = (*FCMSender)(nil)

// FCMSender delivers push notifications through Firebase Cloud Messaging.
// With an empty server key it logs instead of calling out.
type FCMSender struct {
	ServerKey string
	BaseURL   string
	Client    *http.Client
}

func NewFCMSender(serverKey string) *FCMSender {
	return &FCMSender{
		ServerKey: serverKey,
		BaseURL:   "https://fcm.googleapis.com/fcm/send",
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type fcmMessage struct {
	RegistrationIDs []string        `json:"registration_ids"`
	Notification    fcmNotification `json:"notification"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

func (f *FCMSender) Send(ctx context.Context, tokens []string, title, body string) error {
	if len(tokens) == 0 {
		return nil
	}
	if f.ServerKey == "" {
		slog.Info("push dry-run", "tokens", len(tokens), "title", title, "body", body)
		return nil
	}

	payload, err := json.Marshal(fcmMessage{
		RegistrationIDs: tokens,
		Notification:    fcmNotification{Title: title, Body: body},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+f.ServerKey)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	var result fcmResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("parse push response: %w", err)
	}
	if result.Failure > 0 {
		slog.Warn("push partially delivered", "success", result.Success, "failure", result.Failure)
	}
	return nil
}
