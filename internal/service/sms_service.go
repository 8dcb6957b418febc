package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"opd-booking/config"

	"github.com/sirupsen/logrus"
)

// SMSSender delivers booking notifications. Implementations must treat
// delivery as best effort; the booking flow never fails on an SMS error.
type SMSSender interface {
	Send(ctx context.Context, phone string, message string) error
}

// HTTPSMSSender posts messages to a JSON SMS gateway.
type HTTPSMSSender struct {
	apiURL string
	apiKey string
	sender string
	client *http.Client
	log    *logrus.Logger
}

type smsSendRequest struct {
	Recipient  string `json:"recipient"`
	SenderName string `json:"sender_name"`
	Message    string `json:"message"`
}

type smsSendResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Msg    string `json:"msg"`
}

func NewHTTPSMSSender(cfg config.SMSConfig, log *logrus.Logger) *HTTPSMSSender {
	return &HTTPSMSSender{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		sender: cfg.Sender,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

func (s *HTTPSMSSender) Send(ctx context.Context, phone string, message string) error {
	payload := smsSendRequest{
		Recipient:  NormalizePhone(phone),
		SenderName: s.sender,
		Message:    message,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var response smsSendResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("parse SMS gateway response: %w", err)
	}
	if response.Code != 0 {
		return fmt.Errorf("SMS gateway rejected message: %s", response.Msg)
	}

	s.log.Debugf("SMS sent to %s", payload.Recipient)
	return nil
}

// NormalizePhone converts a raw phone field to E.164. Bare 10-digit numbers
// are assumed to be Indian mobiles.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) == 10 {
		return "+91" + d
	}
	if strings.HasPrefix(phone, "+") {
		return "+" + d
	}
	if d == "" {
		return phone
	}
	return "+" + d
}
