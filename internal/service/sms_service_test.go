package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"opd-booking/config"

	"github.com/sirupsen/logrus"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9876543210", "+919876543210"},
		{"98765 43210", "+919876543210"},
		{"+919876543210", "+919876543210"},
		{"+91 98765-43210", "+919876543210"},
		{"02212345678", "+02212345678"},
		{"", ""},
		{"n/a", "n/a"},
	}

	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Fatalf("NormalizePhone(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestHTTPSMSSenderSend(t *testing.T) {
	var gotAuth string
	var gotPayload smsSendRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotPayload)
		_ = json.NewEncoder(w).Encode(smsSendResponse{Code: 0, Status: "success"})
	}))
	defer server.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)

	sender := NewHTTPSMSSender(config.SMSConfig{
		APIURL: server.URL,
		APIKey: "key-123",
		Sender: "HOSPITAL",
	}, log)

	err := sender.Send(context.Background(), "9876543210", "your appointment is confirmed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer key-123" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
	if gotPayload.Recipient != "+919876543210" {
		t.Fatalf("expected normalized recipient, got %q", gotPayload.Recipient)
	}
	if gotPayload.SenderName != "HOSPITAL" {
		t.Fatalf("expected sender name, got %q", gotPayload.SenderName)
	}
}

func TestHTTPSMSSenderGatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(smsSendResponse{Code: 105, Status: "error", Msg: "insufficient credit"})
	}))
	defer server.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)

	sender := NewHTTPSMSSender(config.SMSConfig{APIURL: server.URL, APIKey: "key"}, log)

	err := sender.Send(context.Background(), "9876543210", "hello")
	if err == nil {
		t.Fatal("expected error for rejected message")
	}
}
