package imap

import (
	"testing"
	"time"

	"github.com/emersion/go-imap"

	"programcheck/internal/config"
)

func TestFormatAddresses(t *testing.T) {
	got := formatAddresses([]*imap.Address{
		{PersonalName: "Continuidad", MailboxName: "cont", HostName: "example.test"},
		nil,
		{MailboxName: "ops", HostName: "example.test"},
	})
	if got != "Continuidad <cont@example.test>, ops@example.test" {
		t.Fatalf("got %q", got)
	}
	if formatAddresses(nil) != "" {
		t.Fatal("expected empty")
	}
}

func TestToFetched(t *testing.T) {
	msg := &imap.Message{
		Uid:          42,
		InternalDate: time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC),
		Envelope:     &imap.Envelope{Subject: "Grilla"},
	}
	got := toFetched(msg, []byte("raw"))
	if got.MessageID != "imap-42" || got.Subject != "Grilla" || got.ReceivedAt != "2026-02-09T08:00:00Z" {
		t.Fatalf("got %+v", got)
	}
}

func TestNewConnectorRequiresHost(t *testing.T) {
	if _, err := NewConnector(config.Config{IMAPUser: "u", IMAPPassword: "p"}); err == nil {
		t.Fatal("expected error")
	}
}
