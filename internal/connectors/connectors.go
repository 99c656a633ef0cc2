package connectors

import (
	"context"
	"fmt"

	"programcheck/internal"
	"programcheck/internal/config"
	"programcheck/internal/connectors/gmail"
	"programcheck/internal/connectors/imap"
)

type MailConnector interface {
	FetchInbox(ctx context.Context, label string, max int) ([]internal.FetchedMailMessage, error)
}

// New builds the connector for provider from cfg.
func New(cfg config.Config, provider string) (MailConnector, error) {
	switch provider {
	case "gmail":
		return gmail.NewConnector(cfg)
	case "imap":
		return imap.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", provider)
	}
}
