package connectors

import (
	"context"

	"github.com/sirupsen/logrus"

	"programcheck/internal/storage"
	"programcheck/internal/util"
)

type FetchService struct {
	db        *storage.DB
	connector MailConnector
	store     *MailStoreService
}

type FetchResult struct {
	Fetched int
	Stored  int
	Known   int
}

func NewFetchService(db *storage.DB, rawMailDir string, connector MailConnector) *FetchService {
	return &FetchService{
		db:        db,
		connector: connector,
		store:     NewMailStoreService(db, rawMailDir),
	}
}

// FetchAndStore pulls up to max messages from label. Messages already stored
// with identical content are counted as known and keep their status.
func (s *FetchService) FetchAndStore(ctx context.Context, label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(ctx, label, max)
	if err != nil {
		return FetchResult{}, err
	}

	res := FetchResult{Fetched: len(messages)}
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		_, created, err := s.store.Store(msg)
		if err != nil {
			return res, err
		}
		if created {
			res.Stored++
		} else {
			res.Known++
		}
	}

	util.Log.WithFields(logrus.Fields{"label": label, "fetched": res.Fetched, "stored": res.Stored, "known": res.Known}).Debug("mailbox fetched")
	return res, nil
}
