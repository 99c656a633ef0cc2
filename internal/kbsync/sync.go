package kbsync

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"programcheck/internal/config"
	"programcheck/internal/knowledge"
	"programcheck/internal/storage"
	"programcheck/internal/util"
)

type SyncService struct {
	db     *storage.DB
	client *Client
}

func NewSyncService(db *storage.DB, cfg config.Config) *SyncService {
	return &SyncService{db: db, client: NewClient(cfg)}
}

// Pull replaces the local knowledge base with the remote one.
func (s *SyncService) Pull(ctx context.Context) (int, error) {
	entry, err := s.client.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("pull knowledge base: %w", err)
	}
	blob := knowledge.Normalize(entry.Value)
	if err := s.db.SetKnowledgeBase(blob); err != nil {
		return 0, err
	}
	if err := s.db.SetMetadata("kb.last_pull", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return 0, fmt.Errorf("record pull time: %w", err)
	}

	count := len(knowledge.Tokens(blob))
	util.Log.WithFields(logrus.Fields{"key": entry.Key, "tokens": count}).Info("knowledge base pulled")
	return count, nil
}

// Push writes the local knowledge base back to the remote store.
func (s *SyncService) Push(ctx context.Context) (int, error) {
	blob, err := s.db.GetKnowledgeBase()
	if err != nil {
		return 0, err
	}
	blob = knowledge.Normalize(blob)
	entry, err := s.client.Put(ctx, blob)
	if err != nil {
		return 0, fmt.Errorf("push knowledge base: %w", err)
	}
	if err := s.db.SetMetadata("kb.last_push", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return 0, fmt.Errorf("record push time: %w", err)
	}

	count := len(knowledge.Tokens(blob))
	util.Log.WithFields(logrus.Fields{"key": entry.Key, "tokens": count}).Info("knowledge base pushed")
	return count, nil
}
