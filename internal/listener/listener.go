package listener

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"programcheck/internal"
	"programcheck/internal/config"
	"programcheck/internal/connectors"
	"programcheck/internal/pipeline"
	"programcheck/internal/storage"
	"programcheck/internal/util"
)

type Service struct {
	db      *storage.DB
	cfg     config.Config
	connect func(config.Config, string) (connectors.MailConnector, error)
}

type CycleResult struct {
	Fetched   int
	Stored    int
	Processed int
	Exported  int
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg, connect: connectors.New}
}

// Run polls the mailbox until ctx is cancelled. A failed cycle is logged and
// retried on the next tick.
func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.MailListenerIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunCycle(ctx); err != nil && ctx.Err() == nil {
			util.Log.WithError(err).Error("listener cycle failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Service) RunCycle(ctx context.Context) (CycleResult, error) {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	mailConnector, err := s.connect(s.cfg, provider)
	if err != nil {
		return CycleResult{}, err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(ctx, s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return CycleResult{}, err
	}
	res := CycleResult{Fetched: fetchResult.Fetched, Stored: fetchResult.Stored}

	processor := pipeline.NewProcessingService(s.db, s.cfg)
	res.Processed, _, err = processor.ProcessPending(s.cfg.MailListenerProcessBatch, provider)
	if err != nil {
		return res, err
	}

	if s.cfg.MailListenerAutoExport {
		if res.Exported, err = s.exportProcessed(ctx, provider); err != nil {
			return res, err
		}
	}

	util.Log.WithFields(logrus.Fields{
		"provider":  provider,
		"fetched":   res.Fetched,
		"stored":    res.Stored,
		"processed": res.Processed,
		"exported":  res.Exported,
	}).Info("listener cycle done")
	return res, nil
}

// exportProcessed writes the latest run of each processed email as XLSX and
// JSON, then marks the email exported.
func (s *Service) exportProcessed(ctx context.Context, provider string) (int, error) {
	emails, err := s.db.ListEmailsByStatus("processed", 200)
	if err != nil {
		return 0, err
	}

	dir := filepath.Join(s.cfg.OutputDir, "listener")
	exported := 0
	for _, email := range emails {
		if err := ctx.Err(); err != nil {
			return exported, err
		}
		if email.Provider != provider {
			continue
		}
		run, err := s.db.LatestRunForEmail(email.ID)
		if err != nil {
			return exported, err
		}
		if run == nil {
			continue
		}
		rows, err := s.db.GetExportRows(run.ID)
		if err != nil {
			return exported, err
		}
		if len(rows) == 0 {
			continue
		}

		base := fmt.Sprintf("%d_%s", email.ID, sanitizeMessageID(email.MessageID))
		if err := pipeline.ExportRowsToXLSX(rows, filepath.Join(dir, base+".xlsx")); err != nil {
			return exported, err
		}
		days, err := s.db.GetRunDays(run.ID)
		if err != nil {
			return exported, err
		}
		if err := writeJSONFile(filepath.Join(dir, base+".json"), days); err != nil {
			return exported, err
		}
		if err := s.db.UpdateEmailStatus(email.ID, "exported"); err != nil {
			return exported, err
		}
		exported++
	}
	return exported, nil
}

func writeJSONFile(path string, days []internal.DayData) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return pipeline.WriteJSON(f, days)
}

func sanitizeMessageID(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_", "@", "_")
	out := strings.Trim(repl.Replace(input), "_")
	if len(out) > 120 {
		out = out[:120]
	}
	return out
}
