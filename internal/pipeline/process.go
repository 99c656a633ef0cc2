package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"programcheck/internal"
	"programcheck/internal/config"
	"programcheck/internal/knowledge"
	"programcheck/internal/storage"
	"programcheck/internal/util"
)

type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
}

func NewProcessingService(db *storage.DB, cfg config.Config) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg}
}

type ProcessResult struct {
	EmailID  int
	RunID    int64
	Schedule bool
	Programs int
	Learned  []string
}

func (s *ProcessingService) options() Options {
	return Options{FlagUnknown: s.cfg.FlagUnknownCodes}
}

// ValidateText parses one schedule against the stored knowledge base and
// records the run.
func (s *ProcessingService) ValidateText(source internal.InputSource, text string, learn bool) (Result, int64, error) {
	start := time.Now()
	blob, err := s.db.GetKnowledgeBase()
	if err != nil {
		return Result{}, 0, err
	}
	res := Parse(text, blob, s.options())
	parseMs := float64(time.Since(start).Microseconds()) / 1000

	runID, err := s.db.InsertRun(storage.RunInput{
		TraceID: traceID(),
		Source:  string(source),
		Input:   text,
		Counts:  res.Stats,
		Timings: map[string]float64{"parseMs": parseMs, "totalMs": float64(time.Since(start).Milliseconds())},
		Days:    res.Days,
	})
	if err != nil {
		return Result{}, 0, err
	}
	if learn {
		if _, err := s.learn(blob, res.Days); err != nil {
			return Result{}, 0, err
		}
	}
	return res, runID, nil
}

func (s *ProcessingService) learn(blob string, days []internal.DayData) ([]string, error) {
	next, added := knowledge.Learn(blob, days)
	if len(added) == 0 {
		return added, nil
	}
	if err := s.db.SetKnowledgeBase(next); err != nil {
		return nil, err
	}
	util.Log.WithField("prefixes", added).Info("knowledge base learned new prefixes")
	return added, nil
}

func (s *ProcessingService) ProcessByProviderMessageID(provider, messageID string) (ProcessResult, error) {
	email, err := s.db.MustEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessEmail(email)
}

func (s *ProcessingService) ProcessPending(limit int, provider string) (int, int, error) {
	pending, err := s.db.ListEmailsByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processedEmails := 0
	processedPrograms := 0
	for _, email := range pending {
		if provider != "" && email.Provider != provider {
			continue
		}
		res, err := s.ProcessEmail(email)
		if err != nil {
			return processedEmails, processedPrograms, err
		}
		processedEmails++
		processedPrograms += res.Programs
	}
	return processedEmails, processedPrograms, nil
}

func (s *ProcessingService) ProcessEmail(email internal.EmailRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(email.RawRef)
	if err != nil {
		return ProcessResult{}, err
	}

	extraction, err := ExtractFromEmailRaw(raw)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("extract email %d: %w", email.ID, err)
	}
	extractMs := float64(time.Since(start).Microseconds()) / 1000

	subject := firstNonEmpty(extraction.Subject, email.Subject)
	detect := DetectProgramList(subject, extraction.Text, s.cfg.DetectThreshold)
	if err := s.db.ClearEmailRuns(email.ID); err != nil {
		return ProcessResult{}, err
	}

	log := util.Log.WithFields(logrus.Fields{"emailId": email.ID, "score": detect.Score})
	emailID := email.ID

	if !detect.IsSchedule {
		runID, err := s.db.InsertRun(storage.RunInput{
			TraceID: traceID(),
			EmailID: &emailID,
			Source:  string(internal.SourceEmail),
			Input:   extraction.Text,
			Counts:  map[string]any{"detected": false, "reason": detect.Reason},
			Timings: map[string]float64{"extractMs": extractMs, "totalMs": float64(time.Since(start).Milliseconds())},
			Days:    []internal.DayData{},
		})
		if err != nil {
			return ProcessResult{}, err
		}
		if err := s.db.UpdateEmailStatus(email.ID, "skipped"); err != nil {
			return ProcessResult{}, fmt.Errorf("mark email %d skipped: %w", email.ID, err)
		}
		log.WithField("reason", detect.Reason).Info("email skipped, not a program list")
		return ProcessResult{EmailID: email.ID, RunID: runID}, nil
	}

	blob, err := s.db.GetKnowledgeBase()
	if err != nil {
		return ProcessResult{}, err
	}
	parseStart := time.Now()
	res := Parse(extraction.Text, blob, s.options())
	parseMs := float64(time.Since(parseStart).Microseconds()) / 1000

	runID, err := s.db.InsertRun(storage.RunInput{
		TraceID: traceID(),
		EmailID: &emailID,
		Source:  string(internal.SourceEmail),
		Input:   extraction.Text,
		Counts:  res.Stats,
		Timings: map[string]float64{"extractMs": extractMs, "parseMs": parseMs, "totalMs": float64(time.Since(start).Milliseconds())},
		Days:    res.Days,
	})
	if err != nil {
		return ProcessResult{}, err
	}

	var learned []string
	if s.cfg.AutoLearn {
		if learned, err = s.learn(blob, res.Days); err != nil {
			return ProcessResult{}, err
		}
	}

	if err := s.db.UpdateEmailStatus(email.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}
	log.WithFields(logrus.Fields{"runId": runID, "days": len(res.Days), "programs": res.Stats.Programs}).Info("email processed")

	return ProcessResult{EmailID: email.ID, RunID: runID, Schedule: true, Programs: res.Stats.Programs, Learned: learned}, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
