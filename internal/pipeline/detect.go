package pipeline

import (
	"strings"

	"programcheck/internal/util"
)

const DefaultDetectThreshold = 0.45

type DetectResult struct {
	IsSchedule bool
	Score      float64
	Reason     string
}

var detectKeywords = []string{"programacion", "grilla", "parrilla", "schedule", "pauta", "emision"}

// DetectProgramList scores how much a message looks like a pasted schedule.
func DetectProgramList(subject, text string, threshold float64) DetectResult {
	subject = util.FoldLower(subject)
	folded := util.FoldLower(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.3
		}
		if strings.Contains(folded, kw) {
			score += 0.1
		}
	}

	headers, codes := 0, 0
	for _, line := range splitLines(text) {
		if IsDayHeader(line) {
			headers++
			continue
		}
		if util.IsCanonicalCode(util.Compact(strings.ToUpper(line))) {
			codes++
		}
	}

	if headers >= 2 {
		score += 0.3
	} else if headers == 1 {
		score += 0.15
	}
	if codes >= 3 {
		score += 0.4
	} else if codes >= 1 {
		score += 0.2
	}
	if headers == 0 {
		// Nothing would survive parsing without a day header.
		score *= 0.5
	}
	if score > 1 {
		score = 1
	}

	if threshold <= 0 {
		threshold = DefaultDetectThreshold
	}
	isSchedule := score >= threshold
	reason := "rules_negative"
	if isSchedule {
		reason = "rules_positive"
	}

	return DetectResult{IsSchedule: isSchedule, Score: score, Reason: reason}
}
