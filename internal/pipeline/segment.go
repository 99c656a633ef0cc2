package pipeline

import (
	"strings"

	"programcheck/internal/util"
)

// Weekday names after accent folding, so "miércoles" and "miercoles" both hit.
var dayTokens = []string{"lunes", "martes", "miercoles", "jueves", "viernes", "sabado", "domingo"}

func IsDayHeader(line string) bool {
	folded := util.FoldLower(line)
	for _, token := range dayTokens {
		if strings.Contains(folded, token) {
			return true
		}
	}
	return false
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
