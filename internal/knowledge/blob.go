package knowledge

import (
	"regexp"
	"strings"

	"programcheck/internal"
	"programcheck/internal/util"
)

var (
	reSeparators = regexp.MustCompile(`[\n,]+`)
	reToken      = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// Tokens splits a stored blob on newlines and commas, uppercases and trims
// each entry and keeps only [A-Z0-9]+ tokens, first occurrence wins.
func Tokens(blob string) []string {
	blob = strings.ReplaceAll(blob, "\r", "")
	parts := reSeparators.Split(blob, -1)
	seen := map[string]struct{}{}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		token := strings.TrimSpace(strings.ToUpper(p))
		if !reToken.MatchString(token) {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// Normalize re-serializes blob in the stored format: one token per line.
func Normalize(blob string) string {
	return strings.Join(Tokens(blob), "\n")
}

// Merge appends codes that are not already present and re-serializes.
func Merge(blob string, codes ...string) string {
	return Normalize(blob + "\n" + strings.Join(codes, "\n"))
}

// Learn adds the prefix of every accepted record whose family is not yet
// known. Rule-classified and malformed records are never learned.
func Learn(blob string, days []internal.DayData) (string, []string) {
	base := Parse(blob)
	seen := map[string]struct{}{}
	added := []string{}
	for _, day := range days {
		for _, p := range day.Programs {
			if p.Status.IsRule() || p.Status == internal.StatusInvalidFormat {
				continue
			}
			prefix := util.LeadingLetters(p.Code)
			if len(prefix) < MinPrefixLen || base.Contains(prefix) {
				continue
			}
			if _, ok := seen[prefix]; ok {
				continue
			}
			seen[prefix] = struct{}{}
			added = append(added, prefix)
		}
	}
	if len(added) == 0 {
		return Normalize(blob), added
	}
	return Merge(blob, added...), added
}
