package pipeline

import (
	"fmt"
	"strings"

	"programcheck/internal"
	"programcheck/internal/knowledge"
	"programcheck/internal/util"
)

// A correction is accepted only below this edit distance.
const maxCorrectionDistance = 3

const (
	reasonUnrecognized = "unrecognizable format"
	reasonUnknown      = "not in knowledge base"
)

type decision struct {
	code     string
	status   internal.Status
	original *string
	reason   *string
	skip     bool
}

type matcher struct {
	base        *knowledge.Base
	flagUnknown bool
}

func newMatcher(base *knowledge.Base, opts Options) *matcher {
	return &matcher{base: base, flagUnknown: opts.FlagUnknown}
}

// match classifies one program line against the knowledge base.
func (m *matcher) match(line string) decision {
	upper := strings.ToUpper(line)
	alphaKey := util.Letters(upper)
	numeric := util.Digits(upper)

	if m.base.Contains(alphaKey) {
		return decision{code: upper, status: internal.StatusValid}
	}

	if m.base.Len() > 0 && len(alphaKey) >= knowledge.MinPrefixLen {
		best, dist, ok := m.base.Closest(alphaKey)
		if ok && dist < maxCorrectionDistance {
			return corrected(line, upper, alphaKey, numeric, best)
		}
	}

	if util.IsCanonicalCode(upper) {
		if m.flagUnknown && m.base.Len() > 0 {
			return decision{code: upper, status: internal.StatusMissing, reason: util.StringPtr(reasonUnknown)}
		}
		return decision{code: upper, status: internal.StatusValid}
	}

	if alphaKey != "" && (numeric != "" || len(alphaKey) >= knowledge.MinPrefixLen) {
		return decision{code: upper, status: internal.StatusInvalidFormat, reason: util.StringPtr(reasonUnrecognized)}
	}
	return decision{skip: true}
}

// corrected builds the replacement code. Digits that sit where the matched
// prefix expects a look-alike letter (CLAM0 for CLAMO) belong to the typed
// prefix, not to the numeric suffix.
func corrected(raw, upper, alphaKey, numeric, best string) decision {
	typed, suffix := alphaKey, numeric

	compact := util.Compact(upper)
	lead := util.LeadingLetters(compact)
	if lead == alphaKey && len(lead) < len(best) {
		end := len(lead)
		for end < len(best) && end < len(compact) && util.IsDigit(compact[end]) && util.LooksLike(compact[end], best[end]) {
			end++
		}
		if end > len(lead) {
			typed = compact[:end]
			suffix = util.Digits(compact[end:])
		}
	}

	reason := fmt.Sprintf("corrected %s → %s", typed, best)
	if suffix == "" {
		reason += " (no numeric suffix)"
	}
	return decision{
		code:     best + suffix,
		status:   internal.StatusCorrected,
		original: util.StringPtr(raw),
		reason:   util.StringPtr(reason),
	}
}
