package pipeline

import (
	"fmt"

	"programcheck/internal"
	"programcheck/internal/util"
)

type rule struct {
	status   internal.Status
	reason   string
	prefixes map[string]struct{}
}

// Checked in order; the first set containing the prefix wins.
var rules = []rule{
	{
		status:   internal.StatusRemoved,
		reason:   "program removed from the schedule",
		prefixes: prefixSet("VAVIV", "TELEV", "INFOM", "PROMO"),
	},
	{
		status:   internal.StatusRecording,
		reason:   "program must be recorded",
		prefixes: prefixSet("GRABA", "ESPEC", "CONCI", "ENTRE"),
	},
	{
		status:   internal.StatusArchive,
		reason:   "program is served from the archive",
		prefixes: prefixSet("ARCHI", "REPET", "CLASI", "DOCUM"),
	},
}

func prefixSet(prefixes ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(prefixes))
	for _, p := range prefixes {
		out[p] = struct{}{}
	}
	return out
}

func matchRule(code string) (rule, bool) {
	base := util.LeadingLetters(code)
	for _, r := range rules {
		if _, ok := r.prefixes[base]; ok {
			return r, true
		}
	}
	return rule{}, false
}

// applyRules turns a match decision into the emitted record. Rule statuses
// replace match statuses; a correction stays visible in the reason.
func applyRules(raw string, d decision) internal.ProgramStatus {
	p := internal.ProgramStatus{Code: d.code, Status: d.status, OriginalCode: d.original, Reason: d.reason}
	r, ok := matchRule(d.code)
	if !ok {
		return p
	}
	if d.status == internal.StatusCorrected {
		p.Reason = util.StringPtr(fmt.Sprintf("%s (corrected from %s)", r.reason, raw))
		p.OriginalCode = util.StringPtr(raw)
	} else {
		p.Reason = util.StringPtr(r.reason)
	}
	p.Status = r.status
	return p
}
