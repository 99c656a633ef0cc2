package pipeline

import (
	"programcheck/internal"
	"programcheck/internal/knowledge"
)

type Options struct {
	// FlagUnknown marks well-formed codes missing from a non-empty
	// knowledge base as MISSING instead of VALID.
	FlagUnknown bool
}

type Stats struct {
	Lines      int                     `json:"lines"`
	Headers    int                     `json:"headers"`
	Programs   int                     `json:"programs"`
	Duplicates int                     `json:"duplicates"`
	Noise      int                     `json:"noise"`
	Orphaned   int                     `json:"orphaned"`
	ByStatus   map[internal.Status]int `json:"byStatus"`
}

type Result struct {
	Days  []internal.DayData
	Stats Stats
}

// ParseProgramList validates a pasted schedule against the knowledge base text.
func ParseProgramList(input, knowledgeBase string) []internal.DayData {
	return Parse(input, knowledgeBase, Options{}).Days
}

// Parse runs the whole validation over input. All state is local to the call.
func Parse(input, knowledgeBase string, opts Options) Result {
	m := newMatcher(knowledge.Parse(knowledgeBase), opts)
	seen := map[string]struct{}{}
	res := Result{
		Days:  []internal.DayData{},
		Stats: Stats{ByStatus: map[internal.Status]int{}},
	}

	current := -1
	for _, line := range splitLines(input) {
		res.Stats.Lines++
		if IsDayHeader(line) {
			res.Days = append(res.Days, internal.DayData{DayHeader: line, Programs: []internal.ProgramStatus{}})
			current = len(res.Days) - 1
			res.Stats.Headers++
			continue
		}
		if current < 0 {
			res.Stats.Orphaned++
			continue
		}

		d := m.match(line)
		if d.skip {
			res.Stats.Noise++
			continue
		}
		if _, dup := seen[d.code]; dup {
			res.Stats.Duplicates++
			continue
		}
		seen[d.code] = struct{}{}

		program := applyRules(line, d)
		res.Days[current].Programs = append(res.Days[current].Programs, program)
		res.Stats.Programs++
		res.Stats.ByStatus[program.Status]++
	}

	return res
}
