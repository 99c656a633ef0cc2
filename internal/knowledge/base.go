package knowledge

import (
	"strings"

	"programcheck/internal/util"
)

// MinPrefixLen is the shortest token accepted as a program family.
const MinPrefixLen = 3

// Base is the set of known program prefixes for one parse call. Prefixes keep
// the order in which they first appear in the blob; fuzzy ties resolve to the
// earliest one.
type Base struct {
	prefixes []string
	known    map[string]struct{}
}

// Parse tokenizes blob on every run of non A-Z characters after uppercasing.
func Parse(blob string) *Base {
	b := &Base{known: map[string]struct{}{}}
	upper := strings.ToUpper(blob)
	start := -1
	for i := 0; i <= len(upper); i++ {
		if i < len(upper) && util.IsUpperLetter(upper[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.add(upper[start:i])
			start = -1
		}
	}
	return b
}

func (b *Base) add(token string) {
	if len(token) < MinPrefixLen {
		return
	}
	if _, ok := b.known[token]; ok {
		return
	}
	b.known[token] = struct{}{}
	b.prefixes = append(b.prefixes, token)
}

func (b *Base) Len() int { return len(b.prefixes) }

func (b *Base) Contains(prefix string) bool {
	_, ok := b.known[prefix]
	return ok
}

func (b *Base) Prefixes() []string {
	out := make([]string, len(b.prefixes))
	copy(out, b.prefixes)
	return out
}

// Closest returns the prefix with the smallest edit distance to key. ok is
// false only when the base is empty.
func (b *Base) Closest(key string) (best string, dist int, ok bool) {
	dist = -1
	for _, p := range b.prefixes {
		d := util.Levenshtein(key, p)
		if dist < 0 || d < dist {
			best, dist = p, d
			if d == 0 {
				break
			}
		}
	}
	return best, dist, dist >= 0
}
