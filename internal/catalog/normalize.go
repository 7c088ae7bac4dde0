package catalog

import (
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// fuzzyCutoff is the minimum similarity ratio for a fuzzy catalog match.
// Inputs below the cutoff are treated as unrecognized.
const fuzzyCutoff = 0.6

// Normalize canonicalizes free text into catalog token form: NFKC fold, trim,
// lower-case, whitespace collapsed to underscores, everything outside [a-z_]
// stripped. Deterministic and pure; the result is not guaranteed to be a
// catalog member.
func Normalize(text string) string {
	t := norm.NFKC.String(text)
	t = strings.ToLower(strings.TrimSpace(t))
	t = strings.Join(strings.Fields(t), "_")

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		if (r >= 'a' && r <= 'z') || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "_")
}

// Match maps free text onto a catalog symptom. Exact membership after
// normalization wins; otherwise the single closest symptom with similarity
// at or above the cutoff is returned. The second result is false when the
// input matches nothing.
func (c *Catalog) Match(text string) (Symptom, bool) {
	token := Normalize(text)
	if token == "" {
		return "", false
	}
	if c.Contains(Symptom(token)) {
		return Symptom(token), true
	}

	// A token that is an unambiguous substring of exactly one catalog entry
	// counts as a match ("rash" -> "skin_rash"). Two or more containments
	// are ambiguous and fall through to the similarity pass.
	if len(token) >= 4 {
		var hit Symptom
		hits := 0
		for _, s := range c.symptoms {
			if strings.Contains(string(s), token) {
				hit = s
				hits++
			}
		}
		if hits == 1 {
			return hit, true
		}
	}

	best := Symptom("")
	bestScore := 0.0
	for _, s := range c.symptoms {
		score := levenshtein.Similarity(token, string(s), nil)
		if score > bestScore {
			best, bestScore = s, score
		}
	}
	if bestScore >= fuzzyCutoff {
		return best, true
	}
	return "", false
}

// MatchAll maps a batch of free-text tokens onto catalog symptoms. Matched
// symptoms come back deduplicated in input order; inputs that matched nothing
// are reported in dropped so the caller can tell the user what was ignored.
func (c *Catalog) MatchAll(inputs []string) (matched []Symptom, dropped []string) {
	seen := make(map[Symptom]bool)
	for _, in := range inputs {
		if strings.TrimSpace(in) == "" {
			continue
		}
		s, ok := c.Match(in)
		if !ok {
			dropped = append(dropped, strings.TrimSpace(in))
			continue
		}
		if !seen[s] {
			seen[s] = true
			matched = append(matched, s)
		}
	}
	return matched, dropped
}
