package wheel

import (
	"strings"

	"github.com/alexanderramin/clarity/internal/domain"
)

type rule struct {
	keyword  string
	segments []int
}

// Matcher maps free text onto segments by case-insensitive keyword
// substring lookup. Rules keep taxonomy order and a keyword shared by
// several segments maps to all of them.
type Matcher struct {
	rules    []rule
	fallback int
}

// NewMatcher builds the rule table from segment keywords. fallback is the
// segment index used when nothing matches.
func NewMatcher(segments []Segment, fallback int) *Matcher {
	m := &Matcher{fallback: fallback}
	pos := make(map[string]int)
	for i, s := range segments {
		for _, kw := range s.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if j, ok := pos[kw]; ok {
				m.rules[j].segments = append(m.rules[j].segments, i)
				continue
			}
			pos[kw] = len(m.rules)
			m.rules = append(m.rules, rule{keyword: kw, segments: []int{i}})
		}
	}
	return m
}

// MatchText returns the segments whose keywords occur in text, in the order
// first hit. It returns nil when nothing matches.
func (m *Matcher) MatchText(text string) []int {
	text = strings.ToLower(text)
	if text == "" {
		return nil
	}
	var out []int
	seen := make(map[int]bool)
	for _, r := range m.rules {
		if !strings.Contains(text, r.keyword) {
			continue
		}
		for _, idx := range r.segments {
			if !seen[idx] {
				seen[idx] = true
				out = append(out, idx)
			}
		}
	}
	return out
}

// Match tries the cluster label, then its items, and falls back to the
// default segment.
func (m *Matcher) Match(c domain.Cluster) []int {
	if hits := m.MatchText(c.Label); len(hits) > 0 {
		return hits
	}
	if hits := m.MatchText(strings.Join(c.ItemTexts(), "\n")); len(hits) > 0 {
		return hits
	}
	return []int{m.fallback}
}
