package wheel

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/rating"
)

// CellKey formats a cell as "<segmentIndex>-<ringIndex>".
func CellKey(seg, ring int) string {
	return strconv.Itoa(seg) + "-" + strconv.Itoa(ring)
}

// ParseCellKey is the inverse of CellKey.
func ParseCellKey(key string) (seg, ring int, err error) {
	a, b, ok := strings.Cut(key, "-")
	if !ok {
		return 0, 0, fmt.Errorf("parsing cell key %q: missing separator", key)
	}
	if seg, err = strconv.Atoi(a); err != nil {
		return 0, 0, fmt.Errorf("parsing cell key %q: %w", key, err)
	}
	if ring, err = strconv.Atoi(b); err != nil {
		return 0, 0, fmt.Errorf("parsing cell key %q: %w", key, err)
	}
	return seg, ring, nil
}

// CellSet is a set of lit cell keys.
type CellSet map[string]struct{}

func (s CellSet) Add(key string) { s[key] = struct{}{} }

func (s CellSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the keys sorted by segment, then ring.
func (s CellSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		sa, ra, _ := ParseCellKey(a)
		sb, rb, _ := ParseCellKey(b)
		if sa != sb {
			return sa - sb
		}
		return ra - rb
	})
	return keys
}

// ringFor picks the rating ring a cluster lights: its own proficiency, else
// the dominant item rating, else the innermost ring.
func (w *Wheel) ringFor(c domain.Cluster) int {
	level := c.Proficiency
	if level == "" {
		level = rating.Dominant(c.ItemRatings())
	}
	if i := w.RingIndex(level); i >= 0 {
		return i
	}
	return 0
}

// LitCells computes the lit cells for a set of clusters.
func (w *Wheel) LitCells(clusters []domain.Cluster) CellSet {
	lit := make(CellSet)
	for _, c := range clusters {
		ring := w.ringFor(c)
		for _, seg := range w.matcher.Match(c) {
			lit.Add(CellKey(seg, ring))
		}
	}
	return lit
}

// LitSegments returns the matched segments in the order clusters first hit
// them.
func (w *Wheel) LitSegments(clusters []domain.Cluster) []Segment {
	var out []Segment
	seen := make(map[int]bool)
	for _, c := range clusters {
		for _, seg := range w.matcher.Match(c) {
			if !seen[seg] {
				seen[seg] = true
				out = append(out, w.Segments[seg])
			}
		}
	}
	return out
}

// CellAt resolves a cell key to its segment and rating ring.
func (w *Wheel) CellAt(key string) (Segment, Ring, bool) {
	seg, ring, err := ParseCellKey(key)
	if err != nil || seg < 0 || seg >= len(w.Segments) || ring < 0 || ring >= len(w.Ratings) {
		return Segment{}, Ring{}, false
	}
	return w.Segments[seg], w.Ratings[ring], true
}
