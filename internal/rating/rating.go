// Package rating attaches user-chosen ordinal labels to clusters or to the
// items within them.
package rating

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/clarity/internal/domain"
)

var ErrUnknownLevel = errors.New("unknown rating level")

// Scale is a three-step ordinal scale. Levels run from least to most
// established and double as wheel ring ids.
type Scale struct {
	Name   string
	Prompt string
	Levels []string
}

var (
	ProblemsScale = Scale{
		Name:   "problems",
		Prompt: "How engaged are you with this problem space?",
		Levels: []string{"exploring", "pursuing", "proven"},
	}
	SkillsScale = Scale{
		Name:   "skills",
		Prompt: "How developed is this skill cluster?",
		Levels: []string{"emerging", "establishing", "mastering"},
	}
	PersonaScale = Scale{
		Name:   "persona",
		Prompt: "Where are you on this journey?",
		Levels: []string{"awakening", "struggling", "ready"},
	}
)

// ScaleFor returns the scale used when rating clusters of type t.
func ScaleFor(t domain.ClusterType) Scale {
	switch t {
	case domain.ClusterProblems:
		return ProblemsScale
	case domain.ClusterPersona:
		return PersonaScale
	default:
		return SkillsScale
	}
}

// Index returns the position of level in the scale, or -1.
func (s Scale) Index(level string) int {
	for i, l := range s.Levels {
		if l == level {
			return i
		}
	}
	return -1
}

func (s Scale) Valid(level string) bool { return s.Index(level) >= 0 }

// ClusterKey keys a rating by cluster position.
func ClusterKey(i int) string { return "cluster:" + strconv.Itoa(i) }

// ItemKey keys a rating by item text.
func ItemKey(text string) string { return "item:" + text }

// Overlay maps keys to levels of one scale. Unset keys have no rating.
type Overlay[K comparable] struct {
	scale  Scale
	levels map[K]string
}

func NewOverlay[K comparable](s Scale) *Overlay[K] {
	return &Overlay[K]{scale: s, levels: make(map[K]string)}
}

// FromLevels rebuilds an overlay from saved levels, dropping any that are
// not on the scale.
func FromLevels[K comparable](s Scale, saved map[K]string) *Overlay[K] {
	o := NewOverlay[K](s)
	for k, v := range saved {
		if s.Valid(v) {
			o.levels[k] = v
		}
	}
	return o
}

func (o *Overlay[K]) Scale() Scale { return o.scale }

// Set assigns level to k. An empty level clears it.
func (o *Overlay[K]) Set(k K, level string) error {
	if level == "" {
		delete(o.levels, k)
		return nil
	}
	if !o.scale.Valid(level) {
		return fmt.Errorf("%w %q for %s scale", ErrUnknownLevel, level, o.scale.Name)
	}
	o.levels[k] = level
	return nil
}

func (o *Overlay[K]) Get(k K) string { return o.levels[k] }

func (o *Overlay[K]) Clear() { o.levels = make(map[K]string) }

// AllRated reports whether every key has a rating. It holds for an empty
// key list.
func (o *Overlay[K]) AllRated(keys []K) bool {
	for _, k := range keys {
		if o.levels[k] == "" {
			return false
		}
	}
	return true
}

// Levels returns a copy of the current assignments.
func (o *Overlay[K]) Levels() map[K]string {
	out := make(map[K]string, len(o.levels))
	for k, v := range o.levels {
		out[k] = v
	}
	return out
}

// ClusterKeys returns the cluster-level keys for n clusters.
func ClusterKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = ClusterKey(i)
	}
	return keys
}

// ItemKeys returns the item-level keys across all clusters, in order.
func ItemKeys(clusters []domain.Cluster) []string {
	var keys []string
	for _, c := range clusters {
		for _, it := range c.Items {
			keys = append(keys, ItemKey(it.Text))
		}
	}
	return keys
}

// Flatten copies clusters with the overlay written onto them: item ratings
// onto Items[].Rating, and the cluster rating onto Proficiency. A cluster
// with no rating of its own takes the dominant item rating.
func Flatten(clusters []domain.Cluster, o *Overlay[string]) []domain.Cluster {
	out := make([]domain.Cluster, len(clusters))
	for i, c := range clusters {
		fc := c
		fc.Items = make([]domain.ClusterItem, len(c.Items))
		for j, it := range c.Items {
			if r := o.Get(ItemKey(it.Text)); r != "" {
				it.Rating = r
			}
			fc.Items[j] = it
		}
		if p := o.Get(ClusterKey(i)); p != "" {
			fc.Proficiency = p
		} else if fc.Proficiency == "" {
			fc.Proficiency = Dominant(fc.ItemRatings())
		}
		out[i] = fc
	}
	return out
}

// Dominant returns the most frequent non-empty label. Ties go to the label
// seen first.
func Dominant(levels []string) string {
	counts := make(map[string]int)
	best, bestN := "", 0
	for _, l := range levels {
		if l == "" {
			continue
		}
		counts[l]++
	}
	for _, l := range levels {
		if l == "" {
			continue
		}
		if counts[l] > bestN {
			best, bestN = l, counts[l]
		}
	}
	return best
}
