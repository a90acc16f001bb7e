// Package wheel maps clusters onto the competence wheels: a fixed ring of
// segments per wheel kind, crossed with rating rings. It owns the taxonomy
// data, the keyword matcher, the lit-cell computation and the renderers.
package wheel

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/rating"
	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var taxonomyYAML []byte

var (
	ErrUnknownWheel   = errors.New("unknown wheel kind")
	ErrUnknownSegment = errors.New("unknown segment")
)

// Kinds lists the wheels in display order.
var Kinds = []domain.ClusterType{domain.ClusterSkills, domain.ClusterProblems, domain.ClusterPersona}

// Segment is one slice of a wheel. Fields past Icon are filled for some
// wheels only.
type Segment struct {
	ID            string   `yaml:"id" json:"id"`
	Name          string   `yaml:"name" json:"name"`
	Title         string   `yaml:"title" json:"title"`
	Tagline       string   `yaml:"tagline" json:"tagline"`
	Keywords      []string `yaml:"keywords" json:"keywords"`
	Color         string   `yaml:"color" json:"color"`
	Icon          string   `yaml:"icon" json:"icon"`
	ValueCreated  string   `yaml:"value_created" json:"value_created,omitempty"`
	Sphere        string   `yaml:"sphere" json:"sphere,omitempty"`
	ExampleNiches []string `yaml:"example_niches" json:"example_niches,omitempty"`
	CoreDrive     string   `yaml:"core_drive" json:"core_drive,omitempty"`
	Seeking       string   `yaml:"seeking" json:"seeking,omitempty"`
	Role          string   `yaml:"role" json:"role,omitempty"`
}

// ShortName is the edge label: the first eight runes of the name.
func (s Segment) ShortName() string {
	r := []rune(s.Name)
	if len(r) > 8 {
		r = r[:8]
	}
	return string(r)
}

// Ring is one concentric band: a rating level, a role archetype, a problem
// type or a journey stage.
type Ring struct {
	ID             string   `yaml:"id" json:"id"`
	Label          string   `yaml:"label" json:"label"`
	Position       string   `yaml:"ring" json:"ring,omitempty"`
	Color          string   `yaml:"color" json:"color,omitempty"`
	Description    string   `yaml:"description" json:"description"`
	Mindset        string   `yaml:"mindset" json:"mindset,omitempty"`
	Indicators     []string `yaml:"indicators" json:"indicators,omitempty"`
	BusinessAdvice string   `yaml:"business_advice" json:"business_advice,omitempty"`
	JobTypes       []string `yaml:"job_types" json:"job_types,omitempty"`
	DeliveryMode   string   `yaml:"delivery_mode" json:"delivery_mode,omitempty"`
	Examples       []string `yaml:"examples" json:"examples,omitempty"`
}

// Bonus is an extra per-wheel dimension (energy source, engagement depth).
type Bonus struct {
	ID          string   `yaml:"id" json:"id"`
	Label       string   `yaml:"label" json:"label"`
	Description string   `yaml:"description" json:"description"`
	Compass     string   `yaml:"compass" json:"compass,omitempty"`
	PriceLevel  string   `yaml:"price_level" json:"price_level,omitempty"`
	Examples    []string `yaml:"examples" json:"examples,omitempty"`
}

type Feature struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
}

// Wheel is one wheel definition. Ratings are the rings cells light up on;
// Dimensions are the wheel's second axis shown on summaries.
type Wheel struct {
	Kind       domain.ClusterType `yaml:"-" json:"kind"`
	Segments   []Segment          `yaml:"segments" json:"segments"`
	Dimensions []Ring             `yaml:"dimensions" json:"dimensions"`
	Ratings    []Ring             `yaml:"ratings" json:"ratings"`
	Fallback   string             `yaml:"fallback" json:"fallback"`

	matcher *Matcher
}

// Segment returns the segment with id.
func (w *Wheel) Segment(id string) (Segment, bool) {
	for _, s := range w.Segments {
		if s.ID == id {
			return s, true
		}
	}
	return Segment{}, false
}

// SegmentIndex returns the position of id, or -1.
func (w *Wheel) SegmentIndex(id string) int {
	return slices.IndexFunc(w.Segments, func(s Segment) bool { return s.ID == id })
}

// RingIndex returns the rating ring for level, or -1.
func (w *Wheel) RingIndex(level string) int {
	return slices.IndexFunc(w.Ratings, func(r Ring) bool { return r.ID == level })
}

// Matcher returns the keyword matcher built from this wheel's segments.
func (w *Wheel) Matcher() *Matcher { return w.matcher }

// Taxonomy is the full wheel data set. It is read-only after Load.
type Taxonomy struct {
	Wheels              map[domain.ClusterType]*Wheel `yaml:"wheels"`
	EnergySources       []Bonus                       `yaml:"energy_sources"`
	EngagementDepth     []Bonus                       `yaml:"engagement_depth"`
	FeatureArchetypes   []Feature                     `yaml:"feature_archetypes"`
	DomainFeatures      map[string][]string           `yaml:"domain_features"`
	ProblemTypeFeatures map[string][]string           `yaml:"problem_type_features"`
}

// Load parses the embedded taxonomy and builds each wheel's matcher.
func Load() (*Taxonomy, error) {
	var t Taxonomy
	if err := yaml.Unmarshal(taxonomyYAML, &t); err != nil {
		return nil, fmt.Errorf("parsing taxonomy: %w", err)
	}
	for _, kind := range Kinds {
		w, ok := t.Wheels[kind]
		if !ok {
			return nil, fmt.Errorf("taxonomy: missing %s wheel", kind)
		}
		w.Kind = kind
		if err := w.validate(); err != nil {
			return nil, fmt.Errorf("taxonomy %s wheel: %w", kind, err)
		}
		w.matcher = NewMatcher(w.Segments, w.SegmentIndex(w.Fallback))
	}
	if err := t.validateFeatures(); err != nil {
		return nil, fmt.Errorf("taxonomy: %w", err)
	}
	return &t, nil
}

var (
	defaultOnce sync.Once
	defaultTax  *Taxonomy
)

// Default returns the process-wide taxonomy and panics if the embedded data
// is broken.
func Default() *Taxonomy {
	defaultOnce.Do(func() {
		t, err := Load()
		if err != nil {
			panic(fmt.Sprintf("wheel: %v", err))
		}
		defaultTax = t
	})
	return defaultTax
}

// Wheel returns the wheel for kind.
func (t *Taxonomy) Wheel(kind domain.ClusterType) (*Wheel, error) {
	w, ok := t.Wheels[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWheel, kind)
	}
	return w, nil
}

func (w *Wheel) validate() error {
	if len(w.Segments) == 0 {
		return errors.New("no segments")
	}
	if w.SegmentIndex(w.Fallback) < 0 {
		return fmt.Errorf("fallback %q: %w", w.Fallback, ErrUnknownSegment)
	}
	// Ratings double as rating scale levels, so the two must agree.
	levels := rating.ScaleFor(w.Kind).Levels
	if len(levels) != len(w.Ratings) {
		return fmt.Errorf("%d rating rings, want %d", len(w.Ratings), len(levels))
	}
	for i, l := range levels {
		if w.Ratings[i].ID != l {
			return fmt.Errorf("rating ring %d is %q, want %q", i, w.Ratings[i].ID, l)
		}
	}
	return nil
}

func (t *Taxonomy) validateFeatures() error {
	known := make(map[string]bool, len(t.FeatureArchetypes))
	for _, f := range t.FeatureArchetypes {
		known[f.ID] = true
	}
	for _, m := range []map[string][]string{t.DomainFeatures, t.ProblemTypeFeatures} {
		for key, ids := range m {
			for _, id := range ids {
				if !known[id] {
					return fmt.Errorf("%s maps to unknown feature %q", key, id)
				}
			}
		}
	}
	return nil
}
