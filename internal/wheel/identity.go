package wheel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/clarity/internal/domain"
)

// Identity is the combined headline built from the primary segment of each
// wheel.
type Identity struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Superpower  string `json:"superpower"`
}

// CombinedIdentity joins the primary skill, problem and persona segments.
// It returns nil unless all three are present.
func CombinedIdentity(skill, problem, persona *Segment) *Identity {
	if skill == nil || problem == nil || persona == nil {
		return nil
	}
	skillTitle := strings.Replace(skill.Title, "The ", "", 1)
	audience := strings.ToLower(persona.Name)
	return &Identity{
		Title:       fmt.Sprintf("The %s %s", skillTitle, problem.Title),
		Description: fmt.Sprintf("A %s who helps %s %s.", skillTitle, audience, strings.ToLower(problem.Tagline)),
		Superpower:  fmt.Sprintf("Your superpower: %s for %s.", skill.ValueCreated, audience),
	}
}

// IdentityFor builds the combined identity from each wheel's first lit
// segment. A wheel with no clusters yields nil.
func (t *Taxonomy) IdentityFor(clusters map[domain.ClusterType][]domain.Cluster) *Identity {
	primary := make([]*Segment, len(Kinds))
	for i, kind := range Kinds {
		segs := t.Wheels[kind].LitSegments(clusters[kind])
		if len(segs) > 0 {
			primary[i] = &segs[0]
		}
	}
	return CombinedIdentity(primary[0], primary[1], primary[2])
}

// ClassificationPrompt asks a model to place a free-text response on the
// wheel's segments.
func (w *Wheel) ClassificationPrompt(response string) string {
	var lines []string
	for _, s := range w.Segments {
		lines = append(lines, fmt.Sprintf("- %s: %s", s.ID, strings.Join(s.Keywords, ", ")))
	}
	return fmt.Sprintf(`
Classify this user response into the predefined categories.

Response: "%s"

Categories:
%s

Return JSON with segments array (can be 1-3 matches) and confidence scores (0-1).
Format: { "segments": [{ "id": "analyzing", "confidence": 0.9 }] }
`, response, strings.Join(lines, "\n"))
}

// Classification is the model reply to ClassificationPrompt.
type Classification struct {
	Segments []struct {
		ID         string  `json:"id"`
		Confidence float64 `json:"confidence"`
	} `json:"segments"`
}

// FeaturesFor recommends product features for a problem domain and problem
// type: the domain's list first, then any new ones from the type. Unknown
// ids contribute nothing.
func (t *Taxonomy) FeaturesFor(problemSegmentID, problemTypeID string) []Feature {
	var ids []string
	for _, id := range append(slices.Clone(t.DomainFeatures[problemSegmentID]), t.ProblemTypeFeatures[problemTypeID]...) {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	out := make([]Feature, 0, len(ids))
	for _, id := range ids {
		for _, f := range t.FeatureArchetypes {
			if f.ID == id {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
