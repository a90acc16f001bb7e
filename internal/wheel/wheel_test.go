package wheel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWheel(t *testing.T, kind domain.ClusterType) *Wheel {
	t.Helper()
	w, err := Default().Wheel(kind)
	require.NoError(t, err)
	return w
}

func TestLoad_Shape(t *testing.T) {
	tax, err := Load()
	require.NoError(t, err)
	for _, kind := range Kinds {
		w := tax.Wheels[kind]
		assert.Len(t, w.Segments, 12, kind)
		assert.Len(t, w.Ratings, 3, kind)
	}
	assert.Len(t, tax.Wheels[domain.ClusterSkills].Dimensions, 5)
	assert.Len(t, tax.Wheels[domain.ClusterProblems].Dimensions, 6)
	assert.Equal(t, "self", tax.Wheels[domain.ClusterProblems].Segments[0].Sphere)
	assert.Equal(t, "Direction", tax.Wheels[domain.ClusterPersona].Segments[0].CoreDrive)
	assert.Len(t, tax.FeatureArchetypes, 10)
}

func TestWheel_UnknownKind(t *testing.T) {
	_, err := Default().Wheel("integration")
	require.ErrorIs(t, err, ErrUnknownWheel)
}

func TestMatcher_LabelsAgainstKeywordTables(t *testing.T) {
	tests := []struct {
		name    string
		kind    domain.ClusterType
		cluster domain.Cluster
		want    []string
	}{
		{
			name:    "two skill keywords",
			kind:    domain.ClusterSkills,
			cluster: domain.Cluster{Label: "Teaching & Mentoring"},
			want:    []string{"clarifying", "nurturing"},
		},
		{
			name:    "problem label",
			kind:    domain.ClusterProblems,
			cluster: domain.Cluster{Label: "Burnout Recovery"},
			want:    []string{"mental_wellbeing"},
		},
		{
			name:    "case insensitive",
			kind:    domain.ClusterPersona,
			cluster: domain.Cluster{Label: "LOST SOULS"},
			want:    []string{"seekers"},
		},
		{
			name: "items when label misses",
			kind: domain.ClusterProblems,
			cluster: domain.Cluster{
				Label: "Misc",
				Items: domain.TextItems([]string{"climate anxiety"}),
			},
			want: []string{"mental_wellbeing", "planetary_health"},
		},
		{
			name:    "skills fallback",
			kind:    domain.ClusterSkills,
			cluster: domain.Cluster{Label: "Qwv", Items: domain.TextItems([]string{"zzz"})},
			want:    []string{"synthesizing"},
		},
		{
			name:    "problems fallback",
			kind:    domain.ClusterProblems,
			cluster: domain.Cluster{Label: "Qwv"},
			want:    []string{"personal_mastery"},
		},
		{
			name:    "persona fallback",
			kind:    domain.ClusterPersona,
			cluster: domain.Cluster{},
			want:    []string{"seekers"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := mustWheel(t, tt.kind)
			var got []string
			for _, idx := range w.Matcher().Match(tt.cluster) {
				got = append(got, w.Segments[idx].ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Match() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatcher_SharedKeywordHitsEverySegment(t *testing.T) {
	m := NewMatcher([]Segment{
		{ID: "a", Keywords: []string{"culture"}},
		{ID: "b", Keywords: []string{"Culture", "movement"}},
	}, 0)
	assert.Equal(t, []int{0, 1}, m.MatchText("workplace culture"))
	assert.Nil(t, m.MatchText(""))
}

func TestLitCells(t *testing.T) {
	skills := mustWheel(t, domain.ClusterSkills)
	lit := skills.LitCells([]domain.Cluster{
		{Label: "Teaching & Mentoring", Proficiency: "mastering"},
		{Label: "Qwv"},
	})
	if diff := cmp.Diff([]string{"0-2", "10-2", "11-0"}, lit.Keys()); diff != "" {
		t.Errorf("LitCells() mismatch (-want +got):\n%s", diff)
	}

	problems := mustWheel(t, domain.ClusterProblems)
	lit = problems.LitCells([]domain.Cluster{{
		Label: "Burnout Recovery",
		Items: []domain.ClusterItem{
			{Text: "rest", Rating: "pursuing"},
			{Text: "boundaries", Rating: "pursuing"},
			{Text: "sleep", Rating: "exploring"},
		},
	}})
	assert.Equal(t, []string{"1-1"}, lit.Keys(), "dominant item rating picks the ring")

	assert.Empty(t, problems.LitCells(nil))
}

func TestCellAt(t *testing.T) {
	w := mustWheel(t, domain.ClusterPersona)
	seg, ring, ok := w.CellAt("4-2")
	require.True(t, ok)
	assert.Equal(t, "connectors", seg.ID)
	assert.Equal(t, "ready", ring.ID)

	for _, bad := range []string{"12-0", "0-3", "x-1", "3", "-1-0"} {
		_, _, ok := w.CellAt(bad)
		assert.False(t, ok, bad)
	}
}

func TestCellPath_KnownPoints(t *testing.T) {
	got := CellPath(320, 12, 3, 0, 0)
	assert.Equal(t, "M 160 120 L 160 83.33 A 76.67 76.67 0 0 1 198.33 93.6 L 180 125.36 A 40 40 0 0 0 160 120", got)

	single := CellPath(100, 1, 1, 0, 0)
	assert.Contains(t, single, " 0 1 1 ", "a lone segment needs the large arc")
	assert.Contains(t, single, " 0 1 0 ")
}

func TestLayout_Radii(t *testing.T) {
	l := NewLayout(320, 12, 3)
	assert.InDelta(t, 150, l.Outer, 1e-9)
	assert.InDelta(t, 40, l.Inner, 1e-9)
	assert.InDelta(t, 110.0/3, l.RingWidth, 1e-9)
	assert.InDelta(t, 30, l.SegmentDeg, 1e-9)
}

func TestLabelPosition_FlipsLowerHalf(t *testing.T) {
	l := NewLayout(320, 12, 3)
	assert.InDelta(t, 15, l.LabelPosition(0).Rotation, 1e-9)
	assert.InDelta(t, 375, l.LabelPosition(6).Rotation, 1e-9)
	assert.InDelta(t, 345, l.LabelPosition(11).Rotation, 1e-9)
	assert.InDelta(t, 204, l.LabelPosition(0).X, 0.01)
}

func TestRenderSVG(t *testing.T) {
	w := mustWheel(t, domain.ClusterSkills)
	lit := make(CellSet)
	lit.Add("0-2")

	var buf bytes.Buffer
	require.NoError(t, w.RenderSVG(&buf, lit, SVGOptions{CenterLabel: "Skills & <you>", ShowLabels: true}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="320"`))
	assert.Equal(t, 36, strings.Count(out, "<path "))
	assert.Equal(t, 1, strings.Count(out, "wheel-cell lit"))
	assert.Contains(t, out, `id="cell-0-2"`)
	assert.Contains(t, out, "hsl(0, 70%, 55%)")
	assert.Contains(t, out, "Skills &amp; &lt;you&gt;")
	assert.Contains(t, out, ">Clarifyi</text>")
}

func TestRenderTerminal(t *testing.T) {
	w := mustWheel(t, domain.ClusterPersona)
	lit := make(CellSet)
	lit.Add("0-0")
	out := w.RenderTerminal(lit)
	assert.Contains(t, out, "Awakening")
	assert.Contains(t, out, "Seekers")
	assert.Equal(t, 1, strings.Count(out, "████"))
	assert.Equal(t, 13, strings.Count(out, "\n"))
}

func TestCombinedIdentity(t *testing.T) {
	tax := Default()
	skill, _ := tax.Wheels[domain.ClusterSkills].Segment("clarifying")
	problem, _ := tax.Wheels[domain.ClusterProblems].Segment("mental_wellbeing")
	persona, _ := tax.Wheels[domain.ClusterPersona].Segment("seekers")

	want := &Identity{
		Title:       "The Translator Mind Guardian",
		Description: "A Translator who helps seekers you restore inner peace.",
		Superpower:  "Your superpower: Turning confusion into understanding for seekers.",
	}
	if diff := cmp.Diff(want, CombinedIdentity(&skill, &problem, &persona)); diff != "" {
		t.Errorf("CombinedIdentity() mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, CombinedIdentity(&skill, nil, &persona))
}

func TestIdentityFor(t *testing.T) {
	tax := Default()
	clusters := map[domain.ClusterType][]domain.Cluster{
		domain.ClusterSkills:   {{Label: "Teaching & Mentoring"}},
		domain.ClusterProblems: {{Label: "Burnout Recovery"}},
		domain.ClusterPersona:  {{Label: "Lost souls"}},
	}
	id := tax.IdentityFor(clusters)
	require.NotNil(t, id)
	assert.Equal(t, "The Translator Mind Guardian", id.Title)

	delete(clusters, domain.ClusterPersona)
	assert.Nil(t, tax.IdentityFor(clusters))
}

func TestClassificationPrompt(t *testing.T) {
	p := mustWheel(t, domain.ClusterSkills).ClassificationPrompt("I love spreadsheets")
	assert.Contains(t, p, `Response: "I love spreadsheets"`)
	assert.Contains(t, p, "- analyzing: data, patterns, logic")
	assert.Equal(t, 12, strings.Count(p, "\n- "))
}

func TestFeaturesFor(t *testing.T) {
	var ids []string
	for _, f := range Default().FeaturesFor("economic_freedom", "motivation") {
		ids = append(ids, f.ID)
	}
	want := []string{"analysis", "planning", "learning", "automation", "accountability", "community", "tracking"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("FeaturesFor() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Default().FeaturesFor("nope", "nope"))
}
