package scoring

import (
	"testing"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_MostlyAccomplishEmployment(t *testing.T) {
	cat := catalog.Default()
	needs := testutil.NewNeedAnswers(domain.SelectionLeft, domain.MetNo,
		testutil.WithNeed(domain.NeedStimulation, domain.SelectionRight, domain.MetYes))

	r := Score(cat, needs, testutil.NewStructuralAnswers(4))

	assert.Equal(t, 5, r.AccomplishCount)
	assert.Equal(t, 1, r.ConnectCount)
	assert.True(t, r.IsAccomplishOriented)
	assert.False(t, r.IsConnectOriented)
	assert.Equal(t, 4, r.EmploymentSignals)
	assert.Equal(t, 1, r.IndependenceSignals)
	assert.Equal(t, domain.PathJob, r.Path)
	assert.Equal(t, domain.QuadrantEmploymentAccomplish, r.Quadrant)
	assert.Len(t, r.UnmetNeeds, 5)
	assert.NotContains(t, r.UnmetNeeds, domain.NeedStimulation)
}

func TestScore_AllEmploymentSignals(t *testing.T) {
	r := Score(catalog.Default(),
		testutil.NewNeedAnswers(domain.SelectionRight, domain.MetYes),
		testutil.NewStructuralAnswers(5))

	assert.Equal(t, 5, r.EmploymentSignals)
	assert.Equal(t, 0, r.IndependenceSignals)
	assert.Equal(t, domain.PathJob, r.Path)
	assert.Equal(t, domain.QuadrantEmploymentConnect, r.Quadrant)
}

func TestScore_NoEmploymentSignals(t *testing.T) {
	r := Score(catalog.Default(),
		testutil.NewNeedAnswers(domain.SelectionRight, domain.MetYes),
		testutil.NewStructuralAnswers(0))

	assert.Equal(t, 0, r.EmploymentSignals)
	assert.Equal(t, 5, r.IndependenceSignals)
	assert.Equal(t, domain.PathOwnThing, r.Path)
	assert.Equal(t, domain.QuadrantIndependenceConnect, r.Quadrant)
}

func TestScore_SignalsAlwaysSumToFive(t *testing.T) {
	cat := catalog.Default()
	for employment := 0; employment <= 5; employment++ {
		r := Score(cat, testutil.NewNeedAnswers(domain.SelectionBoth, domain.MetYes), testutil.NewStructuralAnswers(employment))
		assert.Equal(t, 5, r.EmploymentSignals+r.IndependenceSignals, "employment=%d", employment)
		assert.Equal(t, employment, r.EmploymentSignals)
		assert.Equal(t, r.IndependenceSignals >= 3, r.Path == domain.PathOwnThing, "employment=%d", employment)
		assert.Equal(t, employment <= 2, r.Path == domain.PathOwnThing, "employment=%d", employment)
	}
}

func TestScore_BothCountsTowardNeither(t *testing.T) {
	cat := catalog.Default()

	t.Run("all both", func(t *testing.T) {
		r := Score(cat, testutil.NewNeedAnswers(domain.SelectionBoth, domain.MetYes), testutil.NewStructuralAnswers(3))
		assert.Equal(t, 0, r.AccomplishCount)
		assert.Equal(t, 0, r.ConnectCount)
		assert.False(t, r.IsAccomplishOriented)
		assert.False(t, r.IsConnectOriented)
		assert.Equal(t, domain.QuadrantEmploymentBlend, r.Quadrant)
	})

	t.Run("equal split", func(t *testing.T) {
		needs := testutil.NewNeedAnswers(domain.SelectionLeft, domain.MetYes,
			testutil.WithNeed(domain.NeedSecurity, domain.SelectionRight, domain.MetYes),
			testutil.WithNeed(domain.NeedStimulation, domain.SelectionRight, domain.MetYes),
			testutil.WithNeed(domain.NeedProgress, domain.SelectionRight, domain.MetYes),
		)
		r := Score(cat, needs, testutil.NewStructuralAnswers(1))
		assert.Equal(t, 3, r.AccomplishCount)
		assert.Equal(t, 3, r.ConnectCount)
		assert.Equal(t, domain.QuadrantIndependenceBlend, r.Quadrant)
	})
}

func TestScore_UnmetNeedsInCatalogOrder(t *testing.T) {
	needs := testutil.NewNeedAnswers(domain.SelectionLeft, domain.MetYes,
		testutil.WithNeed(domain.NeedStimulation, domain.SelectionRight, domain.MetPartial),
		testutil.WithNeed(domain.NeedFreedom, domain.SelectionBoth, domain.MetNo),
		testutil.WithNeed(domain.NeedVisibility, domain.SelectionLeft, domain.MetYes),
	)
	r := Score(catalog.Default(), needs, testutil.NewStructuralAnswers(2))

	want := []domain.NeedID{domain.NeedFreedom, domain.NeedStimulation}
	if diff := cmp.Diff(want, r.UnmetNeeds); diff != "" {
		t.Errorf("unmet needs mismatch (-want +got):\n%s", diff)
	}
	for _, nr := range r.Needs {
		if nr.Answer.Met == domain.MetYes {
			assert.False(t, nr.IsUnmet, nr.ID)
		}
	}
}

func TestScore_MissingAnswersCountTowardNothing(t *testing.T) {
	r := Score(catalog.Default(), domain.NeedAnswers{}, domain.StructuralAnswers{})

	require.Len(t, r.Needs, 6)
	require.Len(t, r.Structural, 5)
	assert.Equal(t, 0, r.AccomplishCount+r.ConnectCount)
	assert.Equal(t, 0, r.EmploymentSignals)
	assert.Equal(t, domain.PathOwnThing, r.Path)
	assert.Empty(t, r.UnmetNeeds)
	assert.NotNil(t, r.UnmetNeeds)
}

func TestScore_Deterministic(t *testing.T) {
	cat := catalog.Default()
	needs := testutil.NewNeedAnswers(domain.SelectionLeft, domain.MetPartial)
	structural := testutil.NewStructuralAnswers(2)

	first := Score(cat, needs, structural)
	second := Score(cat, needs.Clone(), structural.Clone())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("score not deterministic (-first +second):\n%s", diff)
	}
}

func TestQuadrantFor_Priority(t *testing.T) {
	tests := []struct {
		name         string
		independence bool
		employment   bool
		accomplish   bool
		connect      bool
		want         domain.Quadrant
	}{
		{"independent accomplisher", true, false, true, false, domain.QuadrantIndependenceAccomplish},
		{"independent connector", true, false, false, true, domain.QuadrantIndependenceConnect},
		{"independent blend", true, false, false, false, domain.QuadrantIndependenceBlend},
		{"employed accomplisher", false, true, true, false, domain.QuadrantEmploymentAccomplish},
		{"employed connector", false, true, false, true, domain.QuadrantEmploymentConnect},
		{"employed blend", false, true, false, false, domain.QuadrantEmploymentBlend},
		{"neither orientation", false, false, true, false, domain.QuadrantEmploymentBlend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuadrantFor(tt.independence, tt.employment, tt.accomplish, tt.connect))
		})
	}
}
