package formatter

import (
	"testing"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/scoring"
	"github.com/alexanderramin/clarity/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(t *testing.T, needs domain.NeedAnswers, employment int) (domain.QuizResult, scoring.PathContent, []scoring.NeedGuidance) {
	t.Helper()
	cat := catalog.Default()
	r := scoring.Score(cat, needs, testutil.NewStructuralAnswers(employment))
	return r, scoring.PathContentFor(r), scoring.NeedGuidanceFor(cat, r)
}

func TestFormatQuizResult_JobPathWithChecklist(t *testing.T) {
	needs := testutil.NewNeedAnswers(domain.SelectionLeft, domain.MetYes,
		testutil.WithNeed(domain.NeedSecurity, domain.SelectionLeft, domain.MetNo))
	r, content, guidance := scored(t, needs, 4)
	require.Equal(t, domain.PathJob, r.Path)

	out := stripANSI(FormatQuizResult(catalog.Default(), r, content, guidance))

	assert.Contains(t, out, content.Headline)
	assert.Contains(t, out, "YOUR NEEDS")
	assert.Contains(t, out, "Financial Stability")
	assert.Contains(t, out, "○ unmet")
	assert.Contains(t, out, "employment signals 4 of 5")
	assert.Contains(t, out, "UNMET NEEDS")
	assert.Contains(t, out, "YOUR NEXT JOB MUST HAVE")
	assert.Contains(t, out, "☐ Provides compensation that matches market value and supports your goals")
	assert.Contains(t, out, content.CTAHeadline)
}

func TestFormatQuizResult_OwnThingHasNoChecklist(t *testing.T) {
	needs := testutil.NewNeedAnswers(domain.SelectionRight, domain.MetYes,
		testutil.WithNeed(domain.NeedGrowth, domain.SelectionBoth, domain.MetPartial))
	r, content, guidance := scored(t, needs, 1)
	require.Equal(t, domain.PathOwnThing, r.Path)

	out := stripANSI(FormatQuizResult(catalog.Default(), r, content, guidance))

	assert.Contains(t, out, "◐ partly")
	assert.Contains(t, out, "(Blend)")
	assert.Contains(t, out, "Unlock: ")
	assert.NotContains(t, out, "YOUR NEXT JOB MUST HAVE")
}

func TestFormatQuizResult_AllMetSkipsGuidance(t *testing.T) {
	r, content, guidance := scored(t, testutil.NewNeedAnswers(domain.SelectionLeft, domain.MetYes), 0)
	require.Empty(t, guidance)

	out := stripANSI(FormatQuizResult(catalog.Default(), r, content, guidance))

	assert.NotContains(t, out, "UNMET NEEDS")
	assert.Contains(t, out, content.ClarityMessage[:20])
}
