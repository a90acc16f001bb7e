package catalog

import (
	"testing"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FixedOrders(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	require.Len(t, c.Needs, 6)
	for i, id := range domain.NeedOrder {
		assert.Equal(t, id, c.Needs[i].ID)
		assert.NotEmpty(t, c.Needs[i].Accomplish.Name, "need %s", id)
		assert.NotEmpty(t, c.Needs[i].Connect.Name, "need %s", id)
		assert.NotEmpty(t, c.Needs[i].AccomplishUnmet.JobFix.How, "need %s", id)
		assert.NotEmpty(t, c.Needs[i].ConnectUnmet.ChecklistItem, "need %s", id)
	}

	require.Len(t, c.Questions, 5)
	for i, id := range domain.QuestionOrder {
		assert.Equal(t, id, c.Questions[i].ID)
	}
}

func TestQuestion_EmploymentSignals(t *testing.T) {
	c := Default()
	want := map[domain.QuestionID]string{
		domain.QuestionLocus:     "external",
		domain.QuestionStructure: "supportive",
		domain.QuestionRisk:      "security",
		domain.QuestionEnergy:    "collaborative",
		domain.QuestionIdentity:  "vehicle",
	}
	for id, signal := range want {
		q, ok := c.Question(id)
		require.True(t, ok, id)
		assert.Equal(t, signal, q.EmploymentSignal)
		assert.Equal(t, signal, q.OptionA.Value, "option A carries the employment signal")
		assert.True(t, q.PointsToEmployment(signal))
		assert.False(t, q.PointsToEmployment(q.OptionB.Value))
		assert.False(t, q.PointsToEmployment(""))
	}
}

func TestFlow_QuestionSets(t *testing.T) {
	c := Default()

	problems, ok := c.Flow("problems")
	require.True(t, ok)
	keys := make([]string, 0, len(problems.Questions))
	for _, q := range problems.Questions {
		keys = append(keys, q.Key)
	}
	assert.Equal(t, []string{
		"q1_topics", "q2_impact", "q3_chapters", "q4_struggles",
		"q5_rolemodels", "q6_future", "q7_pulls",
	}, keys)

	pulls, ok := problems.Question("q7_pulls")
	require.True(t, ok)
	assert.Equal(t, 3, pulls.Fields)
	assert.Equal(t, "Starting a podcast", pulls.Placeholder(2))
	assert.Empty(t, pulls.Placeholder(3))

	skills, ok := c.Flow("skills")
	require.True(t, ok)
	assert.Len(t, skills.Questions, 5)

	persona, ok := c.Flow("persona")
	require.True(t, ok)
	assert.Empty(t, persona.Questions)
	assert.Len(t, persona.Confirm, 5)

	_, ok = c.Flow("nope")
	assert.False(t, ok)
}

func TestNeed_Lookup(t *testing.T) {
	c := Default()
	n, ok := c.Need(domain.NeedSecurity)
	require.True(t, ok)
	assert.Equal(t, "Financial Stability", n.Accomplish.Name)
	assert.Equal(t, "Values Integrity", n.Connect.Name)

	_, ok = c.Need("unknown")
	assert.False(t, ok)
}
