package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/google/uuid"
)

var testSessionCounter atomic.Int64

// NewSessionID returns a unique, readable session id for tests.
func NewSessionID(prefix string) string {
	n := testSessionCounter.Add(1)
	return fmt.Sprintf("%s-test-%03d", prefix, n)
}

// Need answer options
type NeedAnswersOption func(domain.NeedAnswers)

func WithNeed(id domain.NeedID, sel domain.Selection, met domain.MetLevel) NeedAnswersOption {
	return func(a domain.NeedAnswers) {
		a[id] = domain.NeedAnswer{Selection: sel, Met: met}
	}
}

// WithoutNeed leaves id unanswered.
func WithoutNeed(id domain.NeedID) NeedAnswersOption {
	return func(a domain.NeedAnswers) {
		delete(a, id)
	}
}

// NewNeedAnswers answers every need with sel/met, then applies opts.
func NewNeedAnswers(sel domain.Selection, met domain.MetLevel, opts ...NeedAnswersOption) domain.NeedAnswers {
	a := make(domain.NeedAnswers, len(domain.NeedOrder))
	for _, id := range domain.NeedOrder {
		a[id] = domain.NeedAnswer{Selection: sel, Met: met}
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// NewStructuralAnswers answers the first employment questions (in fixed
// order) with their employment signal and the rest with the other option.
func NewStructuralAnswers(employment int) domain.StructuralAnswers {
	cat := catalog.Default()
	a := make(domain.StructuralAnswers, len(cat.Questions))
	for i, q := range cat.Questions {
		if i < employment {
			a[q.ID] = q.EmploymentSignal
		} else {
			a[q.ID] = q.OptionB.Value
		}
	}
	return a
}

// Cluster options
type ClusterOption func(*domain.ClusterRecord)

func WithClusterStage(s domain.ClusterStage) ClusterOption {
	return func(c *domain.ClusterRecord) {
		c.Stage = s
	}
}

func WithProficiency(p string) ClusterOption {
	return func(c *domain.ClusterRecord) {
		c.Proficiency = p
	}
}

func WithItems(texts ...string) ClusterOption {
	return func(c *domain.ClusterRecord) {
		c.Items = domain.TextItems(texts)
	}
}

func WithCreatedAt(t time.Time) ClusterOption {
	return func(c *domain.ClusterRecord) {
		c.CreatedAt = t
	}
}

func NewTestCluster(sessionID string, typ domain.ClusterType, label string, opts ...ClusterOption) *domain.ClusterRecord {
	c := &domain.ClusterRecord{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Type:      typ,
		Stage:     domain.ClusterStageFinal,
		Cluster: domain.Cluster{
			Label:   label,
			Insight: label + " insight",
			Items:   domain.TextItems([]string{label + " one", label + " two"}),
		},
		CreatedAt: time.Now().UTC(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func NewTestQuizRecord(sessionID string) *domain.QuizRecord {
	now := time.Now().UTC()
	return &domain.QuizRecord{
		ID:                uuid.New().String(),
		SessionID:         sessionID,
		NeedAnswers:       NewNeedAnswers(domain.SelectionLeft, domain.MetYes),
		StructuralAnswers: NewStructuralAnswers(5),
		PathResult:        domain.PathJob,
		UnmetNeeds:        []domain.NeedID{},
		AccomplishScore:   6,
		EmploymentScore:   5,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}
