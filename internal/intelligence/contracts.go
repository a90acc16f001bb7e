package intelligence

import (
	"context"

	"github.com/alexanderramin/clarity/internal/domain"
)

// ClusterKind selects the clustering guidelines sent to the model.
type ClusterKind string

const (
	// KindSkills asks for preliminary, exploratory role ideas.
	KindSkills   ClusterKind = "skills"
	KindRoles    ClusterKind = "roles"
	KindProblems ClusterKind = "problems"
	KindPersona  ClusterKind = "persona"
)

// KindFor maps a flow's cluster type to the kind used for its preview or
// final clustering. Only the skills flow uses different guidelines for
// the two.
func KindFor(t domain.ClusterType, final bool) ClusterKind {
	switch t {
	case domain.ClusterSkills:
		if final {
			return KindRoles
		}
		return KindSkills
	case domain.ClusterPersona:
		return KindPersona
	default:
		return KindProblems
	}
}

// ParseKind accepts a kind name or a cluster type name.
func ParseKind(s string) (ClusterKind, bool) {
	switch k := ClusterKind(s); k {
	case KindSkills, KindRoles, KindProblems, KindPersona:
		return k, true
	}
	return "", false
}

// ClusterService groups free-text answers into labelled clusters.
type ClusterService interface {
	Cluster(ctx context.Context, items []string, kind ClusterKind) ([]domain.Cluster, error)
}

// CareerAnalysisService turns a quiz result and stored clusters into
// career recommendations.
type CareerAnalysisService interface {
	Analyze(ctx context.Context, in AnalysisInput) (*domain.CareerAnalysis, error)
}

// AnalysisInput is everything known about one session.
type AnalysisInput struct {
	Quiz     *domain.QuizRecord
	Problems []domain.Cluster
	Persona  []domain.Cluster
	Skills   []domain.Cluster
}

// HasData reports whether there is anything to analyze.
func (in AnalysisInput) HasData() bool {
	return in.Quiz != nil || len(in.Problems) > 0 || len(in.Persona) > 0 || len(in.Skills) > 0
}

// clusterResponse is the JSON object the model returns for a clustering call.
type clusterResponse struct {
	Message  string           `json:"message"`
	Clusters []domain.Cluster `json:"clusters"`
}

// Unavailable stands in for both services when no model is configured.
type Unavailable struct {
	Reason error
}

func (u Unavailable) err() error {
	if u.Reason == nil {
		return ErrNoClusterer
	}
	return &unavailableError{reason: u.Reason}
}

func (u Unavailable) Cluster(context.Context, []string, ClusterKind) ([]domain.Cluster, error) {
	return nil, u.err()
}

func (u Unavailable) Analyze(context.Context, AnalysisInput) (*domain.CareerAnalysis, error) {
	return nil, u.err()
}

type unavailableError struct {
	reason error
}

func (e *unavailableError) Error() string { return ErrNoClusterer.Error() + ": " + e.reason.Error() }

func (e *unavailableError) Is(target error) bool { return target == ErrNoClusterer }

func (e *unavailableError) Unwrap() error { return e.reason }
