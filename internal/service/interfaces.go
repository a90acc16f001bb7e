package service

import (
	"context"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/scoring"
)

// QuizOutcome is a scored quiz plus its narrative. Record is nil when the
// result could not be saved.
type QuizOutcome struct {
	SessionID string
	Result    domain.QuizResult
	Content   scoring.PathContent
	Guidance  []scoring.NeedGuidance
	Record    *domain.QuizRecord
}

// QuizResultID returns the saved row id, or "" when the save failed.
func (o *QuizOutcome) QuizResultID() string {
	if o == nil || o.Record == nil {
		return ""
	}
	return o.Record.ID
}

type QuizService interface {
	Submit(ctx context.Context, sessionID string, needs domain.NeedAnswers, structural domain.StructuralAnswers) (*QuizOutcome, error)
	CaptureEmail(ctx context.Context, quizResultID, email string) error
	Get(ctx context.Context, sessionID string) (*domain.QuizRecord, error)
}

type FlowSessionService interface {
	Ensure(ctx context.Context, sessionID string, flowType domain.FlowType) (*domain.FlowSession, error)
	Complete(ctx context.Context, id string) error
}

type DiscoveryService interface {
	Cluster(ctx context.Context, typ domain.ClusterType, items []string, final bool) ([]domain.Cluster, error)
	SavePreview(ctx context.Context, sessionID string, typ domain.ClusterType, clusters []domain.Cluster) error
	SaveFinal(ctx context.Context, sessionID string, typ domain.ClusterType, clusters []domain.Cluster) error
	List(ctx context.Context, sessionID string, typ domain.ClusterType) ([]domain.Cluster, error)
}

type IntegrationService interface {
	LoadProfile(ctx context.Context, sessionID string) (*Profile, error)
	Analyze(ctx context.Context, sessionID string) (*domain.CareerAnalysis, error)
	CaptureDownloadEmail(ctx context.Context, sessionID, email string) error
}
