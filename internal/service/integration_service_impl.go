package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/intelligence"
	"github.com/alexanderramin/clarity/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Profile is everything the discovery flows and the quiz stored for one
// session. Quiz is nil when the session never finished the quiz.
type Profile struct {
	SessionID string
	Quiz      *domain.QuizRecord
	Problems  []domain.Cluster
	Persona   []domain.Cluster
	Skills    []domain.Cluster
}

// Counts returns the number of final clusters per type.
func (p *Profile) Counts() map[domain.ClusterType]int {
	return map[domain.ClusterType]int{
		domain.ClusterProblems: len(p.Problems),
		domain.ClusterPersona:  len(p.Persona),
		domain.ClusterSkills:   len(p.Skills),
	}
}

// Clusters returns the clusters of one type.
func (p *Profile) Clusters(t domain.ClusterType) []domain.Cluster {
	switch t {
	case domain.ClusterProblems:
		return p.Problems
	case domain.ClusterPersona:
		return p.Persona
	case domain.ClusterSkills:
		return p.Skills
	}
	return nil
}

// TopLabels returns up to n cluster labels of one type.
func (p *Profile) TopLabels(t domain.ClusterType, n int) []string {
	clusters := p.Clusters(t)
	if len(clusters) > n {
		clusters = clusters[:n]
	}
	out := make([]string, len(clusters))
	for i, c := range clusters {
		out[i] = c.Label
	}
	return out
}

func (p *Profile) AnalysisInput() intelligence.AnalysisInput {
	return intelligence.AnalysisInput{
		Quiz:     p.Quiz,
		Problems: p.Problems,
		Persona:  p.Persona,
		Skills:   p.Skills,
	}
}

type integrationService struct {
	analyzer intelligence.CareerAnalysisService
	quizzes  repository.QuizResultRepo
	clusters repository.ClusterRepo
	sessions repository.FlowSessionRepo
	captures repository.EmailCaptureRepo
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewIntegrationService(
	analyzer intelligence.CareerAnalysisService,
	quizzes repository.QuizResultRepo,
	clusters repository.ClusterRepo,
	sessions repository.FlowSessionRepo,
	captures repository.EmailCaptureRepo,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) IntegrationService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &integrationService{
		analyzer: analyzer,
		quizzes:  quizzes,
		clusters: clusters,
		sessions: sessions,
		captures: captures,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

// LoadProfile reads the quiz result and the final clusters of every type
// concurrently. Any read error fails the whole load.
func (s *integrationService) LoadProfile(ctx context.Context, sessionID string) (p *Profile, err error) {
	defer observe(ctx, s.observer, "load-profile", time.Now(), map[string]any{"session_id": sessionID}, &err)

	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	p = &Profile{SessionID: sessionID}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q, err := s.quizzes.GetBySessionID(gctx, sessionID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("loading quiz result: %w", err)
		}
		p.Quiz = q
		return nil
	})

	targets := []struct {
		typ domain.ClusterType
		dst *[]domain.Cluster
	}{
		{domain.ClusterProblems, &p.Problems},
		{domain.ClusterPersona, &p.Persona},
		{domain.ClusterSkills, &p.Skills},
	}
	for _, t := range targets {
		g.Go(func() error {
			records, err := s.clusters.ListBySessionAndType(gctx, sessionID, t.typ, domain.ClusterStageFinal)
			if err != nil {
				return fmt.Errorf("loading %s clusters: %w", t.typ, err)
			}
			*t.dst = domain.Clusters(records)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

// Analyze runs the career analysis over the stored profile and completes
// the integration session on success.
func (s *integrationService) Analyze(ctx context.Context, sessionID string) (a *domain.CareerAnalysis, err error) {
	fields := map[string]any{"session_id": sessionID}
	defer observe(ctx, s.observer, "career-analysis", time.Now(), fields, &err)

	profile, err := s.LoadProfile(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	in := profile.AnalysisInput()
	if !in.HasData() {
		return nil, intelligence.ErrNoAnalysisData
	}
	if s.analyzer == nil {
		return nil, intelligence.ErrNoClusterer
	}

	a, err = s.analyzer.Analyze(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("analyzing career profile: %w", err)
	}

	fs, sessErr := ensureFlowSession(ctx, s.sessions, sessionID, domain.FlowIntegration)
	if sessErr == nil {
		sessErr = s.sessions.MarkCompleted(ctx, fs.ID, time.Now().UTC())
	}
	if sessErr != nil {
		s.logger.WarnContext(ctx, "completing integration session", "session_id", sessionID, "error", sessErr)
	}
	fields["completed"] = sessErr == nil
	return a, nil
}

func (s *integrationService) CaptureDownloadEmail(ctx context.Context, sessionID, email string) (err error) {
	defer observe(ctx, s.observer, "capture-download-email", time.Now(), map[string]any{"session_id": sessionID}, &err)

	if err = ValidateEmail(email); err != nil {
		return err
	}
	capture := &domain.EmailCapture{
		ID:        uuid.New().String(),
		Email:     email,
		SessionID: sessionID,
		Source:    domain.SourceAnalysisDownload,
		CreatedAt: time.Now().UTC(),
	}
	if err = s.captures.Create(ctx, capture); err != nil {
		s.logger.ErrorContext(ctx, "saving download email", "session_id", sessionID, "error", err)
		return fmt.Errorf("capturing download email: %w", err)
	}
	return nil
}
