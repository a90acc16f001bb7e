package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/intelligence"
	"github.com/alexanderramin/clarity/internal/repository"
	"github.com/alexanderramin/clarity/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type integrationFixture struct {
	svc      IntegrationService
	analyzer *fakeAnalyzer
	clusters *repository.SQLiteClusterRepo
	sessions *repository.SQLiteFlowSessionRepo
	captures *repository.SQLiteEmailCaptureRepo
	quizzes  *repository.SQLiteQuizResultRepo
}

func newIntegrationFixture(t *testing.T) *integrationFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	f := &integrationFixture{
		analyzer: &fakeAnalyzer{analysis: &domain.CareerAnalysis{CareerSummary: "You build bridges."}},
		clusters: repository.NewSQLiteClusterRepo(database),
		sessions: repository.NewSQLiteFlowSessionRepo(database),
		captures: repository.NewSQLiteEmailCaptureRepo(database),
		quizzes:  repository.NewSQLiteQuizResultRepo(database),
	}
	f.svc = NewIntegrationService(f.analyzer, f.quizzes, f.clusters, f.sessions, f.captures, nil)
	return f
}

func TestIntegrationService_LoadProfile(t *testing.T) {
	f := newIntegrationFixture(t)
	ctx := context.Background()
	sid := testutil.NewSessionID("integration")
	batch := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.clusters.InsertBatch(ctx, []*domain.ClusterRecord{
		testutil.NewTestCluster(sid, domain.ClusterProblems, "Broken Hiring", testutil.WithCreatedAt(batch)),
		testutil.NewTestCluster(sid, domain.ClusterProblems, "Slow Onboarding", testutil.WithCreatedAt(batch)),
		testutil.NewTestCluster(sid, domain.ClusterSkills, "Facilitation"),
		testutil.NewTestCluster(sid, domain.ClusterPersona, "Draft Persona", testutil.WithClusterStage(domain.ClusterStagePreview)),
	}))

	p, err := f.svc.LoadProfile(ctx, sid)
	require.NoError(t, err)
	assert.Nil(t, p.Quiz)
	assert.Equal(t, map[domain.ClusterType]int{
		domain.ClusterProblems: 2,
		domain.ClusterPersona:  0,
		domain.ClusterSkills:   1,
	}, p.Counts())
	assert.Equal(t, []string{"Broken Hiring"}, p.TopLabels(domain.ClusterProblems, 1))
	assert.Equal(t, []string{"Facilitation"}, p.TopLabels(domain.ClusterSkills, 3))
	assert.Empty(t, p.TopLabels(domain.ClusterPersona, 3))
}

func TestIntegrationService_LoadProfileIncludesQuiz(t *testing.T) {
	f := newIntegrationFixture(t)
	ctx := context.Background()

	quiz := NewQuizService(catalog.Default(), f.quizzes, f.captures, nil, nil)
	_, err := quiz.Submit(ctx, "career-quiz-1", testutil.NewNeedAnswers(domain.SelectionLeft, domain.MetYes), testutil.NewStructuralAnswers(4))
	require.NoError(t, err)

	p, err := f.svc.LoadProfile(ctx, "career-quiz-1")
	require.NoError(t, err)
	require.NotNil(t, p.Quiz)
	assert.Equal(t, domain.PathJob, p.Quiz.PathResult)
	assert.True(t, p.AnalysisInput().HasData())
}

func TestIntegrationService_AnalyzeCompletesSession(t *testing.T) {
	f := newIntegrationFixture(t)
	ctx := context.Background()

	require.NoError(t, f.clusters.InsertBatch(ctx, []*domain.ClusterRecord{
		testutil.NewTestCluster("s", domain.ClusterPersona, "Career Changers"),
	}))

	a, err := f.svc.Analyze(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "You build bridges.", a.CareerSummary)

	require.Len(t, f.analyzer.inputs, 1)
	assert.Equal(t, "Career Changers", f.analyzer.inputs[0].Persona[0].Label)

	fs, err := f.sessions.FindBySessionAndType(ctx, "s", domain.FlowIntegration)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, fs.Status)
}

func TestIntegrationService_AnalyzeWithoutData(t *testing.T) {
	f := newIntegrationFixture(t)

	_, err := f.svc.Analyze(context.Background(), "empty")
	assert.ErrorIs(t, err, intelligence.ErrNoAnalysisData)
	assert.Empty(t, f.analyzer.inputs, "no model call without data")
}

func TestIntegrationService_AnalyzeFailureLeavesSessionOpen(t *testing.T) {
	f := newIntegrationFixture(t)
	ctx := context.Background()
	boom := errors.New("model timeout")
	f.analyzer.err = boom

	require.NoError(t, f.clusters.InsertBatch(ctx, []*domain.ClusterRecord{
		testutil.NewTestCluster("s", domain.ClusterSkills, "Writing"),
	}))

	_, err := f.svc.Analyze(ctx, "s")
	assert.ErrorIs(t, err, boom)

	_, err = f.sessions.FindBySessionAndType(ctx, "s", domain.FlowIntegration)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIntegrationService_AnalyzeWithoutAnalyzer(t *testing.T) {
	f := newIntegrationFixture(t)
	ctx := context.Background()
	svc := NewIntegrationService(intelligence.Unavailable{}, f.quizzes, f.clusters, f.sessions, f.captures, nil)

	require.NoError(t, f.clusters.InsertBatch(ctx, []*domain.ClusterRecord{
		testutil.NewTestCluster("s", domain.ClusterSkills, "Writing"),
	}))
	_, err := svc.Analyze(ctx, "s")
	assert.ErrorIs(t, err, intelligence.ErrNoClusterer)
}

func TestIntegrationService_CaptureDownloadEmail(t *testing.T) {
	f := newIntegrationFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.CaptureDownloadEmail(ctx, "s", "ada@example.com"))
	list, err := f.captures.ListByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "s", list[0].SessionID)
	assert.Equal(t, domain.SourceAnalysisDownload, list[0].Source)

	assert.ErrorIs(t, f.svc.CaptureDownloadEmail(ctx, "s", ""), ErrEmptyEmail)
	assert.ErrorIs(t, f.svc.CaptureDownloadEmail(ctx, "s", "ada@"), ErrInvalidEmail)
}
