package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/intelligence"
	"github.com/alexanderramin/clarity/internal/repository"
	"github.com/stretchr/testify/require"
)

type fakeClusterer struct {
	mu       sync.Mutex
	clusters []domain.Cluster
	err      error
	kinds    []intelligence.ClusterKind
}

func (f *fakeClusterer) Cluster(_ context.Context, items []string, kind intelligence.ClusterKind) ([]domain.Cluster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, kind)
	if f.err != nil {
		return nil, f.err
	}
	return f.clusters, nil
}

type fakeAnalyzer struct {
	analysis *domain.CareerAnalysis
	err      error
	inputs   []intelligence.AnalysisInput
}

func (f *fakeAnalyzer) Analyze(_ context.Context, in intelligence.AnalysisInput) (*domain.CareerAnalysis, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

// failingQuizRepo rejects every write.
type failingQuizRepo struct {
	repository.QuizResultRepo
	err error
}

func (f failingQuizRepo) Upsert(context.Context, *domain.QuizRecord) error { return f.err }

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func countRows(t *testing.T, database *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, database.QueryRow(query, args...).Scan(&n))
	return n
}
