package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlowSession(sessionID string, flow domain.FlowType) *domain.FlowSession {
	return &domain.FlowSession{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		FlowType:  flow,
		Status:    domain.SessionInProgress,
		CreatedAt: time.Now().UTC(),
	}
}

func TestFlowSessionRepo_CreateFindComplete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteFlowSessionRepo(db)
	ctx := context.Background()
	sessionID := testutil.NewSessionID("problems")

	_, err := repo.FindBySessionAndType(ctx, sessionID, domain.FlowProblems)
	require.ErrorIs(t, err, ErrNotFound)

	s := newFlowSession(sessionID, domain.FlowProblems)
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.FindBySessionAndType(ctx, sessionID, domain.FlowProblems)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, domain.SessionInProgress, got.Status)
	assert.Nil(t, got.CompletedAt)

	_, err = repo.FindBySessionAndType(ctx, sessionID, domain.FlowSkills)
	require.ErrorIs(t, err, ErrNotFound, "lookup is per flow type")

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkCompleted(ctx, s.ID, at))

	got, err = repo.FindBySessionAndType(ctx, sessionID, domain.FlowProblems)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, at.Equal(*got.CompletedAt))
}

func TestFlowSessionRepo_DuplicatePairRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteFlowSessionRepo(db)
	ctx := context.Background()
	sessionID := testutil.NewSessionID("career-quiz")

	require.NoError(t, repo.Create(ctx, newFlowSession(sessionID, domain.FlowPersona)))
	require.Error(t, repo.Create(ctx, newFlowSession(sessionID, domain.FlowPersona)))
	require.NoError(t, repo.Create(ctx, newFlowSession(sessionID, domain.FlowSkills)))
}

func TestFlowSessionRepo_MarkCompletedMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteFlowSessionRepo(db)

	err := repo.MarkCompleted(context.Background(), "nope", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}
