package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/clarity/internal/domain"
)

var ErrNotFound = errors.New("not found")

type QuizResultRepo interface {
	// Upsert writes r keyed by session id. On conflict the stored id is
	// kept and copied back into r.
	Upsert(ctx context.Context, r *domain.QuizRecord) error
	GetByID(ctx context.Context, id string) (*domain.QuizRecord, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.QuizRecord, error)
	SetEmail(ctx context.Context, id, email string) error
}

type FlowSessionRepo interface {
	FindBySessionAndType(ctx context.Context, sessionID string, flowType domain.FlowType) (*domain.FlowSession, error)
	Create(ctx context.Context, s *domain.FlowSession) error
	MarkCompleted(ctx context.Context, id string, at time.Time) error
}

type ClusterRepo interface {
	InsertBatch(ctx context.Context, clusters []*domain.ClusterRecord) error
	// ListBySession returns every cluster of a session, newest batch first.
	ListBySession(ctx context.Context, sessionID string) ([]*domain.ClusterRecord, error)
	// ListBySessionAndType filters by type and, when stage is non-empty, by stage.
	ListBySessionAndType(ctx context.Context, sessionID string, typ domain.ClusterType, stage domain.ClusterStage) ([]*domain.ClusterRecord, error)
}

type EmailCaptureRepo interface {
	Create(ctx context.Context, c *domain.EmailCapture) error
	ListByEmail(ctx context.Context, email string) ([]*domain.EmailCapture, error)
}
