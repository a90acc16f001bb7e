package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/repository"
	"github.com/google/uuid"
)

type flowSessionService struct {
	sessions repository.FlowSessionRepo
	observer UseCaseObserver
}

func NewFlowSessionService(sessions repository.FlowSessionRepo, observers ...UseCaseObserver) FlowSessionService {
	return &flowSessionService{sessions: sessions, observer: useCaseObserverOrNoop(observers)}
}

// Ensure returns the session row for (sessionID, flowType), creating it
// on first use.
func (s *flowSessionService) Ensure(ctx context.Context, sessionID string, flowType domain.FlowType) (fs *domain.FlowSession, err error) {
	defer observe(ctx, s.observer, "ensure-flow-session", time.Now(),
		map[string]any{"session_id": sessionID, "flow_type": string(flowType)}, &err)
	return ensureFlowSession(ctx, s.sessions, sessionID, flowType)
}

func (s *flowSessionService) Complete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "complete-flow-session", time.Now(), map[string]any{"id": id}, &err)
	return s.sessions.MarkCompleted(ctx, id, time.Now().UTC())
}

func ensureFlowSession(ctx context.Context, sessions repository.FlowSessionRepo, sessionID string, flowType domain.FlowType) (*domain.FlowSession, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	if !domain.ValidFlowTypes[flowType] {
		return nil, fmt.Errorf("ensuring flow session: unknown flow type %q", flowType)
	}

	existing, err := sessions.FindBySessionAndType(ctx, sessionID, flowType)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("ensuring flow session: %w", err)
	}

	fs := &domain.FlowSession{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		FlowType:  flowType,
		Status:    domain.SessionInProgress,
		CreatedAt: time.Now().UTC(),
	}
	if err := sessions.Create(ctx, fs); err != nil {
		// Lost a race with a concurrent Ensure for the same pair.
		if again, findErr := sessions.FindBySessionAndType(ctx, sessionID, flowType); findErr == nil {
			return again, nil
		}
		return nil, fmt.Errorf("ensuring flow session: %w", err)
	}
	return fs, nil
}
