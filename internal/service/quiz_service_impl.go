package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/clarity/internal/catalog"
	"github.com/alexanderramin/clarity/internal/db"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/flow"
	"github.com/alexanderramin/clarity/internal/repository"
	"github.com/alexanderramin/clarity/internal/scoring"
	"github.com/google/uuid"
)

type quizService struct {
	cat      *catalog.Catalog
	quizzes  repository.QuizResultRepo
	captures repository.EmailCaptureRepo
	uow      db.UnitOfWork
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewQuizService(
	cat *catalog.Catalog,
	quizzes repository.QuizResultRepo,
	captures repository.EmailCaptureRepo,
	uow db.UnitOfWork,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) QuizService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &quizService{
		cat:      cat,
		quizzes:  quizzes,
		captures: captures,
		uow:      uow,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Submit scores complete answers and saves them. A failed save is logged
// and leaves Record nil; the scored result is still returned.
func (s *quizService) Submit(ctx context.Context, sessionID string, needs domain.NeedAnswers, structural domain.StructuralAnswers) (out *QuizOutcome, err error) {
	fields := map[string]any{"session_id": sessionID}
	defer observe(ctx, s.observer, "submit-quiz", time.Now(), fields, &err)

	if !needs.Complete() || !structural.Complete() {
		return nil, ErrIncompleteAnswers
	}
	if sessionID == "" {
		sessionID = flow.NewQuizSessionID()
		fields["session_id"] = sessionID
	}

	result := scoring.Score(s.cat, needs, structural)
	out = &QuizOutcome{
		SessionID: sessionID,
		Result:    result,
		Content:   scoring.PathContentFor(result),
		Guidance:  scoring.NeedGuidanceFor(s.cat, result),
	}
	fields["path"] = string(result.Path)

	now := time.Now().UTC()
	rec := &domain.QuizRecord{
		ID:                uuid.New().String(),
		SessionID:         sessionID,
		NeedAnswers:       needs.Clone(),
		StructuralAnswers: structural.Clone(),
		PathResult:        result.Path,
		UnmetNeeds:        result.UnmetNeeds,
		AccomplishScore:   result.AccomplishCount,
		EmploymentScore:   result.EmploymentSignals,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if saveErr := s.quizzes.Upsert(ctx, rec); saveErr != nil {
		s.logger.ErrorContext(ctx, "saving quiz result", "session_id", sessionID, "error", saveErr)
		fields["saved"] = false
		return out, nil
	}
	fields["saved"] = true
	out.Record = rec
	return out, nil
}

// CaptureEmail records an email from the results screen. With a saved
// quiz result the capture links to it and the result row gets the email.
func (s *quizService) CaptureEmail(ctx context.Context, quizResultID, email string) (err error) {
	fields := map[string]any{"linked": quizResultID != ""}
	defer observe(ctx, s.observer, "capture-quiz-email", time.Now(), fields, &err)

	if err = ValidateEmail(email); err != nil {
		return err
	}

	capture := &domain.EmailCapture{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if quizResultID == "" {
		capture.Source = domain.SourceCareerQuiz
		if err = s.captures.Create(ctx, capture); err != nil {
			s.logger.ErrorContext(ctx, "saving email", "error", err)
			return fmt.Errorf("capturing email: %w", err)
		}
		return nil
	}

	capture.QuizResultID = quizResultID
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteEmailCaptureRepo(tx).Create(ctx, capture); err != nil {
			return err
		}
		return repository.NewSQLiteQuizResultRepo(tx).SetEmail(ctx, quizResultID, email)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "saving email", "quiz_result_id", quizResultID, "error", err)
		return fmt.Errorf("capturing email: %w", err)
	}
	return nil
}

func (s *quizService) Get(ctx context.Context, sessionID string) (*domain.QuizRecord, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	return s.quizzes.GetBySessionID(ctx, sessionID)
}
