package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/clarity/internal/db"
	"github.com/alexanderramin/clarity/internal/domain"
)

// SQLiteFlowSessionRepo implements FlowSessionRepo using a SQLite database.
type SQLiteFlowSessionRepo struct {
	db db.DBTX
}

func NewSQLiteFlowSessionRepo(conn db.DBTX) *SQLiteFlowSessionRepo {
	return &SQLiteFlowSessionRepo{db: conn}
}

func (r *SQLiteFlowSessionRepo) FindBySessionAndType(ctx context.Context, sessionID string, flowType domain.FlowType) (*domain.FlowSession, error) {
	query := `SELECT id, session_id, flow_type, status, created_at, completed_at
		FROM flow_sessions WHERE session_id = ? AND flow_type = ?`
	row := r.db.QueryRowContext(ctx, query, sessionID, string(flowType))

	var s domain.FlowSession
	var flow, status, createdAt string
	var completedAt sql.NullString
	if err := row.Scan(&s.ID, &s.SessionID, &flow, &status, &createdAt, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("flow session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning flow session: %w", err)
	}
	s.FlowType = domain.FlowType(flow)
	s.Status = domain.SessionStatus(status)
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	s.CreatedAt = t
	s.CompletedAt = parseNullableTime(completedAt)
	return &s, nil
}

func (r *SQLiteFlowSessionRepo) Create(ctx context.Context, s *domain.FlowSession) error {
	query := `INSERT INTO flow_sessions (id, session_id, flow_type, status, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.SessionID,
		string(s.FlowType),
		string(s.Status),
		formatTime(s.CreatedAt),
		nullableTimeToString(s.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting flow session: %w", err)
	}
	return nil
}

func (r *SQLiteFlowSessionRepo) MarkCompleted(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE flow_sessions SET status = ?, completed_at = ? WHERE id = ?`,
		string(domain.SessionCompleted), formatTime(at), id)
	if err != nil {
		return fmt.Errorf("completing flow session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("completing flow session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("flow session %s: %w", id, ErrNotFound)
	}
	return nil
}
