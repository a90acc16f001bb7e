package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/clarity/internal/db"
	"github.com/alexanderramin/clarity/internal/domain"
)

// SQLiteEmailCaptureRepo implements EmailCaptureRepo using a SQLite database.
type SQLiteEmailCaptureRepo struct {
	db db.DBTX
}

func NewSQLiteEmailCaptureRepo(conn db.DBTX) *SQLiteEmailCaptureRepo {
	return &SQLiteEmailCaptureRepo{db: conn}
}

func (r *SQLiteEmailCaptureRepo) Create(ctx context.Context, c *domain.EmailCapture) error {
	query := `INSERT INTO email_captures (id, email, session_id, quiz_result_id, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Email,
		nullableString(c.SessionID),
		nullableString(c.QuizResultID),
		nullableString(c.Source),
		formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting email capture: %w", err)
	}
	return nil
}

func (r *SQLiteEmailCaptureRepo) ListByEmail(ctx context.Context, email string) ([]*domain.EmailCapture, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, session_id, quiz_result_id, source, created_at
		FROM email_captures WHERE email = ? ORDER BY created_at`, email)
	if err != nil {
		return nil, fmt.Errorf("listing email captures: %w", err)
	}
	defer rows.Close()

	var out []*domain.EmailCapture
	for rows.Next() {
		var c domain.EmailCapture
		var sessionID, quizResultID, source sql.NullString
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Email, &sessionID, &quizResultID, &source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning email capture: %w", err)
		}
		c.SessionID = sessionID.String
		c.QuizResultID = quizResultID.String
		c.Source = source.String
		t, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		c.CreatedAt = t
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating email captures: %w", err)
	}
	return out, nil
}
