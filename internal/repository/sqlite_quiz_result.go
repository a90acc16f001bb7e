package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/clarity/internal/db"
	"github.com/alexanderramin/clarity/internal/domain"
)

// SQLiteQuizResultRepo implements QuizResultRepo using a SQLite database.
type SQLiteQuizResultRepo struct {
	db db.DBTX
}

func NewSQLiteQuizResultRepo(conn db.DBTX) *SQLiteQuizResultRepo {
	return &SQLiteQuizResultRepo{db: conn}
}

const quizResultColumns = `id, session_id, need_answers, structural_answers, path_result,
	unmet_needs, accomplish_score, employment_score, email, created_at, updated_at`

func (r *SQLiteQuizResultRepo) Upsert(ctx context.Context, q *domain.QuizRecord) error {
	needs, err := json.Marshal(q.NeedAnswers)
	if err != nil {
		return fmt.Errorf("encoding need answers: %w", err)
	}
	structural, err := json.Marshal(q.StructuralAnswers)
	if err != nil {
		return fmt.Errorf("encoding structural answers: %w", err)
	}
	unmet := q.UnmetNeeds
	if unmet == nil {
		unmet = []domain.NeedID{}
	}
	unmetJSON, err := json.Marshal(unmet)
	if err != nil {
		return fmt.Errorf("encoding unmet needs: %w", err)
	}

	query := `INSERT INTO quiz_results (id, session_id, need_answers, structural_answers, path_result,
			unmet_needs, accomplish_score, employment_score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			need_answers = excluded.need_answers,
			structural_answers = excluded.structural_answers,
			path_result = excluded.path_result,
			unmet_needs = excluded.unmet_needs,
			accomplish_score = excluded.accomplish_score,
			employment_score = excluded.employment_score,
			updated_at = excluded.updated_at
		RETURNING id, created_at`
	var id, createdAt string
	err = r.db.QueryRowContext(ctx, query,
		q.ID,
		q.SessionID,
		string(needs),
		string(structural),
		string(q.PathResult),
		string(unmetJSON),
		q.AccomplishScore,
		q.EmploymentScore,
		formatTime(q.CreatedAt),
		formatTime(q.UpdatedAt),
	).Scan(&id, &createdAt)
	if err != nil {
		return fmt.Errorf("upserting quiz result: %w", err)
	}
	q.ID = id
	if t, err := parseTime(createdAt); err == nil {
		q.CreatedAt = t
	}
	return nil
}

func (r *SQLiteQuizResultRepo) GetByID(ctx context.Context, id string) (*domain.QuizRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+quizResultColumns+` FROM quiz_results WHERE id = ?`, id)
	return scanQuizResult(row)
}

func (r *SQLiteQuizResultRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.QuizRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+quizResultColumns+` FROM quiz_results WHERE session_id = ?`, sessionID)
	return scanQuizResult(row)
}

func (r *SQLiteQuizResultRepo) SetEmail(ctx context.Context, id, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE quiz_results SET email = ?, updated_at = ? WHERE id = ?`, email, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("setting quiz result email: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting quiz result email: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("quiz result %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanQuizResult(row *sql.Row) (*domain.QuizRecord, error) {
	var q domain.QuizRecord
	var needs, structural, path, unmet, createdAt, updatedAt string
	var email sql.NullString

	err := row.Scan(&q.ID, &q.SessionID, &needs, &structural, &path, &unmet,
		&q.AccomplishScore, &q.EmploymentScore, &email, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("quiz result: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning quiz result: %w", err)
	}

	if err := json.Unmarshal([]byte(needs), &q.NeedAnswers); err != nil {
		return nil, fmt.Errorf("decoding need answers: %w", err)
	}
	if err := json.Unmarshal([]byte(structural), &q.StructuralAnswers); err != nil {
		return nil, fmt.Errorf("decoding structural answers: %w", err)
	}
	if err := json.Unmarshal([]byte(unmet), &q.UnmetNeeds); err != nil {
		return nil, fmt.Errorf("decoding unmet needs: %w", err)
	}
	q.PathResult = domain.Path(path)
	q.Email = email.String

	if q.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if q.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &q, nil
}
