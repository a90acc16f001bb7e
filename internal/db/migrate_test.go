package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"quiz_results", "flow_sessions", "nikigai_clusters", "email_captures"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_clusters_session", "idx_clusters_session_type", "idx_email_captures_email"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_QuizResultsSessionUnique(t *testing.T) {
	db := openTestDB(t)

	insert := `INSERT INTO quiz_results (id, session_id, path_result, created_at, updated_at)
		VALUES (?, 'career-quiz-1', 'job', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`
	_, err := db.Exec(insert, "r1")
	require.NoError(t, err)
	_, err = db.Exec(insert, "r2")
	require.Error(t, err, "a session has one quiz result")
}

func TestMigrate_CheckConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO quiz_results (id, session_id, path_result, created_at, updated_at)
		VALUES ('r1', 's', 'freelance', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "path_result is job or own-thing")

	_, err = db.Exec(`INSERT INTO flow_sessions (id, session_id, flow_type, created_at)
		VALUES ('f1', 's', 'nikigai_dreams', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "unknown flow type")

	_, err = db.Exec(`INSERT INTO nikigai_clusters (id, session_id, cluster_type, cluster_stage, cluster_label, created_at)
		VALUES ('c1', 's', 'problems', 'draft', 'x', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "unknown cluster stage")
}

func TestMigrate_FlowSessionPairUnique(t *testing.T) {
	db := openTestDB(t)

	insert := `INSERT INTO flow_sessions (id, session_id, flow_type, created_at) VALUES (?, 's', ?, '2026-01-01T00:00:00Z')`
	_, err := db.Exec(insert, "f1", "nikigai_problems")
	require.NoError(t, err)
	_, err = db.Exec(insert, "f2", "nikigai_skills")
	require.NoError(t, err, "same session, other flow")
	_, err = db.Exec(insert, "f3", "nikigai_problems")
	require.Error(t, err)
}

func TestMigrate_FlowSessionDefaults(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO flow_sessions (id, session_id, flow_type, created_at)
		VALUES ('f1', 's', 'nikigai_persona', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	var status string
	var completedAt sql.NullString
	require.NoError(t, db.QueryRow(`SELECT status, completed_at FROM flow_sessions WHERE id = 'f1'`).Scan(&status, &completedAt))
	assert.Equal(t, "in_progress", status)
	assert.False(t, completedAt.Valid)
}
