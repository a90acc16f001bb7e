package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_LegacySchema upgrades a database created before
// quiz emails and cluster ratings existed, with items stored as bare
// strings. Data must survive and new columns must appear.
func TestMigrate_UpgradePath_LegacySchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	legacyStatements := []string{
		`CREATE TABLE IF NOT EXISTS quiz_results (
			id                 TEXT PRIMARY KEY,
			session_id         TEXT NOT NULL UNIQUE,
			need_answers       TEXT NOT NULL DEFAULT '{}',
			structural_answers TEXT NOT NULL DEFAULT '{}',
			path_result        TEXT NOT NULL,
			unmet_needs        TEXT NOT NULL DEFAULT '[]',
			accomplish_score   INTEGER NOT NULL DEFAULT 0,
			employment_score   INTEGER NOT NULL DEFAULT 0,
			created_at         TEXT NOT NULL,
			updated_at         TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS nikigai_clusters (
			id            TEXT PRIMARY KEY,
			session_id    TEXT NOT NULL,
			cluster_type  TEXT NOT NULL,
			cluster_stage TEXT NOT NULL DEFAULT 'final',
			cluster_label TEXT NOT NULL,
			insight       TEXT NOT NULL DEFAULT '',
			items         TEXT NOT NULL DEFAULT '[]',
			created_at    TEXT NOT NULL
		)`,
	}
	for i, stmt := range legacyStatements {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "legacy statement %d failed", i)
	}

	_, err = db.Exec(`INSERT INTO quiz_results (id, session_id, path_result, accomplish_score, employment_score, created_at, updated_at)
		VALUES ('r1', 'career-quiz-old', 'own-thing', 4, 1, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO nikigai_clusters (id, session_id, cluster_type, cluster_label, items, created_at)
		VALUES ('c1', 'problems-old', 'problems', 'Burnout Recovery', '["rest","boundaries"]', '2025-01-01T00:00:00Z'),
		       ('c2', 'problems-old', 'problems', 'Already Objects', '[{"text":"art","rating":"proven"}]', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db), "migration on legacy schema should succeed")

	var path string
	var accomplish int
	var email sql.NullString
	require.NoError(t, db.QueryRow(`SELECT path_result, accomplish_score, email FROM quiz_results WHERE id = 'r1'`).
		Scan(&path, &accomplish, &email))
	assert.Equal(t, "own-thing", path)
	assert.Equal(t, 4, accomplish)
	assert.False(t, email.Valid, "new email column starts null")

	var items string
	var proficiency sql.NullString
	require.NoError(t, db.QueryRow(`SELECT items, proficiency FROM nikigai_clusters WHERE id = 'c1'`).Scan(&items, &proficiency))
	assert.JSONEq(t, `[{"text":"rest"},{"text":"boundaries"}]`, items)
	assert.False(t, proficiency.Valid)

	require.NoError(t, db.QueryRow(`SELECT items FROM nikigai_clusters WHERE id = 'c2'`).Scan(&items))
	assert.JSONEq(t, `[{"text":"art","rating":"proven"}]`, items)

	for _, table := range []string{"flow_sessions", "email_captures"} {
		var name string
		require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name))
	}

	require.NoError(t, Migrate(db), "second run is a no-op")
}
