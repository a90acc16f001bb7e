package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateClusterItemObjects(db); err != nil {
		return fmt.Errorf("rewriting cluster items: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS quiz_results (
		id                 TEXT PRIMARY KEY,
		session_id         TEXT NOT NULL UNIQUE,
		need_answers       TEXT NOT NULL DEFAULT '{}',
		structural_answers TEXT NOT NULL DEFAULT '{}',
		path_result        TEXT NOT NULL
		                   CHECK(path_result IN ('job','own-thing')),
		unmet_needs        TEXT NOT NULL DEFAULT '[]',
		accomplish_score   INTEGER NOT NULL DEFAULT 0,
		employment_score   INTEGER NOT NULL DEFAULT 0,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS flow_sessions (
		id           TEXT PRIMARY KEY,
		session_id   TEXT NOT NULL,
		flow_type    TEXT NOT NULL
		             CHECK(flow_type IN ('nikigai_problems','nikigai_persona','nikigai_skills','nikigai_integration')),
		status       TEXT NOT NULL DEFAULT 'in_progress'
		             CHECK(status IN ('in_progress','completed')),
		created_at   TEXT NOT NULL,
		completed_at TEXT,
		UNIQUE(session_id, flow_type)
	)`,

	`CREATE TABLE IF NOT EXISTS nikigai_clusters (
		id            TEXT PRIMARY KEY,
		session_id    TEXT NOT NULL,
		cluster_type  TEXT NOT NULL
		              CHECK(cluster_type IN ('problems','persona','skills')),
		cluster_stage TEXT NOT NULL DEFAULT 'final'
		              CHECK(cluster_stage IN ('preview','final')),
		cluster_label TEXT NOT NULL,
		insight       TEXT NOT NULL DEFAULT '',
		items         TEXT NOT NULL DEFAULT '[]',
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_clusters_session ON nikigai_clusters(session_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_clusters_session_type ON nikigai_clusters(session_id, cluster_type)`,

	`CREATE TABLE IF NOT EXISTS email_captures (
		id             TEXT PRIMARY KEY,
		email          TEXT NOT NULL,
		session_id     TEXT,
		quiz_result_id TEXT REFERENCES quiz_results(id) ON DELETE SET NULL,
		source         TEXT,
		created_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_email_captures_email ON email_captures(email)`,

	// Quiz results screen email capture
	`ALTER TABLE quiz_results ADD COLUMN email TEXT`,

	// Cluster ratings
	`ALTER TABLE nikigai_clusters ADD COLUMN proficiency TEXT`,
}

// migrateClusterItemObjects rewrites items stored as bare JSON strings into
// {text} objects. Rows already in object form are left alone.
func migrateClusterItemObjects(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `SELECT id, items FROM nikigai_clusters WHERE items LIKE '["%'`)
	if err != nil {
		return fmt.Errorf("listing legacy cluster items: %w", err)
	}
	type legacy struct {
		id    string
		items string
	}
	var pending []legacy
	for rows.Next() {
		var l legacy
		if err := rows.Scan(&l.id, &l.items); err != nil {
			rows.Close()
			return fmt.Errorf("scanning cluster items: %w", err)
		}
		pending = append(pending, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, l := range pending {
		var texts []string
		if err := json.Unmarshal([]byte(l.items), &texts); err != nil {
			return fmt.Errorf("decoding items of cluster %s: %w", l.id, err)
		}
		objs := make([]map[string]string, len(texts))
		for i, t := range texts {
			objs[i] = map[string]string{"text": t}
		}
		data, err := json.Marshal(objs)
		if err != nil {
			return fmt.Errorf("encoding items of cluster %s: %w", l.id, err)
		}
		if _, err := db.ExecContext(ctx, `UPDATE nikigai_clusters SET items = ? WHERE id = ?`, string(data), l.id); err != nil {
			return fmt.Errorf("updating items of cluster %s: %w", l.id, err)
		}
	}
	return nil
}
