package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/clarity/internal/db"
	"github.com/alexanderramin/clarity/internal/domain"
)

// SQLiteClusterRepo implements ClusterRepo using a SQLite database.
type SQLiteClusterRepo struct {
	db db.DBTX
}

func NewSQLiteClusterRepo(conn db.DBTX) *SQLiteClusterRepo {
	return &SQLiteClusterRepo{db: conn}
}

const clusterColumns = `id, session_id, cluster_type, cluster_stage, cluster_label, insight, items, proficiency, created_at`

// Newest batch first; rows of one batch keep insertion order.
const clusterOrder = ` ORDER BY created_at DESC, rowid ASC`

func (r *SQLiteClusterRepo) InsertBatch(ctx context.Context, clusters []*domain.ClusterRecord) error {
	query := `INSERT INTO nikigai_clusters (` + clusterColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, c := range clusters {
		items := c.Items
		if items == nil {
			items = []domain.ClusterItem{}
		}
		data, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encoding items of %q: %w", c.Label, err)
		}
		_, err = r.db.ExecContext(ctx, query,
			c.ID,
			c.SessionID,
			string(c.Type),
			string(c.Stage),
			c.Label,
			c.Insight,
			string(data),
			nullableString(c.Proficiency),
			formatTime(c.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting cluster %q: %w", c.Label, err)
		}
	}
	return nil
}

func (r *SQLiteClusterRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.ClusterRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clusterColumns+` FROM nikigai_clusters WHERE session_id = ?`+clusterOrder, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing clusters by session: %w", err)
	}
	defer rows.Close()
	return scanClusters(rows)
}

func (r *SQLiteClusterRepo) ListBySessionAndType(ctx context.Context, sessionID string, typ domain.ClusterType, stage domain.ClusterStage) ([]*domain.ClusterRecord, error) {
	query := `SELECT ` + clusterColumns + ` FROM nikigai_clusters WHERE session_id = ? AND cluster_type = ?`
	args := []any{sessionID, string(typ)}
	if stage != "" {
		query += ` AND cluster_stage = ?`
		args = append(args, string(stage))
	}
	rows, err := r.db.QueryContext(ctx, query+clusterOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s clusters: %w", typ, err)
	}
	defer rows.Close()
	return scanClusters(rows)
}

func scanClusters(rows *sql.Rows) ([]*domain.ClusterRecord, error) {
	var out []*domain.ClusterRecord
	for rows.Next() {
		var c domain.ClusterRecord
		var typ, stage, items, createdAt string
		var proficiency sql.NullString
		if err := rows.Scan(&c.ID, &c.SessionID, &typ, &stage, &c.Label, &c.Insight, &items, &proficiency, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning cluster row: %w", err)
		}
		c.Type = domain.ClusterType(typ)
		c.Stage = domain.ClusterStage(stage)
		c.Proficiency = proficiency.String
		if err := json.Unmarshal([]byte(items), &c.Items); err != nil {
			return nil, fmt.Errorf("decoding items of cluster %s: %w", c.ID, err)
		}
		t, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		c.CreatedAt = t
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clusters: %w", err)
	}
	return out, nil
}
