package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/agropredict/agropredict/internal/domain"
)

const offlineSchema = `
CREATE TABLE IF NOT EXISTS predictions (
	id         TEXT PRIMARY KEY,
	crop       TEXT NOT NULL,
	confidence REAL NOT NULL,
	features   TEXT NOT NULL,
	created_at TEXT NOT NULL,
	synced     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_predictions_synced ON predictions (synced, created_at);
`

// createdAtLayout is fixed width so created_at sorts lexically in time order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// OfflineLog persists served predictions in a local SQLite file until they are
// synced upstream.
type OfflineLog struct {
	db *sqlx.DB
}

type predictionRow struct {
	ID         string  `db:"id"`
	Crop       string  `db:"crop"`
	Confidence float64 `db:"confidence"`
	Features   string  `db:"features"`
	CreatedAt  string  `db:"created_at"`
	Synced     bool    `db:"synced"`
}

// OpenOfflineLog opens (creating if needed) the SQLite log at path and applies the schema.
func OpenOfflineLog(ctx context.Context, path string) (*OfflineLog, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open offline log: %w", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, offlineSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply offline log schema: %w", err)
	}
	return &OfflineLog{db: db}, nil
}

// Close releases the database handle.
func (l *OfflineLog) Close() error {
	return l.db.Close()
}

// Ping checks that the database is reachable.
func (l *OfflineLog) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}

// Record inserts a prediction as unsynced.
func (l *OfflineLog) Record(ctx context.Context, p domain.Prediction) error {
	features, err := json.Marshal(p.Features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	row := predictionRow{
		ID:         p.ID,
		Crop:       p.Crop,
		Confidence: p.Confidence,
		Features:   string(features),
		CreatedAt:  p.CreatedAt.UTC().Format(createdAtLayout),
	}
	_, err = l.db.NamedExecContext(ctx,
		`INSERT INTO predictions (id, crop, confidence, features, created_at, synced)
		 VALUES (:id, :crop, :confidence, :features, :created_at, 0)`, row)
	if err != nil {
		return fmt.Errorf("insert prediction %s: %w", p.ID, err)
	}
	return nil
}

// Unsynced returns up to limit unsynced predictions, oldest first.
func (l *OfflineLog) Unsynced(ctx context.Context, limit int) ([]domain.Prediction, error) {
	var rows []predictionRow
	err := l.db.SelectContext(ctx, &rows,
		`SELECT id, crop, confidence, features, created_at, synced
		 FROM predictions WHERE synced = 0 ORDER BY created_at, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select unsynced predictions: %w", err)
	}

	out := make([]domain.Prediction, 0, len(rows))
	for _, r := range rows {
		p, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Get returns the prediction with the given id, or ErrNotFound.
func (l *OfflineLog) Get(ctx context.Context, id string) (domain.Prediction, error) {
	var rows []predictionRow
	err := l.db.SelectContext(ctx, &rows,
		`SELECT id, crop, confidence, features, created_at, synced FROM predictions WHERE id = ?`, id)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("select prediction %s: %w", id, err)
	}
	if len(rows) == 0 {
		return domain.Prediction{}, fmt.Errorf("prediction %s: %w", id, ErrNotFound)
	}
	return rows[0].toDomain()
}

// MarkSynced flags the given predictions as synced.
func (l *OfflineLog) MarkSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`UPDATE predictions SET synced = 1 WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("build mark synced query: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, l.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

// CountUnsynced returns the number of predictions still waiting to be synced.
func (l *OfflineLog) CountUnsynced(ctx context.Context) (int, error) {
	var n int
	if err := l.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM predictions WHERE synced = 0`); err != nil {
		return 0, fmt.Errorf("count unsynced: %w", err)
	}
	return n, nil
}

func (r predictionRow) toDomain() (domain.Prediction, error) {
	var f domain.Features
	if err := json.Unmarshal([]byte(r.Features), &f); err != nil {
		return domain.Prediction{}, fmt.Errorf("decode features of %s: %w", r.ID, err)
	}
	created, err := time.Parse(createdAtLayout, r.CreatedAt)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("parse created_at of %s: %w", r.ID, err)
	}
	return domain.Prediction{
		ID:         r.ID,
		Crop:       r.Crop,
		Confidence: r.Confidence,
		Features:   f,
		CreatedAt:  created,
		Synced:     r.Synced,
	}, nil
}
