package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"server/internal/domain/brief"
	"server/internal/infra"
	"server/internal/sqlinline"
	"server/internal/storage"
)

// ErrBriefNotFound is returned when neither store knows the brief id.
var ErrBriefNotFound = errors.New("brief not found")

const statusComplete = "COMPLETE"

// StoredBrief is the persisted form of a brief.
type StoredBrief struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Payload   json.RawMessage `json:"payload"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// BriefRepository persists briefs best-effort. Writes go to Postgres when a
// SQL executor is configured and degrade to the filesystem store otherwise;
// a failed save is logged and swallowed, never surfaced to the caller.
type BriefRepository struct {
	sql    infra.SQLExecutor
	files  *storage.FileStore
	logger zerolog.Logger
}

// NewBriefRepository builds a repository. Both stores are optional; with
// neither configured every save becomes a logged no-op.
func NewBriefRepository(sql infra.SQLExecutor, files *storage.FileStore, logger zerolog.Logger) *BriefRepository {
	return &BriefRepository{sql: sql, files: files, logger: logger}
}

// Save upserts the brief. Fire-and-forget: persistence failure must never
// affect the response already assembled for the caller.
func (r *BriefRepository) Save(ctx context.Context, b *brief.CreativeBrief) {
	if b == nil {
		return
	}
	payload, err := json.Marshal(b)
	if err != nil {
		r.logger.Error().Err(err).Str("brief_id", b.ID).Msg("brief encode failed, skipping persistence")
		return
	}
	if r.sql != nil {
		_, err := r.sql.Exec(ctx, sqlinline.QUpsertBrief, b.ID, b.Request.UserID, payload, statusComplete)
		if err == nil {
			return
		}
		r.logger.Warn().Err(err).Str("brief_id", b.ID).Msg("brief upsert failed, trying filesystem fallback")
	}
	if r.files == nil {
		r.logger.Warn().Str("brief_id", b.ID).Msg("no brief store configured, brief not persisted")
		return
	}
	stored := StoredBrief{
		ID:        b.ID,
		UserID:    b.Request.UserID,
		Payload:   payload,
		Status:    statusComplete,
		CreatedAt: b.CreatedAt,
	}
	data, err := json.Marshal(stored)
	if err != nil {
		r.logger.Error().Err(err).Str("brief_id", b.ID).Msg("stored brief encode failed")
		return
	}
	if _, err := r.files.Write(ctx, briefKey(b.ID), data); err != nil {
		r.logger.Warn().Err(err).Str("brief_id", b.ID).Msg("filesystem brief write failed")
	}
}

// Get fetches a persisted brief by id, preferring Postgres.
func (r *BriefRepository) Get(ctx context.Context, id string) (*StoredBrief, error) {
	if r.sql != nil {
		row := r.sql.QueryRow(ctx, sqlinline.QSelectBriefByID, id)
		var stored StoredBrief
		err := row.Scan(&stored.ID, &stored.UserID, &stored.Payload, &stored.Status, &stored.CreatedAt)
		if err == nil {
			return &stored, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("select brief: %w", err)
		}
	}
	if r.files != nil {
		data, err := r.files.Read(ctx, briefKey(id))
		if err == nil {
			var stored StoredBrief
			if err := json.Unmarshal(data, &stored); err != nil {
				return nil, fmt.Errorf("decode stored brief: %w", err)
			}
			return &stored, nil
		}
	}
	return nil, ErrBriefNotFound
}

// RecordUsage inserts a usage event, best-effort.
func (r *BriefRepository) RecordUsage(ctx context.Context, userID, briefID, eventType string, success bool, latencyMS int64, properties any) {
	if r.sql == nil {
		return
	}
	props, err := json.Marshal(properties)
	if err != nil {
		props = []byte("{}")
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertUsageEvent, userID, briefID, eventType, success, latencyMS, props); err != nil {
		r.logger.Warn().Err(err).Str("event_type", eventType).Msg("usage event insert failed")
	}
}

func briefKey(id string) string {
	return "briefs/" + id + ".json"
}
