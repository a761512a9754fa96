package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"agri_advisor/internal/domain"
)

type MirrorStateStore struct {
	db *sqlx.DB
}

func NewMirrorStateStore(db *sqlx.DB) *MirrorStateStore {
	return &MirrorStateStore{db: db}
}

// Get returns the mirror state of a kind. A kind that was never mirrored gets
// a zero state.
func (s *MirrorStateStore) Get(ctx context.Context, kind string) (*domain.MirrorState, error) {
	var state domain.MirrorState
	query := `
		SELECT id, kind, last_synced_at, last_record_id, total_synced
		FROM mirror_state
		WHERE kind = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &state, query, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.MirrorState{
			Kind:         kind,
			LastSyncedAt: time.Time{},
			TotalSynced:  0,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get mirror state: %w", err)
	}
	return &state, nil
}

func (s *MirrorStateStore) Update(ctx context.Context, state *domain.MirrorState) error {
	query := `
		INSERT INTO mirror_state (kind, last_synced_at, last_record_id, total_synced)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (kind) DO UPDATE SET
			last_synced_at = EXCLUDED.last_synced_at,
			last_record_id = EXCLUDED.last_record_id,
			total_synced = EXCLUDED.total_synced`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		state.Kind,
		state.LastSyncedAt,
		state.LastRecordID,
		state.TotalSynced,
	)
	if err != nil {
		return fmt.Errorf("update mirror state: %w", err)
	}
	return nil
}

// All returns the state of every mirrored kind.
func (s *MirrorStateStore) All(ctx context.Context) ([]domain.MirrorState, error) {
	var states []domain.MirrorState
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &states,
		`SELECT id, kind, last_synced_at, last_record_id, total_synced FROM mirror_state ORDER BY kind`)
	if err != nil {
		return nil, fmt.Errorf("list mirror state: %w", err)
	}
	return states, nil
}
