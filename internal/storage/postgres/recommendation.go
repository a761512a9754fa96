package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"agri_advisor/internal/domain"
)

type RecommendationStore struct {
	db *sqlx.DB
}

func NewRecommendationStore(db *sqlx.DB) *RecommendationStore {
	return &RecommendationStore{db: db}
}

// Insert stores rec and fills in its id and saved-at time.
func (s *RecommendationStore) Insert(ctx context.Context, rec *domain.SavedRecommendation) error {
	request, err := json.Marshal(rec.Request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	query := `
		INSERT INTO recommendations (user_email, fertilizer, request, result)
		VALUES ($1, $2, $3, $4)
		RETURNING id, saved_at`

	err = GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		rec.UserEmail,
		rec.Result.Fertilizer,
		request,
		result,
	).Scan(&rec.ID, &rec.SavedAt)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}
	return nil
}

type recommendationRow struct {
	ID        int64     `db:"id"`
	UserEmail string    `db:"user_email"`
	Request   []byte    `db:"request"`
	Result    []byte    `db:"result"`
	SavedAt   time.Time `db:"saved_at"`
}

// ListByUser returns the newest recommendations of a user first.
func (s *RecommendationStore) ListByUser(ctx context.Context, email string, limit int) ([]domain.SavedRecommendation, error) {
	query := `
		SELECT id, user_email, request, result, saved_at
		FROM recommendations
		WHERE user_email = $1
		ORDER BY saved_at DESC, id DESC
		LIMIT $2`

	var rows []recommendationRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, email, limit); err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}

	out := make([]domain.SavedRecommendation, 0, len(rows))
	for _, r := range rows {
		rec := domain.SavedRecommendation{
			ID:        r.ID,
			UserEmail: r.UserEmail,
			SavedAt:   r.SavedAt,
		}
		if err := json.Unmarshal(r.Request, &rec.Request); err != nil {
			return nil, fmt.Errorf("decode request %d: %w", r.ID, err)
		}
		if err := json.Unmarshal(r.Result, &rec.Result); err != nil {
			return nil, fmt.Errorf("decode result %d: %w", r.ID, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
