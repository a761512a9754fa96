package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"agri_advisor/internal/domain"
)

const DefaultHistoryLimit = 20

// HistoryService keeps the recommendations a user chose to save.
type HistoryService struct {
	store     RecommendationStore
	publisher RecommendationPublisher
	logger    *slog.Logger
}

// NewHistoryService creates the service. publisher may be nil.
func NewHistoryService(store RecommendationStore, publisher RecommendationPublisher, logger *slog.Logger) *HistoryService {
	return &HistoryService{
		store:     store,
		publisher: publisher,
		logger:    logger.With("component", "history"),
	}
}

// Save stores a recommendation for user and announces it. A failed
// announcement is logged and the saved entry is still returned.
func (s *HistoryService) Save(ctx context.Context, user domain.Identity, req domain.RecommendationRequest, result domain.RecommendationResult) (*domain.SavedRecommendation, error) {
	if user.Email == "" {
		return nil, errors.New("save recommendation: user has no email")
	}

	rec := &domain.SavedRecommendation{
		UserEmail: user.Email,
		Request:   req,
		Result:    result,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("insert recommendation: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishRecommendation(ctx, rec); err != nil {
			s.logger.Warn("failed to publish recommendation", "id", rec.ID, "error", err)
		}
	}

	s.logger.Info("recommendation stored", "id", rec.ID, "user", rec.UserEmail)
	return rec, nil
}

// List returns the newest saved recommendations of a user first.
func (s *HistoryService) List(ctx context.Context, email string, limit int) ([]domain.SavedRecommendation, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	recs, err := s.store.ListByUser(ctx, email, limit)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return recs, nil
}
