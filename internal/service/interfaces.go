package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"agri_advisor/internal/domain"
)

type ContentSource interface {
	ListContent(ctx context.Context, kind domain.ContentKind, opts domain.ListOptions) ([]domain.ContentRecord, error)
}

type ContentStore interface {
	Upsert(ctx context.Context, kind domain.ContentKind, record *domain.ContentRecord, hash string) (int64, error)
	GetExistingHashes(ctx context.Context, kind domain.ContentKind, ids []string) (map[string]string, error)
}

type TagStore interface {
	ReplaceForContent(ctx context.Context, contentID int64, labels []string) error
}

type MirrorStateStore interface {
	Get(ctx context.Context, kind string) (*domain.MirrorState, error)
	Update(ctx context.Context, state *domain.MirrorState) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ContentPublisher interface {
	PublishContent(ctx context.Context, kind domain.ContentKind, record *domain.ContentRecord, isNew bool) error
}

type RecommendationStore interface {
	Insert(ctx context.Context, rec *domain.SavedRecommendation) error
	ListByUser(ctx context.Context, email string, limit int) ([]domain.SavedRecommendation, error)
}

type RecommendationPublisher interface {
	PublishRecommendation(ctx context.Context, rec *domain.SavedRecommendation) error
}
