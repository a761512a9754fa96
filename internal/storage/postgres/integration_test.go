//go:build integration

package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"agri_advisor/internal/domain"
	"agri_advisor/internal/views"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_content.up.sql"),
			filepath.Join(migrationsPath, "002_create_recommendations.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := Connect(s.ctx, connStr, 5, 2)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM content_tags")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM content")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM mirror_state")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM recommendations")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func record(id, title string) *domain.ContentRecord {
	published := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	return &domain.ContentRecord{
		ID:          id,
		Title:       title,
		Image:       domain.PlaceholderImage,
		Description: "Short description",
		Content:     "Full body",
		PublishedAt: &published,
		Author:      domain.DefaultAuthor,
		Category:    "irrigation",
		Tags:        []string{},
	}
}

func (s *PostgresIntegrationSuite) TestContentStore_Upsert_Insert() {
	store := NewContentStore(s.db)

	id, err := store.Upsert(s.ctx, domain.KindArticle, record("a1", "Soil"), "h1")
	s.NoError(err)
	s.Greater(id, int64(0))

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM content WHERE kind = $1 AND record_id = $2", "articles", "a1")
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestContentStore_Upsert_UpdateWhenHashChanges() {
	store := NewContentStore(s.db)

	rec := record("a1", "Original")
	id1, err := store.Upsert(s.ctx, domain.KindArticle, rec, "h1")
	s.NoError(err)

	rec.Title = "Updated"
	id2, err := store.Upsert(s.ctx, domain.KindArticle, rec, "h2")
	s.NoError(err)
	s.Equal(id1, id2)

	var title string
	err = s.db.GetContext(s.ctx, &title, "SELECT title FROM content WHERE id = $1", id1)
	s.NoError(err)
	s.Equal("Updated", title)
}

func (s *PostgresIntegrationSuite) TestContentStore_Upsert_SameHashKeepsRow() {
	store := NewContentStore(s.db)

	rec := record("a1", "Kept")
	id1, err := store.Upsert(s.ctx, domain.KindArticle, rec, "h1")
	s.NoError(err)

	rec.Title = "Ignored"
	id2, err := store.Upsert(s.ctx, domain.KindArticle, rec, "h1")
	s.NoError(err)
	s.Equal(id1, id2)

	var title string
	err = s.db.GetContext(s.ctx, &title, "SELECT title FROM content WHERE id = $1", id1)
	s.NoError(err)
	s.Equal("Kept", title)
}

func (s *PostgresIntegrationSuite) TestContentStore_GetExistingHashes_PerKind() {
	store := NewContentStore(s.db)

	_, err := store.Upsert(s.ctx, domain.KindArticle, record("x", "Article"), "ha")
	s.NoError(err)
	_, err = store.Upsert(s.ctx, domain.KindTechnique, record("x", "Technique"), "ht")
	s.NoError(err)

	hashes, err := store.GetExistingHashes(s.ctx, domain.KindArticle, []string{"x", "missing"})
	s.NoError(err)
	s.Equal(map[string]string{"x": "ha"}, hashes)

	hashes, err = store.GetExistingHashes(s.ctx, domain.KindTechnique, []string{"x"})
	s.NoError(err)
	s.Equal("ht", hashes["x"])

	hashes, err = store.GetExistingHashes(s.ctx, domain.KindTechnique, nil)
	s.NoError(err)
	s.Empty(hashes)
}

func (s *PostgresIntegrationSuite) TestContentStore_ListFiltersAndTags() {
	store := NewContentStore(s.db)
	tags := NewTagStore(s.db)

	drip := record("t1", "Drip")
	id, err := store.Upsert(s.ctx, domain.KindTechnique, drip, "h1")
	s.NoError(err)
	s.NoError(tags.ReplaceForContent(s.ctx, id, []string{"water", "efficiency", "water"}))

	mulch := record("t2", "Mulch")
	mulch.Category = "soil"
	_, err = store.Upsert(s.ctx, domain.KindTechnique, mulch, "h2")
	s.NoError(err)

	all, err := store.ListContent(s.ctx, domain.KindTechnique, domain.ListOptions{})
	s.NoError(err)
	s.Len(all, 2)

	byCategory, err := store.ListContent(s.ctx, domain.KindTechnique, domain.ListOptions{Category: "irrigation"})
	s.NoError(err)
	s.Require().Len(byCategory, 1)
	s.Equal("t1", byCategory[0].ID)
	s.Equal([]string{"efficiency", "water"}, byCategory[0].Tags)

	byTag, err := store.ListContent(s.ctx, domain.KindTechnique, domain.ListOptions{Tag: "water", Limit: 1})
	s.NoError(err)
	s.Require().Len(byTag, 1)
	s.Equal("Drip", byTag[0].Title)

	got, err := store.GetContent(s.ctx, domain.KindTechnique, "t2")
	s.NoError(err)
	s.Equal("Mulch", got.Title)
	s.NotNil(got.Tags)
	s.Empty(got.Tags)

	_, err = store.GetContent(s.ctx, domain.KindArticle, "t2")
	s.True(domain.IsKind(err, domain.KindNotFound))
}

func (s *PostgresIntegrationSuite) TestContentStore_ServesViews() {
	store := NewContentStore(s.db)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	_, err := store.Upsert(s.ctx, domain.KindTechnique, record("t1", "Drip"), "h1")
	s.NoError(err)

	list := views.NewTechniquesIndex(store, domain.ListOptions{Category: "irrigation"}, logger)
	state := list.Load(s.ctx)
	s.NoError(state.Err)
	s.Require().Len(state.Records, 1)
	s.Equal("Drip", state.Records[0].Title)

	detail := views.NewDetailView(store, domain.KindTechnique, logger)
	s.Equal("Drip", detail.Load(s.ctx, "t1").Record.Title)
	s.True(detail.Load(s.ctx, "missing").NotFound())
}

func (s *PostgresIntegrationSuite) TestTagStore_ReplaceForContent() {
	store := NewContentStore(s.db)
	tags := NewTagStore(s.db)

	id, err := store.Upsert(s.ctx, domain.KindArticle, record("a1", "Soil"), "h1")
	s.NoError(err)

	s.NoError(tags.ReplaceForContent(s.ctx, id, []string{"soil", "testing"}))
	s.NoError(tags.ReplaceForContent(s.ctx, id, []string{"nutrients"}))

	got, err := store.GetContent(s.ctx, domain.KindArticle, "a1")
	s.NoError(err)
	s.Equal([]string{"nutrients"}, got.Tags)

	s.NoError(tags.ReplaceForContent(s.ctx, id, nil))
	got, err = store.GetContent(s.ctx, domain.KindArticle, "a1")
	s.NoError(err)
	s.Empty(got.Tags)
}

func (s *PostgresIntegrationSuite) TestMirrorStateStore_GetNew() {
	store := NewMirrorStateStore(s.db)

	state, err := store.Get(s.ctx, "articles")
	s.NoError(err)
	s.NotNil(state)
	s.Equal("articles", state.Kind)
	s.True(state.LastSyncedAt.IsZero())
	s.Equal(int64(0), state.TotalSynced)
}

func (s *PostgresIntegrationSuite) TestMirrorStateStore_UpdateAndGet() {
	store := NewMirrorStateStore(s.db)
	now := time.Now().Truncate(time.Microsecond)

	state := &domain.MirrorState{
		Kind:         "techniques",
		LastSyncedAt: now,
		LastRecordID: "t9",
		TotalSynced:  10,
	}
	s.NoError(store.Update(s.ctx, state))

	state.LastRecordID = "t12"
	state.TotalSynced = 20
	s.NoError(store.Update(s.ctx, state))

	retrieved, err := store.Get(s.ctx, "techniques")
	s.NoError(err)
	s.Equal("t12", retrieved.LastRecordID)
	s.Equal(int64(20), retrieved.TotalSynced)
	s.WithinDuration(now, retrieved.LastSyncedAt, time.Second)

	all, err := store.All(s.ctx)
	s.NoError(err)
	s.Len(all, 1)
}

func (s *PostgresIntegrationSuite) TestRecommendationStore_InsertAndList() {
	store := NewRecommendationStore(s.db)

	for i, fertilizer := range []string{"Urea", "DAP", "MOP"} {
		rec := &domain.SavedRecommendation{
			UserEmail: "asha@example.com",
			Request: domain.RecommendationRequest{
				N: float64(40 + i), P: 20, K: 15, PH: 6.5, Moisture: 30, Temperature: 25,
				CropType: "Wheat", SoilType: "Loamy",
			},
			Result: domain.RecommendationResult{
				Fertilizer: fertilizer,
				Details: domain.RecommendationDetails{
					Market: &domain.MarketPrice{AvgPrice: "300", Currency: "INR", Unit: "kg"},
				},
			},
		}
		s.NoError(store.Insert(s.ctx, rec))
		s.Greater(rec.ID, int64(0))
		s.False(rec.SavedAt.IsZero())
	}

	other := &domain.SavedRecommendation{UserEmail: "bala@example.com", Result: domain.RecommendationResult{Fertilizer: "Urea"}}
	s.NoError(store.Insert(s.ctx, other))

	list, err := store.ListByUser(s.ctx, "asha@example.com", 2)
	s.NoError(err)
	s.Require().Len(list, 2)
	s.Equal("MOP", list[0].Result.Fertilizer)
	s.Equal("DAP", list[1].Result.Fertilizer)
	s.Equal(41.0, list[1].Request.N)
	s.Equal(domain.Quantity("300"), list[0].Result.Details.Market.AvgPrice)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	store := NewContentStore(s.db)
	tags := NewTagStore(s.db)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		id, err := store.Upsert(ctx, domain.KindArticle, record("tx1", "Transactional"), "h")
		if err != nil {
			return err
		}
		return tags.ReplaceForContent(ctx, id, []string{"tx"})
	})
	s.NoError(err)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM content_tags WHERE label = $1", "tx")
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestTransaction_Rollback() {
	tm := NewTransactionManager(s.db)
	store := NewContentStore(s.db)

	_, err := store.Upsert(s.ctx, domain.KindArticle, record("keep", "Pre-existing"), "h")
	s.NoError(err)

	errBoom := errors.New("boom")
	err = tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if _, err := store.Upsert(ctx, domain.KindArticle, record("gone", "Should Rollback"), "h"); err != nil {
			return err
		}
		return errBoom
	})
	s.ErrorIs(err, errBoom)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM content WHERE record_id = $1", "gone")
	s.NoError(err)
	s.Equal(0, count)

	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM content WHERE record_id = $1", "keep")
	s.NoError(err)
	s.Equal(1, count)
}
