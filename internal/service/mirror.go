package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"agri_advisor/internal/config"
	"agri_advisor/internal/content"
	"agri_advisor/internal/domain"
)

// MirrorService copies articles and techniques from the farm API into local
// storage and announces what changed.
type MirrorService struct {
	source      ContentSource
	contents    ContentStore
	tags        TagStore
	mirrorState MirrorStateStore
	txManager   TransactionManager
	publisher   ContentPublisher
	logger      *slog.Logger
	kinds       []domain.ContentKind
	limit       int
}

// NewMirrorService creates the service. publisher may be nil.
func NewMirrorService(
	source ContentSource,
	contents ContentStore,
	tags TagStore,
	mirrorState MirrorStateStore,
	txManager TransactionManager,
	publisher ContentPublisher,
	logger *slog.Logger,
	cfg config.MirrorConfig,
) (*MirrorService, error) {
	kinds, err := cfg.ContentKinds()
	if err != nil {
		return nil, fmt.Errorf("mirror kinds: %w", err)
	}

	return &MirrorService{
		source:      source,
		contents:    contents,
		tags:        tags,
		mirrorState: mirrorState,
		txManager:   txManager,
		publisher:   publisher,
		logger:      logger.With("component", "mirror"),
		kinds:       kinds,
		limit:       cfg.Limit,
	}, nil
}

// pending is a record that must be written, with the hash it is stored under.
type pending struct {
	record domain.ContentRecord
	hash   string
	isNew  bool
}

// Sync mirrors every configured kind. A failing kind does not stop the others;
// its error is returned together with the totals.
func (s *MirrorService) Sync(ctx context.Context) (*domain.MirrorStats, error) {
	startTime := time.Now()
	total := &domain.MirrorStats{}

	var errs []error
	for _, kind := range s.kinds {
		stats, err := s.SyncKind(ctx, kind)
		if stats != nil {
			total.Add(*stats)
		}
		if err != nil {
			s.logger.Error("mirror failed", "kind", kind, "error", err)
			errs = append(errs, fmt.Errorf("mirror %s: %w", kind, err))
		}
	}

	total.Duration = time.Since(startTime)
	return total, errors.Join(errs...)
}

// SyncKind mirrors one content kind.
func (s *MirrorService) SyncKind(ctx context.Context, kind domain.ContentKind) (*domain.MirrorStats, error) {
	startTime := time.Now()
	logger := s.logger.With("kind", kind)
	logger.Info("starting mirror", "limit", s.limit)

	records, err := s.source.ListContent(ctx, kind, domain.ListOptions{Limit: s.limit})
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}

	logger.Info("fetched content", "count", len(records))

	stats := &domain.MirrorStats{
		Kind:    kind,
		Fetched: len(records),
	}

	resolved := make([]domain.ContentRecord, 0, len(records))
	for _, r := range records {
		if !r.Resolved() {
			stats.Unresolved++
			continue
		}
		resolved = append(resolved, r)
	}

	toSync, err := s.filterForSync(ctx, kind, resolved)
	if err != nil {
		return nil, fmt.Errorf("filter for sync: %w", err)
	}
	stats.Skipped = len(resolved) - len(toSync)

	logger.Info("content to sync", "count", len(toSync))

	var lastRecordID string
	for i := range toSync {
		p := &toSync[i]
		if err := s.saveRecord(ctx, kind, p); err != nil {
			logger.Warn("failed to save record", "record_id", p.record.ID, "error", err)
			stats.Errors++
			continue
		}
		lastRecordID = p.record.ID

		if s.publisher != nil {
			if err := s.publisher.PublishContent(ctx, kind, &p.record, p.isNew); err != nil {
				logger.Warn("failed to publish record", "record_id", p.record.ID, "error", err)
				stats.Errors++
			} else {
				stats.Published++
			}
		}

		if p.isNew {
			stats.New++
		} else {
			stats.Updated++
		}
	}

	if err := s.updateMirrorState(ctx, kind, lastRecordID, stats); err != nil {
		return stats, fmt.Errorf("update mirror state: %w", err)
	}

	stats.Duration = time.Since(startTime)

	logger.Info("mirror completed",
		"new", stats.New,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"unresolved", stats.Unresolved,
		"errors", stats.Errors,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

// filterForSync keeps records that are not stored yet or whose hash changed.
// When the same id appears twice only its last occurrence is kept.
func (s *MirrorService) filterForSync(ctx context.Context, kind domain.ContentKind, records []domain.ContentRecord) ([]pending, error) {
	if len(records) == 0 {
		return nil, nil
	}

	last := make(map[string]int, len(records))
	ids := make([]string, 0, len(records))
	for i, r := range records {
		if _, seen := last[r.ID]; !seen {
			ids = append(ids, r.ID)
		}
		last[r.ID] = i
	}

	existing, err := s.contents.GetExistingHashes(ctx, kind, ids)
	if err != nil {
		return nil, err
	}

	var toSync []pending
	for _, id := range ids {
		record := records[last[id]]
		hash := content.Fingerprint(record)

		stored, exists := existing[id]
		if exists && stored == hash {
			continue
		}
		toSync = append(toSync, pending{record: record, hash: hash, isNew: !exists})
	}

	return toSync, nil
}

func (s *MirrorService) saveRecord(ctx context.Context, kind domain.ContentKind, p *pending) error {
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		contentID, err := s.contents.Upsert(txCtx, kind, &p.record, p.hash)
		if err != nil {
			return fmt.Errorf("upsert content: %w", err)
		}

		if err := s.tags.ReplaceForContent(txCtx, contentID, p.record.Tags); err != nil {
			return fmt.Errorf("replace tags: %w", err)
		}

		return nil
	})
}

func (s *MirrorService) updateMirrorState(ctx context.Context, kind domain.ContentKind, lastRecordID string, stats *domain.MirrorStats) error {
	state, err := s.mirrorState.Get(ctx, string(kind))
	if err != nil {
		return err
	}

	state.Kind = string(kind)
	state.LastSyncedAt = time.Now()
	if lastRecordID != "" {
		state.LastRecordID = lastRecordID
	}
	state.TotalSynced += int64(stats.New + stats.Updated)

	return s.mirrorState.Update(ctx, state)
}
