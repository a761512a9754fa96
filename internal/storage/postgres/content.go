package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"agri_advisor/internal/domain"
)

type ContentStore struct {
	db *sqlx.DB
}

func NewContentStore(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

// Upsert inserts the record or rewrites it when its hash changed. It returns
// the row id either way.
func (s *ContentStore) Upsert(ctx context.Context, kind domain.ContentKind, record *domain.ContentRecord, hash string) (int64, error) {
	query := `
		INSERT INTO content (
			kind, record_id, title, image, description, body, author,
			category, published_at, content_hash, synced_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW()
		)
		ON CONFLICT (kind, record_id) DO UPDATE SET
			title = EXCLUDED.title,
			image = EXCLUDED.image,
			description = EXCLUDED.description,
			body = EXCLUDED.body,
			author = EXCLUDED.author,
			category = EXCLUDED.category,
			published_at = EXCLUDED.published_at,
			content_hash = EXCLUDED.content_hash,
			synced_at = EXCLUDED.synced_at
		WHERE content.content_hash <> EXCLUDED.content_hash
		RETURNING id`

	exec := GetExecutor(ctx, s.db)

	var id int64
	err := exec.QueryRowxContext(ctx, query,
		string(kind),
		record.ID,
		record.Title,
		record.Image,
		record.Description,
		record.Content,
		record.Author,
		record.Category,
		record.PublishedAt,
		hash,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		err = exec.QueryRowxContext(ctx,
			"SELECT id FROM content WHERE kind = $1 AND record_id = $2",
			string(kind), record.ID,
		).Scan(&id)
	}

	if err != nil {
		return 0, fmt.Errorf("upsert content: %w", err)
	}

	return id, nil
}

// GetExistingHashes maps each stored record id to its content hash.
func (s *ContentStore) GetExistingHashes(ctx context.Context, kind domain.ContentKind, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return make(map[string]string), nil
	}

	query := `SELECT record_id, content_hash FROM content WHERE kind = $1 AND record_id = ANY($2)`

	rows, err := GetExecutor(ctx, s.db).QueryxContext(ctx, query, string(kind), pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query hashes: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var recordID, hash string
		if err := rows.Scan(&recordID, &hash); err != nil {
			return nil, fmt.Errorf("scan hash: %w", err)
		}
		result[recordID] = hash
	}

	return result, rows.Err()
}

type contentRow struct {
	RecordID    string         `db:"record_id"`
	Title       string         `db:"title"`
	Image       string         `db:"image"`
	Description string         `db:"description"`
	Body        string         `db:"body"`
	Author      string         `db:"author"`
	Category    string         `db:"category"`
	PublishedAt *time.Time     `db:"published_at"`
	Tags        pq.StringArray `db:"tags"`
}

func (r contentRow) toDomain() domain.ContentRecord {
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return domain.ContentRecord{
		ID:          r.RecordID,
		Title:       r.Title,
		Image:       r.Image,
		Description: r.Description,
		Content:     r.Body,
		PublishedAt: r.PublishedAt,
		Author:      r.Author,
		Category:    r.Category,
		Tags:        tags,
	}
}

const contentSelect = `
	SELECT c.record_id, c.title, c.image, c.description, c.body, c.author,
		c.category, c.published_at,
		COALESCE(ARRAY(
			SELECT t.label FROM content_tags t WHERE t.content_id = c.id ORDER BY t.label
		), '{}') AS tags
	FROM content c`

// ListContent returns mirrored records of a kind, newest first. Section is
// not stored and is ignored.
func (s *ContentStore) ListContent(ctx context.Context, kind domain.ContentKind, opts domain.ListOptions) ([]domain.ContentRecord, error) {
	var sb strings.Builder
	sb.WriteString(contentSelect)
	sb.WriteString(" WHERE c.kind = $1")
	args := []any{string(kind)}

	if opts.Category != "" {
		args = append(args, opts.Category)
		fmt.Fprintf(&sb, " AND c.category = $%d", len(args))
	}
	if opts.Tag != "" {
		args = append(args, opts.Tag)
		fmt.Fprintf(&sb, " AND EXISTS (SELECT 1 FROM content_tags t WHERE t.content_id = c.id AND t.label = $%d)", len(args))
	}
	sb.WriteString(" ORDER BY c.published_at DESC NULLS LAST, c.id DESC")
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	var rows []contentRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}

	records := make([]domain.ContentRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toDomain())
	}
	return records, nil
}

// GetContent returns one mirrored record.
func (s *ContentStore) GetContent(ctx context.Context, kind domain.ContentKind, recordID string) (*domain.ContentRecord, error) {
	var row contentRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row,
		contentSelect+" WHERE c.kind = $1 AND c.record_id = $2",
		string(kind), recordID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound(string(kind) + "/" + recordID)
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}

	record := row.toDomain()
	return &record, nil
}
