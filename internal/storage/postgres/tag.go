package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

type TagStore struct {
	db *sqlx.DB
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db}
}

// ReplaceForContent sets the tag labels of a content row, dropping the old
// ones.
func (s *TagStore) ReplaceForContent(ctx context.Context, contentID int64, labels []string) error {
	exec := GetExecutor(ctx, s.db)

	_, err := exec.ExecContext(ctx,
		"DELETE FROM content_tags WHERE content_id = $1",
		contentID,
	)
	if err != nil {
		return fmt.Errorf("delete tags: %w", err)
	}

	labels = dedupe(labels)
	if len(labels) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO content_tags (content_id, label) VALUES ")
	valueArgs := make([]any, 0, len(labels)+1)
	valueArgs = append(valueArgs, contentID)

	for i, label := range labels {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("($1, $")
		sb.WriteString(strconv.Itoa(i + 2))
		sb.WriteString(")")
		valueArgs = append(valueArgs, label)
	}
	sb.WriteString(" ON CONFLICT DO NOTHING")

	if _, err := exec.ExecContext(ctx, sb.String(), valueArgs...); err != nil {
		return fmt.Errorf("insert tags: %w", err)
	}
	return nil
}

func dedupe(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
