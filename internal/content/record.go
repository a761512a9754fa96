package content

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"agri_advisor/internal/domain"
)

var (
	imageKeys       = []string{"image", "image_url", "imageUrl", "cover"}
	descriptionKeys = []string{"excerpt", "description", "summary", "content", "body"}
	dateKeys        = []string{"publishedAt", "createdAt", "date", "created_at", "updatedAt"}
	authorKeys      = []string{"author", "createdBy", "user"}
)

// naive layouts are interpreted as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// MapRecord maps one raw record to the canonical shape. Non-object input
// yields a record made entirely of defaults.
func MapRecord(raw any) domain.ContentRecord {
	m, _ := raw.(map[string]any)

	description := firstText(m, descriptionKeys...)
	content := firstText(m, "content", "body")
	if content == "" {
		content = description
	}

	return domain.ContentRecord{
		ID:          resolveID(m),
		Title:       orDefault(firstText(m, "title", "name"), domain.DefaultTitle),
		Image:       orDefault(firstText(m, imageKeys...), domain.PlaceholderImage),
		Description: description,
		Content:     content,
		PublishedAt: resolveDate(m),
		Author:      orDefault(resolveAuthor(m), domain.DefaultAuthor),
		Category:    text(m["category"]),
		Tags:        resolveTags(m["tags"]),
	}
}

// MapList extracts and maps every record carried by payload.
func MapList(payload any) []domain.ContentRecord {
	items := ExtractList(payload)
	records := make([]domain.ContentRecord, 0, len(items))
	for _, item := range items {
		records = append(records, MapRecord(item))
	}
	return records
}

func resolveID(m map[string]any) string {
	switch oid := m["_id"].(type) {
	case string:
		if oid != "" {
			return oid
		}
	case map[string]any:
		if s := scalar(oid["$oid"]); s != "" {
			return s
		}
	}
	if id := scalar(m["id"]); id != "" {
		return id
	}
	return scalar(m["slug"])
}

func resolveAuthor(m map[string]any) string {
	for _, key := range authorKeys {
		switch v := m[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case map[string]any:
			if name := text(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}

func resolveDate(m map[string]any) *time.Time {
	for _, key := range dateKeys {
		if t, ok := parseTime(m[key]); ok {
			return &t
		}
	}
	return nil
}

func parseTime(v any) (time.Time, bool) {
	switch d := v.(type) {
	case string:
		d = strings.TrimSpace(d)
		if d == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return t.UTC(), true
			}
		}
	case float64, int, int64:
		ms, err := cast.ToInt64E(d)
		if err == nil && ms != 0 {
			return time.UnixMilli(ms).UTC(), true
		}
	case map[string]any:
		// Mongo extended JSON: {"$date": "..."} or {"$date": {"$numberLong": "..."}}
		if inner, ok := d["$date"]; ok {
			if nl, ok := inner.(map[string]any); ok {
				ms, err := strconv.ParseInt(text(nl["$numberLong"]), 10, 64)
				if err != nil {
					return time.Time{}, false
				}
				return time.UnixMilli(ms).UTC(), true
			}
			return parseTime(inner)
		}
	}
	return time.Time{}, false
}

func resolveTags(v any) []string {
	tags := []string{}
	list, ok := v.([]any)
	if !ok {
		return tags
	}
	for _, item := range list {
		if s := text(item); s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}

func firstText(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := text(m[key]); s != "" {
			return s
		}
	}
	return ""
}

// text only accepts strings; anything else counts as absent.
func text(v any) string {
	s, _ := v.(string)
	return s
}

// scalar accepts strings and non-zero numbers, for identifiers.
func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64, int, int64:
		if cast.ToFloat64(x) == 0 {
			return ""
		}
		return cast.ToString(x)
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Excerpt truncates s to n runes, marking the cut with an ellipsis.
func Excerpt(s string, n int) string {
	runes := []rune(s)
	if n < 0 || len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

// Summary returns the text a card shows: the description, falling back to
// the body.
func Summary(r domain.ContentRecord) string {
	if r.Description != "" {
		return r.Description
	}
	return r.Content
}

// FormatDate renders a nullable publication time for display.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
