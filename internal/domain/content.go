package domain

import "time"

// ContentKind names a content collection exposed by the farm API.
type ContentKind string

const (
	KindArticle   ContentKind = "articles"
	KindTechnique ContentKind = "techniques"
)

// Valid reports whether k is a known content collection.
func (k ContentKind) Valid() bool {
	return k == KindArticle || k == KindTechnique
}

const (
	DefaultTitle  = "Untitled"
	DefaultAuthor = "Admin"
	// PlaceholderImage is shown for records that carry no image of their own.
	PlaceholderImage = "https://images.unsplash.com/photo-1461354464878-ad92f492a5a0?w=800&q=80"
)

// ContentRecord is the canonical article/technique shape used by every list
// and detail view. All fields are always set; see content.MapRecord.
type ContentRecord struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"publishedAt"`
	Author      string     `json:"author"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
}

// Resolved reports whether the record carries a usable identifier.
func (r ContentRecord) Resolved() bool {
	return r.ID != ""
}

// ListOptions are the query parameters accepted by the content list endpoints.
type ListOptions struct {
	Section  string
	Category string
	Tag      string
	Limit    int
}
