package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"agri_advisor/internal/domain"
)

// Fingerprint hashes every field of a record that is persisted by the mirror.
// Tag order does not matter.
func Fingerprint(r domain.ContentRecord) string {
	r.Tags = slices.Clone(r.Tags)
	slices.Sort(r.Tags)
	if r.PublishedAt != nil {
		t := r.PublishedAt.UTC()
		r.PublishedAt = &t
	}

	// ContentRecord only holds strings, a time and a slice, so Marshal cannot fail.
	data, _ := json.Marshal(r)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
