package domain

import "time"

// MirrorState tracks how far the local content mirror got for one kind.
type MirrorState struct {
	ID           int64     `db:"id"`
	Kind         string    `db:"kind"`
	LastSyncedAt time.Time `db:"last_synced_at"`
	LastRecordID string    `db:"last_record_id"`
	TotalSynced  int64     `db:"total_synced"`
}

// MirrorStats holds statistics about a mirror run.
type MirrorStats struct {
	Kind       ContentKind
	Fetched    int
	New        int
	Updated    int
	Skipped    int
	Unresolved int
	Errors     int
	Published  int
	Duration   time.Duration
}

// Add folds other into s. Kind is left untouched.
func (s *MirrorStats) Add(other MirrorStats) {
	s.Fetched += other.Fetched
	s.New += other.New
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.Unresolved += other.Unresolved
	s.Errors += other.Errors
	s.Published += other.Published
}
