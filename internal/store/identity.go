package store

import (
	"database/sql"
	"fmt"
	"time"
)

// entityKind discriminates entity tables for identity resolution.
type entityKind string

const (
	kindUser     entityKind = "users"
	kindArtist   entityKind = "artists"
	kindAlbum    entityKind = "albums"
	kindTrack    entityKind = "tracks"
	kindPlaylist entityKind = "playlists"
)

// identityKey addresses one entity within a sync pass.
type identityKey struct {
	kind entityKind
	id   string
}

// syncPass carries the per-transaction state of one snapshot sync: the open
// transaction, a wall-clock timestamp shared by every row it touches, the
// identity map of entities already staged, and running counters for the report.
type syncPass struct {
	tx     *sql.Tx
	now    time.Time
	staged map[identityKey]bool
	report SyncReport
}

func newSyncPass(tx *sql.Tx) *syncPass {
	return &syncPass{
		tx:     tx,
		now:    time.Now().UTC(),
		staged: make(map[identityKey]bool),
	}
}

// resolve reports whether the entity already has a row: either staged earlier
// in this pass, or committed by a prior sync. The staged map is consulted
// first so an entity appearing in several places within one payload graph
// (the same artist on a track and on its album) never produces a second
// insert before the first is visible.
func (p *syncPass) resolve(kind entityKind, id string) (bool, error) {
	if p.staged[identityKey{kind, id}] {
		return true, nil
	}

	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)", kind)
	if err := p.tx.QueryRow(query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to resolve %s %s: %w", kind, id, err)
	}

	return exists, nil
}

// stage records that the entity now has a row in this transaction.
func (p *syncPass) stage(kind entityKind, id string) {
	p.staged[identityKey{kind, id}] = true
}

// stagedInPass reports whether the entity was already written by this pass,
// as opposed to merely existing from a prior sync.
func (p *syncPass) stagedInPass(kind entityKind, id string) bool {
	return p.staged[identityKey{kind, id}]
}
