package store

import (
	"fmt"
	"time"

	"github.com/desertthunder/musivault/internal/models"
)

// Association sets are replaced, never merged: each replacer deletes every
// row in its scope and re-inserts the new membership inside the sync
// transaction, so replaying the same snapshot always converges on the same
// final rows and a mid-replace failure rolls back to the pre-sync state.

// parseAddedAt parses an RFC 3339 added-at timestamp. The second return is
// false when the value is present but malformed; an empty value is valid and
// yields a nil time.
func parseAddedAt(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, false
	}
	utc := t.UTC()
	return &utc, true
}

// replaceTrackArtists pins the track's artist edges to exactly artistIDs.
func (p *syncPass) replaceTrackArtists(trackID string, artistIDs []string) error {
	if _, err := p.tx.Exec("DELETE FROM track_artists WHERE track_id = ?", trackID); err != nil {
		return fmt.Errorf("failed to clear track artists for %s: %w", trackID, err)
	}
	for _, artistID := range artistIDs {
		if _, err := p.tx.Exec("INSERT OR IGNORE INTO track_artists (track_id, artist_id) VALUES (?, ?)", trackID, artistID); err != nil {
			return fmt.Errorf("failed to link track %s to artist %s: %w", trackID, artistID, err)
		}
	}
	return nil
}

// replaceAlbumArtists pins the album's artist edges to exactly artistIDs.
func (p *syncPass) replaceAlbumArtists(albumID string, artistIDs []string) error {
	if _, err := p.tx.Exec("DELETE FROM album_artists WHERE album_id = ?", albumID); err != nil {
		return fmt.Errorf("failed to clear album artists for %s: %w", albumID, err)
	}
	for _, artistID := range artistIDs {
		if _, err := p.tx.Exec("INSERT OR IGNORE INTO album_artists (album_id, artist_id) VALUES (?, ?)", albumID, artistID); err != nil {
			return fmt.Errorf("failed to link album %s to artist %s: %w", albumID, artistID, err)
		}
	}
	return nil
}

// replacePlaylistTracks replaces the playlist's ordered membership with the
// given items. Items whose track was not persisted (missing ID) or whose
// added-at timestamp is malformed are dropped; surviving items keep their
// relative order as 0-based positions. The edge carries the item's own
// added-at and adder, not anything from the track entity.
func (p *syncPass) replacePlaylistTracks(playlistID string, items []models.PlaylistItem) (int, error) {
	if _, err := p.tx.Exec("DELETE FROM playlist_tracks WHERE playlist_id = ?", playlistID); err != nil {
		return 0, fmt.Errorf("failed to clear playlist tracks for %s: %w", playlistID, err)
	}

	position := 0
	for _, item := range items {
		if item.Track == nil || item.Track.ID == "" || !p.stagedInPass(kindTrack, item.Track.ID) {
			continue
		}

		addedAt, ok := parseAddedAt(item.AddedAt)
		if !ok {
			p.report.Skipped++
			continue
		}

		_, err := p.tx.Exec(`
			INSERT INTO playlist_tracks (playlist_id, track_id, position, added_at, added_by_id)
			VALUES (?, ?, ?, ?, ?)
		`, playlistID, item.Track.ID, position, addedAt, nullIfEmpty(item.AddedBy.ID))
		if err != nil {
			return 0, fmt.Errorf("failed to insert playlist track %s/%s: %w", playlistID, item.Track.ID, err)
		}
		position++
	}

	p.report.PlaylistTracks += position
	return position, nil
}

// replaceSavedTracks replaces the user's saved-track set.
func (p *syncPass) replaceSavedTracks(userID string, items []models.SavedTrackItem) (int, error) {
	if _, err := p.tx.Exec("DELETE FROM saved_tracks WHERE user_id = ?", userID); err != nil {
		return 0, fmt.Errorf("failed to clear saved tracks for %s: %w", userID, err)
	}

	count := 0
	for _, item := range items {
		if item.Track == nil || item.Track.ID == "" || !p.stagedInPass(kindTrack, item.Track.ID) {
			continue
		}

		addedAt, ok := parseAddedAt(item.AddedAt)
		if !ok {
			p.report.Skipped++
			continue
		}

		_, err := p.tx.Exec(`
			INSERT INTO saved_tracks (user_id, track_id, added_at, created_at)
			VALUES (?, ?, ?, ?)
		`, userID, item.Track.ID, addedAt, p.now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert saved track %s/%s: %w", userID, item.Track.ID, err)
		}
		count++
	}

	p.report.SavedTracks += count
	return count, nil
}

// replaceTopTracks replaces the ranked top-tracks set for one (user, time
// range) scope. Ranks are 1-based in input order.
func (p *syncPass) replaceTopTracks(userID, timeRange string, trackIDs []string) (int, error) {
	if _, err := p.tx.Exec("DELETE FROM user_top_tracks WHERE user_id = ? AND time_range = ?", userID, timeRange); err != nil {
		return 0, fmt.Errorf("failed to clear top tracks for %s/%s: %w", userID, timeRange, err)
	}

	for i, trackID := range trackIDs {
		_, err := p.tx.Exec(`
			INSERT INTO user_top_tracks (user_id, track_id, time_range, rank, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, userID, trackID, timeRange, i+1, p.now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert top track %s/%s: %w", userID, trackID, err)
		}
	}

	p.report.TopTracks += len(trackIDs)
	return len(trackIDs), nil
}

// replaceTopArtists replaces the ranked top-artists set for one (user, time
// range) scope.
func (p *syncPass) replaceTopArtists(userID, timeRange string, artistIDs []string) (int, error) {
	if _, err := p.tx.Exec("DELETE FROM user_top_artists WHERE user_id = ? AND time_range = ?", userID, timeRange); err != nil {
		return 0, fmt.Errorf("failed to clear top artists for %s/%s: %w", userID, timeRange, err)
	}

	for i, artistID := range artistIDs {
		_, err := p.tx.Exec(`
			INSERT INTO user_top_artists (user_id, artist_id, time_range, rank, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, userID, artistID, timeRange, i+1, p.now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert top artist %s/%s: %w", userID, artistID, err)
		}
	}

	p.report.TopArtists += len(artistIDs)
	return len(artistIDs), nil
}

// replaceFollowedArtists replaces the user's followed-artist set.
func (p *syncPass) replaceFollowedArtists(userID string, artistIDs []string) (int, error) {
	if _, err := p.tx.Exec("DELETE FROM user_followed_artists WHERE user_id = ?", userID); err != nil {
		return 0, fmt.Errorf("failed to clear followed artists for %s: %w", userID, err)
	}

	count := 0
	for _, artistID := range artistIDs {
		result, err := p.tx.Exec(`
			INSERT OR IGNORE INTO user_followed_artists (user_id, artist_id, followed_at)
			VALUES (?, ?, ?)
		`, userID, artistID, p.now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert followed artist %s/%s: %w", userID, artistID, err)
		}
		if n, err := result.RowsAffected(); err == nil {
			count += int(n)
		}
	}

	p.report.FollowedArtists += count
	return count, nil
}
