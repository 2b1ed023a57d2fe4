package store

import (
	"context"
	"fmt"

	"github.com/desertthunder/musivault/internal/models"
	"github.com/desertthunder/musivault/internal/shared"
)

// SyncReport summarizes one snapshot sync: the canonical user ID plus counts
// of entities and association rows written, and of payload items skipped for
// missing IDs or malformed timestamps.
type SyncReport struct {
	UserID          string `json:"user_id"`
	Users           int    `json:"users"`
	Artists         int    `json:"artists"`
	Albums          int    `json:"albums"`
	Tracks          int    `json:"tracks"`
	Playlists       int    `json:"playlists"`
	PlaylistTracks  int    `json:"playlist_tracks"`
	SavedTracks     int    `json:"saved_tracks"`
	TopTracks       int    `json:"top_tracks"`
	TopArtists      int    `json:"top_artists"`
	FollowedArtists int    `json:"followed_artists"`
	Skipped         int    `json:"skipped"`
}

// StoreUserSnapshot reconciles one complete library snapshot into the vault
// as a single transaction: the user first, then playlists with their tracks,
// then the scoped association sets. Any persistence failure rolls the whole
// sync back; readers never observe a partial snapshot.
//
// Nil optional inputs clear their scope the same way empty ones do: a
// snapshot with no top-artists pages leaves the user with no stored top
// artists for any time range.
func (s *Store) StoreUserSnapshot(ctx context.Context, snap models.Snapshot) (*SyncReport, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin sync transaction: %w", err)
	}
	defer tx.Rollback()

	pass := newSyncPass(tx)

	userID, err := pass.upsertUser(snap.User)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSyncFailed, err)
	}

	for _, ps := range snap.Playlists {
		playlistID, err := pass.upsertPlaylist(ps.Playlist, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrSyncFailed, err)
		}
		if playlistID == "" {
			continue
		}

		for _, item := range ps.Items {
			if item.Track == nil {
				pass.report.Skipped++
				continue
			}
			if _, err := pass.upsertTrack(*item.Track); err != nil {
				return nil, fmt.Errorf("%w: %w", shared.ErrSyncFailed, err)
			}
		}

		if _, err := pass.replacePlaylistTracks(playlistID, ps.Items); err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrSyncFailed, err)
		}
	}

	for _, item := range snap.SavedTracks {
		if item.Track == nil {
			pass.report.Skipped++
			continue
		}
		if _, err := pass.upsertTrack(*item.Track); err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrSyncFailed, err)
		}
	}
	if _, err := pass.replaceSavedTracks(userID, snap.SavedTracks); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSyncFailed, err)
	}

	if err := pass.syncTopTracks(userID, snap.TopTracks); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSyncFailed, err)
	}
	if err := pass.syncTopArtists(userID, snap.TopArtists); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSyncFailed, err)
	}

	followedIDs := make([]string, 0, len(snap.FollowedArtists))
	for _, artist := range snap.FollowedArtists {
		artistID, err := pass.upsertArtist(artist)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrSyncFailed, err)
		}
		if artistID != "" {
			followedIDs = append(followedIDs, artistID)
		}
	}
	if _, err := pass.replaceFollowedArtists(userID, followedIDs); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrSyncFailed, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sync transaction: %w", err)
	}

	pass.report.UserID = userID
	report := pass.report

	s.logger.Info("snapshot stored",
		"user", userID,
		"tracks", report.Tracks,
		"playlists", report.Playlists,
		"skipped", report.Skipped)

	return &report, nil
}

// syncTopTracks replaces the top-tracks scope for every page in the snapshot.
// No pages at all clears every time range for the user.
func (p *syncPass) syncTopTracks(userID string, pages []models.TopTracksPage) error {
	if len(pages) == 0 {
		if _, err := p.tx.Exec("DELETE FROM user_top_tracks WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("failed to clear top tracks for %s: %w", userID, err)
		}
		return nil
	}

	for _, page := range pages {
		timeRange := resolveTimeRange(page.TimeRange, page.Href)

		trackIDs := make([]string, 0, len(page.Items))
		for _, track := range page.Items {
			trackID, err := p.upsertTrack(track)
			if err != nil {
				return err
			}
			if trackID != "" {
				trackIDs = append(trackIDs, trackID)
			}
		}

		if _, err := p.replaceTopTracks(userID, timeRange, trackIDs); err != nil {
			return err
		}
	}

	return nil
}

// syncTopArtists replaces the top-artists scope for every page in the snapshot.
func (p *syncPass) syncTopArtists(userID string, pages []models.TopArtistsPage) error {
	if len(pages) == 0 {
		if _, err := p.tx.Exec("DELETE FROM user_top_artists WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("failed to clear top artists for %s: %w", userID, err)
		}
		return nil
	}

	for _, page := range pages {
		timeRange := resolveTimeRange(page.TimeRange, page.Href)

		artistIDs := make([]string, 0, len(page.Items))
		for _, artist := range page.Items {
			artistID, err := p.upsertArtist(artist)
			if err != nil {
				return err
			}
			if artistID != "" {
				artistIDs = append(artistIDs, artistID)
			}
		}

		if _, err := p.replaceTopArtists(userID, timeRange, artistIDs); err != nil {
			return err
		}
	}

	return nil
}
