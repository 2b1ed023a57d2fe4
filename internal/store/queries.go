package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/musivault/internal/models"
)

// PlaylistView pairs a stored playlist with its ordered items.
type PlaylistView struct {
	models.PlaylistPayload
	Items []models.PlaylistItem `json:"items"`
}

// RankedTrack is one entry of a user's top-tracks listing.
type RankedTrack struct {
	TimeRange string              `json:"time_range"`
	Rank      int                 `json:"rank"`
	Track     models.TrackPayload `json:"track"`
}

// RankedArtist is one entry of a user's top-artists listing.
type RankedArtist struct {
	TimeRange string               `json:"time_range"`
	Rank      int                  `json:"rank"`
	Artist    models.ArtistPayload `json:"artist"`
}

// GetUser loads a stored user profile. A user that was never synced yields
// nil without error.
func (s *Store) GetUser(ctx context.Context, id string) (*models.UserPayload, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM users WHERE id = ?", userColumns), id)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return &user, nil
}

// Users returns every stored user profile.
func (s *Store) Users(ctx context.Context) ([]models.UserPayload, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM users ORDER BY id", userColumns))
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	defer rows.Close()

	var users []models.UserPayload
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// GetTrack loads a stored track with its album and artists hydrated. An
// unknown ID yields nil without error.
func (s *Store) GetTrack(ctx context.Context, id string) (*models.TrackPayload, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM tracks WHERE id = ?", trackColumns), id)

	track, albumID, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load track %s: %w", id, err)
	}

	if err := s.hydrateTrack(ctx, &track, albumID); err != nil {
		return nil, err
	}
	return &track, nil
}

// GetTracks loads several tracks by ID, hydrated like [Store.GetTrack].
// Unknown IDs are skipped.
func (s *Store) GetTracks(ctx context.Context, ids []string) ([]models.TrackPayload, error) {
	tracks := make([]models.TrackPayload, 0, len(ids))
	for _, id := range ids {
		track, err := s.GetTrack(ctx, id)
		if err != nil {
			return nil, err
		}
		if track == nil {
			continue
		}
		tracks = append(tracks, *track)
	}
	return tracks, nil
}

func (s *Store) hydrateTrack(ctx context.Context, track *models.TrackPayload, albumID string) error {
	if albumID != "" {
		album, err := s.getAlbum(ctx, albumID)
		if err != nil {
			return err
		}
		track.Album = album
	}

	artists, err := s.trackArtists(ctx, track.ID)
	if err != nil {
		return err
	}
	track.Artists = artists
	return nil
}

func (s *Store) getAlbum(ctx context.Context, id string) (*models.AlbumPayload, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM albums WHERE id = ?", albumColumns), id)

	album, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load album %s: %w", id, err)
	}

	album.Artists, err = s.albumArtists(ctx, id)
	if err != nil {
		return nil, err
	}
	return &album, nil
}

// trackArtists returns a track's artists in credit order.
func (s *Store) trackArtists(ctx context.Context, trackID string) ([]models.ArtistPayload, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM artists a
		JOIN track_artists ta ON ta.artist_id = a.id
		WHERE ta.track_id = ?
		ORDER BY ta.id
	`, prefixColumns("a", artistColumns))
	return s.queryArtists(ctx, query, trackID)
}

func (s *Store) albumArtists(ctx context.Context, albumID string) ([]models.ArtistPayload, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM artists a
		JOIN album_artists aa ON aa.artist_id = a.id
		WHERE aa.album_id = ?
		ORDER BY aa.id
	`, prefixColumns("a", artistColumns))
	return s.queryArtists(ctx, query, albumID)
}

func (s *Store) queryArtists(ctx context.Context, query string, args ...any) ([]models.ArtistPayload, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []models.ArtistPayload
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, artist)
	}
	return artists, rows.Err()
}

// GetUserPlaylists returns every playlist owned by the user, with items
// ordered by stored position.
func (s *Store) GetUserPlaylists(ctx context.Context, userID string) ([]PlaylistView, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM playlists WHERE owner_id = ? ORDER BY name", playlistColumns),
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists for %s: %w", userID, err)
	}
	defer rows.Close()

	var views []PlaylistView
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		views = append(views, PlaylistView{PlaylistPayload: playlist})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range views {
		items, err := s.playlistItems(ctx, views[i].ID)
		if err != nil {
			return nil, err
		}
		views[i].Items = items
	}
	return views, nil
}

// GetPlaylist loads one stored playlist with its items. An unknown ID yields
// nil without error.
func (s *Store) GetPlaylist(ctx context.Context, id string) (*PlaylistView, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM playlists WHERE id = ?", playlistColumns), id)

	playlist, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist %s: %w", id, err)
	}

	items, err := s.playlistItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PlaylistView{PlaylistPayload: playlist, Items: items}, nil
}

func (s *Store) playlistItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error) {
	query := fmt.Sprintf(`
		SELECT pt.added_at, pt.added_by_id, %s
		FROM playlist_tracks pt
		JOIN tracks t ON t.id = pt.track_id
		WHERE pt.playlist_id = ?
		ORDER BY pt.position
	`, prefixColumns("t", trackColumns))

	rows, err := s.db.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for playlist %s: %w", playlistID, err)
	}
	defer rows.Close()

	type pending struct {
		item    models.PlaylistItem
		albumID string
	}
	var loaded []pending
	for rows.Next() {
		var addedAt sql.NullTime
		var addedBy sql.NullString
		var track models.TrackPayload
		var markets, externalIDs string
		var albumID sql.NullString

		err := rows.Scan(&addedAt, &addedBy,
			&track.ID, &track.Name, &track.DurationMS, &track.Explicit, &track.Popularity,
			&track.PreviewURL, &track.TrackNumber, &track.DiscNumber, &track.IsLocal, &markets,
			&track.ExternalURLs.Spotify, &track.Href, &track.URI, &externalIDs, &albumID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist item: %w", err)
		}
		track.AvailableMarkets = decodeStrings(markets)
		track.ExternalIDs = decodeExternalIDs(externalIDs)

		item := models.PlaylistItem{
			AddedBy: models.PlaylistOwner{ID: addedBy.String},
		}
		if addedAt.Valid {
			item.AddedAt = addedAt.Time.UTC().Format(time.RFC3339)
		}
		loaded = append(loaded, pending{item: item, albumID: albumID.String})
		loaded[len(loaded)-1].item.Track = &track
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items := make([]models.PlaylistItem, 0, len(loaded))
	for _, p := range loaded {
		if err := s.hydrateTrack(ctx, p.item.Track, p.albumID); err != nil {
			return nil, err
		}
		items = append(items, p.item)
	}
	return items, nil
}

// GetSavedTracks returns the user's library tracks, most recently added
// first.
func (s *Store) GetSavedTracks(ctx context.Context, userID string) ([]models.SavedTrackItem, error) {
	query := fmt.Sprintf(`
		SELECT st.added_at, %s
		FROM saved_tracks st
		JOIN tracks t ON t.id = st.track_id
		WHERE st.user_id = ?
		ORDER BY st.added_at DESC, st.id
	`, prefixColumns("t", trackColumns))

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved tracks for %s: %w", userID, err)
	}
	defer rows.Close()

	type pending struct {
		item    models.SavedTrackItem
		albumID string
	}
	var loaded []pending
	for rows.Next() {
		var addedAt sql.NullTime
		var track models.TrackPayload
		var markets, externalIDs string
		var albumID sql.NullString

		err := rows.Scan(&addedAt,
			&track.ID, &track.Name, &track.DurationMS, &track.Explicit, &track.Popularity,
			&track.PreviewURL, &track.TrackNumber, &track.DiscNumber, &track.IsLocal, &markets,
			&track.ExternalURLs.Spotify, &track.Href, &track.URI, &externalIDs, &albumID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved track: %w", err)
		}
		track.AvailableMarkets = decodeStrings(markets)
		track.ExternalIDs = decodeExternalIDs(externalIDs)

		item := models.SavedTrackItem{Track: &track}
		if addedAt.Valid {
			item.AddedAt = addedAt.Time.UTC().Format(time.RFC3339)
		}
		loaded = append(loaded, pending{item: item, albumID: albumID.String})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items := make([]models.SavedTrackItem, 0, len(loaded))
	for _, p := range loaded {
		if err := s.hydrateTrack(ctx, p.item.Track, p.albumID); err != nil {
			return nil, err
		}
		items = append(items, p.item)
	}
	return items, nil
}

// GetUserTopTracks returns the user's ranked top tracks. An empty timeRange
// returns every stored range, ordered by range then rank.
func (s *Store) GetUserTopTracks(ctx context.Context, userID, timeRange string) ([]RankedTrack, error) {
	query := fmt.Sprintf(`
		SELECT ut.time_range, ut.rank, %s
		FROM user_top_tracks ut
		JOIN tracks t ON t.id = ut.track_id
		WHERE ut.user_id = ?
	`, prefixColumns("t", trackColumns))
	args := []any{userID}
	if timeRange != "" {
		query += " AND ut.time_range = ?"
		args = append(args, timeRange)
	}
	query += " ORDER BY ut.time_range, ut.rank"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top tracks for %s: %w", userID, err)
	}
	defer rows.Close()

	type pending struct {
		entry   RankedTrack
		albumID string
	}
	var loaded []pending
	for rows.Next() {
		var entry RankedTrack
		var markets, externalIDs string
		var albumID sql.NullString

		err := rows.Scan(&entry.TimeRange, &entry.Rank,
			&entry.Track.ID, &entry.Track.Name, &entry.Track.DurationMS, &entry.Track.Explicit,
			&entry.Track.Popularity, &entry.Track.PreviewURL, &entry.Track.TrackNumber,
			&entry.Track.DiscNumber, &entry.Track.IsLocal, &markets,
			&entry.Track.ExternalURLs.Spotify, &entry.Track.Href, &entry.Track.URI,
			&externalIDs, &albumID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan top track: %w", err)
		}
		entry.Track.AvailableMarkets = decodeStrings(markets)
		entry.Track.ExternalIDs = decodeExternalIDs(externalIDs)
		loaded = append(loaded, pending{entry: entry, albumID: albumID.String})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries := make([]RankedTrack, 0, len(loaded))
	for _, p := range loaded {
		if err := s.hydrateTrack(ctx, &p.entry.Track, p.albumID); err != nil {
			return nil, err
		}
		entries = append(entries, p.entry)
	}
	return entries, nil
}

// GetUserTopArtists returns the user's ranked top artists. An empty
// timeRange returns every stored range.
func (s *Store) GetUserTopArtists(ctx context.Context, userID, timeRange string) ([]RankedArtist, error) {
	query := fmt.Sprintf(`
		SELECT ua.time_range, ua.rank, %s
		FROM user_top_artists ua
		JOIN artists a ON a.id = ua.artist_id
		WHERE ua.user_id = ?
	`, prefixColumns("a", artistColumns))
	args := []any{userID}
	if timeRange != "" {
		query += " AND ua.time_range = ?"
		args = append(args, timeRange)
	}
	query += " ORDER BY ua.time_range, ua.rank"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top artists for %s: %w", userID, err)
	}
	defer rows.Close()

	var entries []RankedArtist
	for rows.Next() {
		var entry RankedArtist
		var genres, images string
		err := rows.Scan(&entry.TimeRange, &entry.Rank,
			&entry.Artist.ID, &entry.Artist.Name, &genres, &entry.Artist.Popularity,
			&entry.Artist.Followers.Total, &entry.Artist.ExternalURLs.Spotify,
			&entry.Artist.Href, &entry.Artist.URI, &images)
		if err != nil {
			return nil, fmt.Errorf("failed to scan top artist: %w", err)
		}
		entry.Artist.Genres = decodeStrings(genres)
		entry.Artist.Images = decodeImages(images)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetFollowedArtists returns the artists the user follows, by name.
func (s *Store) GetFollowedArtists(ctx context.Context, userID string) ([]models.ArtistPayload, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM artists a
		JOIN user_followed_artists uf ON uf.artist_id = a.id
		WHERE uf.user_id = ?
		ORDER BY a.name
	`, prefixColumns("a", artistColumns))
	return s.queryArtists(ctx, query, userID)
}

// TrackIDs returns every stored track ID, for bulk enrichment jobs.
func (s *Store) TrackIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM tracks ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query track ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan track id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
