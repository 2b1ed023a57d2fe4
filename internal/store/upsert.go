package store

import (
	"fmt"

	"github.com/desertthunder/musivault/internal/models"
	"github.com/desertthunder/musivault/internal/shared"
)

// The upsert engine persists one entity at a time: children before parents
// (artists before albums, albums before tracks), update-in-place when the
// external ID is already known, insert otherwise. Relationship edges are
// replaced to match the current payload exactly rather than accumulated
// across syncs.

// nullIfEmpty maps an empty string to SQL NULL, for nullable foreign keys.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// upsertUser stages the snapshot's user row and returns its canonical ID.
// A user without an ID aborts the sync; nothing else can be keyed without it.
func (p *syncPass) upsertUser(payload models.UserPayload) (string, error) {
	if payload.ID == "" {
		return "", shared.ErrMissingUserID
	}
	if p.stagedInPass(kindUser, payload.ID) {
		return payload.ID, nil
	}

	row := normalizeUser(payload)
	exists, err := p.resolve(kindUser, row.id)
	if err != nil {
		return "", err
	}

	if exists {
		_, err = p.tx.Exec(`
			UPDATE users
			SET display_name = ?, email = ?, country = ?, followers_total = ?,
				spotify_url = ?, href = ?, uri = ?, product = ?, updated_at = ?
			WHERE id = ?
		`, row.displayName, row.email, row.country, row.followersTotal,
			row.spotifyURL, row.href, row.uri, row.product, p.now, row.id)
	} else {
		_, err = p.tx.Exec(`
			INSERT INTO users (id, display_name, email, country, followers_total, spotify_url, href, uri, product, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, row.id, row.displayName, row.email, row.country, row.followersTotal,
			row.spotifyURL, row.href, row.uri, row.product, p.now, p.now)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upsert user %s: %w", row.id, err)
	}

	p.stage(kindUser, row.id)
	p.report.Users++
	return row.id, nil
}

// upsertArtist stages one artist row. An artist without an ID is skipped and
// counted, never an error: it only costs that one entity, not the sync.
func (p *syncPass) upsertArtist(payload models.ArtistPayload) (string, error) {
	if payload.ID == "" {
		p.report.Skipped++
		return "", nil
	}
	if p.stagedInPass(kindArtist, payload.ID) {
		return payload.ID, nil
	}

	row := normalizeArtist(payload)
	exists, err := p.resolve(kindArtist, row.id)
	if err != nil {
		return "", err
	}

	if exists {
		_, err = p.tx.Exec(`
			UPDATE artists
			SET name = ?, genres = ?, popularity = ?, followers_total = ?,
				spotify_url = ?, href = ?, uri = ?, images = ?, updated_at = ?
			WHERE id = ?
		`, row.name, row.genres, row.popularity, row.followersTotal,
			row.spotifyURL, row.href, row.uri, row.images, p.now, row.id)
	} else {
		_, err = p.tx.Exec(`
			INSERT INTO artists (id, name, genres, popularity, followers_total, spotify_url, href, uri, images, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, row.id, row.name, row.genres, row.popularity, row.followersTotal,
			row.spotifyURL, row.href, row.uri, row.images, p.now, p.now)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upsert artist %s: %w", row.id, err)
	}

	p.stage(kindArtist, row.id)
	p.report.Artists++
	return row.id, nil
}

// upsertAlbum stages an album and its embedded artists, then pins the
// album↔artist edges to the current payload.
func (p *syncPass) upsertAlbum(payload models.AlbumPayload) (string, error) {
	if payload.ID == "" {
		p.report.Skipped++
		return "", nil
	}
	if p.stagedInPass(kindAlbum, payload.ID) {
		return payload.ID, nil
	}

	artistIDs := make([]string, 0, len(payload.Artists))
	for _, artist := range payload.Artists {
		artistID, err := p.upsertArtist(artist)
		if err != nil {
			return "", err
		}
		if artistID != "" {
			artistIDs = append(artistIDs, artistID)
		}
	}

	row := normalizeAlbum(payload)
	exists, err := p.resolve(kindAlbum, row.id)
	if err != nil {
		return "", err
	}

	if exists {
		_, err = p.tx.Exec(`
			UPDATE albums
			SET name = ?, album_type = ?, total_tracks = ?, release_date = ?, release_date_precision = ?,
				available_markets = ?, spotify_url = ?, href = ?, uri = ?, images = ?, label = ?, popularity = ?, updated_at = ?
			WHERE id = ?
		`, row.name, row.albumType, row.totalTracks, row.releaseDate, row.releaseDatePrecision,
			row.availableMarkets, row.spotifyURL, row.href, row.uri, row.images, row.label, row.popularity, p.now, row.id)
	} else {
		_, err = p.tx.Exec(`
			INSERT INTO albums (id, name, album_type, total_tracks, release_date, release_date_precision,
				available_markets, spotify_url, href, uri, images, label, popularity, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, row.id, row.name, row.albumType, row.totalTracks, row.releaseDate, row.releaseDatePrecision,
			row.availableMarkets, row.spotifyURL, row.href, row.uri, row.images, row.label, row.popularity, p.now, p.now)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upsert album %s: %w", row.id, err)
	}

	p.stage(kindAlbum, row.id)
	p.report.Albums++

	if err := p.replaceAlbumArtists(row.id, artistIDs); err != nil {
		return "", err
	}

	return row.id, nil
}

// upsertTrack stages a track after resolving its embedded album and artists,
// then pins the track↔artist edges to the current payload. A track without an
// ID is skipped and counted.
func (p *syncPass) upsertTrack(payload models.TrackPayload) (string, error) {
	if payload.ID == "" {
		p.report.Skipped++
		return "", nil
	}
	if p.stagedInPass(kindTrack, payload.ID) {
		return payload.ID, nil
	}

	if payload.Album != nil {
		if _, err := p.upsertAlbum(*payload.Album); err != nil {
			return "", err
		}
	}

	artistIDs := make([]string, 0, len(payload.Artists))
	for _, artist := range payload.Artists {
		artistID, err := p.upsertArtist(artist)
		if err != nil {
			return "", err
		}
		if artistID != "" {
			artistIDs = append(artistIDs, artistID)
		}
	}

	row := normalizeTrack(payload)
	exists, err := p.resolve(kindTrack, row.id)
	if err != nil {
		return "", err
	}

	if exists {
		_, err = p.tx.Exec(`
			UPDATE tracks
			SET name = ?, duration_ms = ?, explicit = ?, popularity = ?, preview_url = ?,
				track_number = ?, disc_number = ?, is_local = ?, available_markets = ?,
				spotify_url = ?, href = ?, uri = ?, external_ids = ?, album_id = ?, updated_at = ?
			WHERE id = ?
		`, row.name, row.durationMS, row.explicit, row.popularity, row.previewURL,
			row.trackNumber, row.discNumber, row.isLocal, row.availableMarkets,
			row.spotifyURL, row.href, row.uri, row.externalIDs, nullIfEmpty(row.albumID), p.now, row.id)
	} else {
		_, err = p.tx.Exec(`
			INSERT INTO tracks (id, name, duration_ms, explicit, popularity, preview_url,
				track_number, disc_number, is_local, available_markets, spotify_url, href, uri,
				external_ids, album_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, row.id, row.name, row.durationMS, row.explicit, row.popularity, row.previewURL,
			row.trackNumber, row.discNumber, row.isLocal, row.availableMarkets,
			row.spotifyURL, row.href, row.uri, row.externalIDs, nullIfEmpty(row.albumID), p.now, p.now)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upsert track %s: %w", row.id, err)
	}

	p.stage(kindTrack, row.id)
	p.report.Tracks++

	if err := p.replaceTrackArtists(row.id, artistIDs); err != nil {
		return "", err
	}

	return row.id, nil
}

// upsertPlaylist stages one playlist row owned by ownerID.
func (p *syncPass) upsertPlaylist(payload models.PlaylistPayload, ownerID string) (string, error) {
	if payload.ID == "" {
		p.report.Skipped++
		return "", nil
	}
	if p.stagedInPass(kindPlaylist, payload.ID) {
		return payload.ID, nil
	}

	row := normalizePlaylist(payload, ownerID)
	exists, err := p.resolve(kindPlaylist, row.id)
	if err != nil {
		return "", err
	}

	if exists {
		_, err = p.tx.Exec(`
			UPDATE playlists
			SET name = ?, description = ?, public = ?, collaborative = ?, followers_total = ?,
				snapshot_id = ?, spotify_url = ?, href = ?, uri = ?, images = ?, primary_color = ?,
				owner_id = ?, updated_at = ?
			WHERE id = ?
		`, row.name, row.description, row.public, row.collaborative, row.followersTotal,
			row.snapshotID, row.spotifyURL, row.href, row.uri, row.images, row.primaryColor,
			row.ownerID, p.now, row.id)
	} else {
		_, err = p.tx.Exec(`
			INSERT INTO playlists (id, name, description, public, collaborative, followers_total,
				snapshot_id, spotify_url, href, uri, images, primary_color, owner_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, row.id, row.name, row.description, row.public, row.collaborative, row.followersTotal,
			row.snapshotID, row.spotifyURL, row.href, row.uri, row.images, row.primaryColor,
			row.ownerID, p.now, p.now)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upsert playlist %s: %w", row.id, err)
	}

	p.stage(kindPlaylist, row.id)
	p.report.Playlists++
	return row.id, nil
}
