package store

import (
	"database/sql"
	"strings"

	"github.com/desertthunder/musivault/internal/models"
)

// Column lists shared by the read queries. Order must match the scan
// functions below.
const (
	userColumns     = "id, display_name, email, country, followers_total, spotify_url, href, uri, product"
	artistColumns   = "id, name, genres, popularity, followers_total, spotify_url, href, uri, images"
	albumColumns    = "id, name, album_type, total_tracks, release_date, release_date_precision, available_markets, spotify_url, href, uri, images, label, popularity"
	trackColumns    = "id, name, duration_ms, explicit, popularity, preview_url, track_number, disc_number, is_local, available_markets, spotify_url, href, uri, external_ids, album_id"
	playlistColumns = "id, name, description, public, collaborative, followers_total, snapshot_id, spotify_url, href, uri, images, primary_color, owner_id"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// prefixColumns qualifies each column in a list with a table alias, for use
// in joined queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, part := range parts {
		parts[i] = alias + "." + part
	}
	return strings.Join(parts, ", ")
}

func scanUser(sc rowScanner) (models.UserPayload, error) {
	var u models.UserPayload
	err := sc.Scan(&u.ID, &u.DisplayName, &u.Email, &u.Country, &u.Followers.Total,
		&u.ExternalURLs.Spotify, &u.Href, &u.URI, &u.Product)
	return u, err
}

func scanArtist(sc rowScanner) (models.ArtistPayload, error) {
	var a models.ArtistPayload
	var genres, images string
	err := sc.Scan(&a.ID, &a.Name, &genres, &a.Popularity, &a.Followers.Total,
		&a.ExternalURLs.Spotify, &a.Href, &a.URI, &images)
	if err != nil {
		return a, err
	}
	a.Genres = decodeStrings(genres)
	a.Images = decodeImages(images)
	return a, nil
}

func scanAlbum(sc rowScanner) (models.AlbumPayload, error) {
	var a models.AlbumPayload
	var markets, images string
	err := sc.Scan(&a.ID, &a.Name, &a.AlbumType, &a.TotalTracks, &a.ReleaseDate,
		&a.ReleaseDatePrecision, &markets, &a.ExternalURLs.Spotify, &a.Href, &a.URI,
		&images, &a.Label, &a.Popularity)
	if err != nil {
		return a, err
	}
	a.AvailableMarkets = decodeStrings(markets)
	a.Images = decodeImages(images)
	return a, nil
}

// scanTrack returns the track plus its album foreign key, which the caller
// hydrates separately.
func scanTrack(sc rowScanner) (models.TrackPayload, string, error) {
	var t models.TrackPayload
	var markets, externalIDs string
	var albumID sql.NullString
	err := sc.Scan(&t.ID, &t.Name, &t.DurationMS, &t.Explicit, &t.Popularity,
		&t.PreviewURL, &t.TrackNumber, &t.DiscNumber, &t.IsLocal, &markets,
		&t.ExternalURLs.Spotify, &t.Href, &t.URI, &externalIDs, &albumID)
	if err != nil {
		return t, "", err
	}
	t.AvailableMarkets = decodeStrings(markets)
	t.ExternalIDs = decodeExternalIDs(externalIDs)
	return t, albumID.String, nil
}

func scanPlaylist(sc rowScanner) (models.PlaylistPayload, error) {
	var p models.PlaylistPayload
	var images string
	var ownerID sql.NullString
	err := sc.Scan(&p.ID, &p.Name, &p.Description, &p.Public, &p.Collaborative,
		&p.Followers.Total, &p.SnapshotID, &p.ExternalURLs.Spotify, &p.Href, &p.URI,
		&images, &p.PrimaryColor, &ownerID)
	if err != nil {
		return p, err
	}
	p.Images = decodeImages(images)
	p.Owner = models.PlaylistOwner{ID: ownerID.String}
	return p, nil
}

func scanAudioFeatures(sc rowScanner) (models.AudioFeaturesPayload, error) {
	var f models.AudioFeaturesPayload
	err := sc.Scan(&f.ID, &f.Danceability, &f.Energy, &f.Key, &f.Loudness, &f.Mode,
		&f.Speechiness, &f.Acousticness, &f.Instrumentalness, &f.Liveness,
		&f.Valence, &f.Tempo, &f.TimeSignature)
	return f, err
}
