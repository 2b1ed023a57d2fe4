package store

import (
	"encoding/json"

	"github.com/desertthunder/musivault/internal/models"
)

// Normalization is the pure payload → column mapping step. Each normalize
// function flattens nested source fields (followers.total, external_urls,
// image/market/genre lists) into the row shape the upsert engine persists.
// List and map valued fields are serialized to JSON text; absent lists encode
// as "[]" rather than null so the read side always round-trips to a list.

type userRow struct {
	id             string
	displayName    string
	email          string
	country        string
	followersTotal int
	spotifyURL     string
	href           string
	uri            string
	product        string
}

type artistRow struct {
	id             string
	name           string
	genres         string
	popularity     int
	followersTotal int
	spotifyURL     string
	href           string
	uri            string
	images         string
}

type albumRow struct {
	id                   string
	name                 string
	albumType            string
	totalTracks          int
	releaseDate          string
	releaseDatePrecision string
	availableMarkets     string
	spotifyURL           string
	href                 string
	uri                  string
	images               string
	label                string
	popularity           int
}

type trackRow struct {
	id               string
	name             string
	durationMS       int
	explicit         bool
	popularity       int
	previewURL       string
	trackNumber      int
	discNumber       int
	isLocal          bool
	availableMarkets string
	spotifyURL       string
	href             string
	uri              string
	externalIDs      string
	albumID          string
}

type playlistRow struct {
	id             string
	name           string
	description    string
	public         bool
	collaborative  bool
	followersTotal int
	snapshotID     string
	spotifyURL     string
	href           string
	uri            string
	images         string
	primaryColor   string
	ownerID        string
}

func normalizeUser(p models.UserPayload) userRow {
	return userRow{
		id:             p.ID,
		displayName:    p.DisplayName,
		email:          p.Email,
		country:        p.Country,
		followersTotal: p.Followers.Total,
		spotifyURL:     p.ExternalURLs.Spotify,
		href:           p.Href,
		uri:            p.URI,
		product:        p.Product,
	}
}

func normalizeArtist(p models.ArtistPayload) artistRow {
	return artistRow{
		id:             p.ID,
		name:           p.Name,
		genres:         encodeStrings(p.Genres),
		popularity:     p.Popularity,
		followersTotal: p.Followers.Total,
		spotifyURL:     p.ExternalURLs.Spotify,
		href:           p.Href,
		uri:            p.URI,
		images:         encodeImages(p.Images),
	}
}

func normalizeAlbum(p models.AlbumPayload) albumRow {
	return albumRow{
		id:                   p.ID,
		name:                 p.Name,
		albumType:            p.AlbumType,
		totalTracks:          p.TotalTracks,
		releaseDate:          p.ReleaseDate,
		releaseDatePrecision: p.ReleaseDatePrecision,
		availableMarkets:     encodeStrings(p.AvailableMarkets),
		spotifyURL:           p.ExternalURLs.Spotify,
		href:                 p.Href,
		uri:                  p.URI,
		images:               encodeImages(p.Images),
		label:                p.Label,
		popularity:           p.Popularity,
	}
}

func normalizeTrack(p models.TrackPayload) trackRow {
	discNumber := p.DiscNumber
	if discNumber == 0 {
		discNumber = 1
	}

	albumID := ""
	if p.Album != nil {
		albumID = p.Album.ID
	}

	return trackRow{
		id:               p.ID,
		name:             p.Name,
		durationMS:       p.DurationMS,
		explicit:         p.Explicit,
		popularity:       p.Popularity,
		previewURL:       p.PreviewURL,
		trackNumber:      p.TrackNumber,
		discNumber:       discNumber,
		isLocal:          p.IsLocal,
		availableMarkets: encodeStrings(p.AvailableMarkets),
		spotifyURL:       p.ExternalURLs.Spotify,
		href:             p.Href,
		uri:              p.URI,
		externalIDs:      encodeExternalIDs(p.ExternalIDs),
		albumID:          albumID,
	}
}

func normalizePlaylist(p models.PlaylistPayload, ownerID string) playlistRow {
	return playlistRow{
		id:             p.ID,
		name:           p.Name,
		description:    p.Description,
		public:         p.Public,
		collaborative:  p.Collaborative,
		followersTotal: p.Followers.Total,
		snapshotID:     p.SnapshotID,
		spotifyURL:     p.ExternalURLs.Spotify,
		href:           p.Href,
		uri:            p.URI,
		images:         encodeImages(p.Images),
		primaryColor:   p.PrimaryColor,
		ownerID:        ownerID,
	}
}

// encodeStrings serializes a string list to JSON text; nil encodes as "[]".
func encodeStrings(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// encodeImages serializes an image list to JSON text; nil encodes as "[]".
func encodeImages(images []models.Image) string {
	if images == nil {
		images = []models.Image{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// encodeExternalIDs serializes track external IDs (ISRC etc.) to JSON text.
func encodeExternalIDs(ids models.ExternalIDs) string {
	data, err := json.Marshal(ids)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func decodeStrings(text string) []string {
	values := []string{}
	if text == "" {
		return values
	}
	if err := json.Unmarshal([]byte(text), &values); err != nil {
		return []string{}
	}
	if values == nil {
		return []string{}
	}
	return values
}

func decodeImages(text string) []models.Image {
	images := []models.Image{}
	if text == "" {
		return images
	}
	if err := json.Unmarshal([]byte(text), &images); err != nil {
		return []models.Image{}
	}
	if images == nil {
		return []models.Image{}
	}
	return images
}

func decodeExternalIDs(text string) models.ExternalIDs {
	var ids models.ExternalIDs
	if text == "" {
		return ids
	}
	_ = json.Unmarshal([]byte(text), &ids)
	return ids
}
