// Spotify Web API payload types based on https://developer.spotify.com/documentation/web-api/reference/
package models

import "encoding/json"

// Followers represents a follower count wrapper.
type Followers struct {
	Total int `json:"total"`
}

// ExternalURLs holds canonical web URLs for an entity.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// ExternalIDs holds standard recording identifiers for a track.
type ExternalIDs struct {
	ISRC string `json:"isrc,omitempty"`
	EAN  string `json:"ean,omitempty"`
	UPC  string `json:"upc,omitempty"`
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// UserPayload represents a Spotify user profile.
type UserPayload struct {
	ID           string       `json:"id"`
	DisplayName  string       `json:"display_name"`
	Email        string       `json:"email"`
	Country      string       `json:"country"`
	Product      string       `json:"product"` // premium, free, etc.
	Followers    Followers    `json:"followers"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Href         string       `json:"href"`
	URI          string       `json:"uri"`
	Images       []Image      `json:"images"`
}

// ArtistPayload represents a Spotify artist.
type ArtistPayload struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Genres       []string     `json:"genres"`
	Popularity   int          `json:"popularity"`
	Followers    Followers    `json:"followers"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Href         string       `json:"href"`
	URI          string       `json:"uri"`
	Images       []Image      `json:"images"`
}

// AlbumPayload represents a Spotify album.
type AlbumPayload struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	AlbumType            string          `json:"album_type"` // album, single, compilation
	TotalTracks          int             `json:"total_tracks"`
	ReleaseDate          string          `json:"release_date"`
	ReleaseDatePrecision string          `json:"release_date_precision"` // year, month, day
	AvailableMarkets     []string        `json:"available_markets"`
	ExternalURLs         ExternalURLs    `json:"external_urls"`
	Href                 string          `json:"href"`
	URI                  string          `json:"uri"`
	Images               []Image         `json:"images"`
	Label                string          `json:"label"`
	Popularity           int             `json:"popularity"`
	Artists              []ArtistPayload `json:"artists"`
}

// TrackPayload represents a Spotify track, with its embedded album and artists.
type TrackPayload struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	DurationMS       int             `json:"duration_ms"`
	Explicit         bool            `json:"explicit"`
	Popularity       int             `json:"popularity"`
	PreviewURL       string          `json:"preview_url"`
	TrackNumber      int             `json:"track_number"`
	DiscNumber       int             `json:"disc_number"`
	IsLocal          bool            `json:"is_local"`
	AvailableMarkets []string        `json:"available_markets"`
	ExternalURLs     ExternalURLs    `json:"external_urls"`
	Href             string          `json:"href"`
	URI              string          `json:"uri"`
	ExternalIDs      ExternalIDs     `json:"external_ids"`
	Album            *AlbumPayload   `json:"album,omitempty"`
	Artists          []ArtistPayload `json:"artists"`
}

// PlaylistOwner identifies the user owning a playlist or adding a playlist item.
type PlaylistOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// PlaylistPayload represents a Spotify playlist.
type PlaylistPayload struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Public        bool          `json:"public"`
	Collaborative bool          `json:"collaborative"`
	Followers     Followers     `json:"followers"`
	SnapshotID    string        `json:"snapshot_id"`
	ExternalURLs  ExternalURLs  `json:"external_urls"`
	Href          string        `json:"href"`
	URI           string        `json:"uri"`
	Images        []Image       `json:"images"`
	PrimaryColor  string        `json:"primary_color"`
	Owner         PlaylistOwner `json:"owner"`
}

// PlaylistItem represents one ordered playlist entry: a track plus edge metadata.
type PlaylistItem struct {
	AddedAt string        `json:"added_at"` // RFC 3339 timestamp
	AddedBy PlaylistOwner `json:"added_by"`
	Track   *TrackPayload `json:"track"`
}

// SavedTrackItem represents a track saved to the user's library.
type SavedTrackItem struct {
	AddedAt string        `json:"added_at"`
	Track   *TrackPayload `json:"track"`
}

// TopTracksPage represents one ranked top-tracks listing for a time range.
//
// TimeRange may be empty; the href carries the requested range as a query
// parameter and is used as a fallback when resolving scope.
type TopTracksPage struct {
	Href      string         `json:"href"`
	TimeRange string         `json:"time_range,omitempty"`
	Items     []TrackPayload `json:"items"`
}

// TopArtistsPage represents one ranked top-artists listing for a time range.
type TopArtistsPage struct {
	Href      string          `json:"href"`
	TimeRange string          `json:"time_range,omitempty"`
	Items     []ArtistPayload `json:"items"`
}

// AudioFeaturesPayload represents the audio features of one track.
type AudioFeaturesPayload struct {
	ID               string  `json:"id"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Key              int     `json:"key"`
	Loudness         float64 `json:"loudness"`
	Mode             int     `json:"mode"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	TimeSignature    int     `json:"time_signature"`
}

// AudioAnalysisPayload represents the audio analysis of one track.
//
// The section payloads are large and schema-fluid, so they are carried as raw
// JSON and stored verbatim.
type AudioAnalysisPayload struct {
	Bars     json.RawMessage `json:"bars"`
	Beats    json.RawMessage `json:"beats"`
	Sections json.RawMessage `json:"sections"`
	Segments json.RawMessage `json:"segments"`
	Tatums   json.RawMessage `json:"tatums"`
	Track    json.RawMessage `json:"track"`
}
