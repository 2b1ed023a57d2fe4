// Package models defines the data shapes exchanged between the Spotify API layer and the vault.
//
// The package contains two categories of types:
//
// 1. Payloads: JSON-tagged structs mirroring Spotify Web API response objects
//   - [UserPayload] : Current-user profile
//   - [ArtistPayload] / [AlbumPayload] / [TrackPayload] : Catalog entities
//   - [PlaylistPayload] / [PlaylistItem] : Playlists and their ordered membership
//   - [SavedTrackItem] : Library ("liked") tracks with added-at timestamps
//   - [TopTracksPage] / [TopArtistsPage] : Ranked top items scoped by time range
//   - [AudioFeaturesPayload] / [AudioAnalysisPayload] : Per-track acoustic data
//
// 2. [Snapshot]: the complete, already-paginated input for one library sync,
// assembled by the collector and handed to the store as a single unit.
//
// Payload IDs are Spotify's opaque string identifiers and double as primary
// keys in the vault schema.
package models
