package models

// PlaylistSnapshot pairs a playlist with its already-fetched, ordered items.
type PlaylistSnapshot struct {
	Playlist PlaylistPayload
	Items    []PlaylistItem
}

// Snapshot is the complete input for one library sync: everything the API
// layer fetched for one user, fully paginated.
//
// Nil and empty slices are equivalent: both mean "this user currently has
// none" and clear the corresponding scope in the vault.
type Snapshot struct {
	User            UserPayload
	Playlists       []PlaylistSnapshot
	SavedTracks     []SavedTrackItem
	TopTracks       []TopTracksPage
	TopArtists      []TopArtistsPage
	FollowedArtists []ArtistPayload
}
