// Package store implements the vault's snapshot synchronization engine.
//
// One library sync is one [Store.StoreUserSnapshot] call: the complete payload
// graph for a user is reconciled into the relational schema inside a single
// transaction. Entities (users, artists, albums, tracks, playlists) are
// upserted keyed by their Spotify ID; per-user association sets (saved tracks,
// ranked top items, playlist membership, followed artists) are replaced
// wholesale for their scope. A per-sync identity map deduplicates entities
// that appear in several places within one payload graph before they reach
// the database.
//
// The read side ([Store.GetUser], [Store.GetUserPlaylists], ...) projects
// stored rows back into the nested payload shapes defined in
// [github.com/desertthunder/musivault/internal/models].
package store
