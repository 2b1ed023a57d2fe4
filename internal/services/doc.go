// Package services defines the [Service] interface for fetching a user's
// complete library from a streaming provider, and its Spotify
// implementation.
package services
