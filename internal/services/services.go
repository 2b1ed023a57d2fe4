package services

import (
	"context"

	"github.com/desertthunder/musivault/internal/models"
	"golang.org/x/oauth2"
)

// Service is a music provider that can hand over everything needed to build
// one library snapshot. Implementations return fully-paginated results; the
// caller never sees page boundaries.
type Service interface {
	// Authenticate performs OAuth or token authentication with the provider.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// Profile retrieves the authenticated user's profile.
	Profile(ctx context.Context) (*models.UserPayload, error)

	// Playlists retrieves every playlist of the authenticated user.
	Playlists(ctx context.Context) ([]models.PlaylistPayload, error)

	// PlaylistItems retrieves a playlist's items in playlist order.
	PlaylistItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error)

	// SavedTracks retrieves the user's full saved-track library.
	SavedTracks(ctx context.Context) ([]models.SavedTrackItem, error)

	// TopTracks retrieves the user's top tracks for one time range.
	TopTracks(ctx context.Context, timeRange string) (*models.TopTracksPage, error)

	// TopArtists retrieves the user's top artists for one time range.
	TopArtists(ctx context.Context, timeRange string) (*models.TopArtistsPage, error)

	// FollowedArtists retrieves every artist the user follows.
	FollowedArtists(ctx context.Context) ([]models.ArtistPayload, error)

	// AudioFeatures retrieves audio features for up to 100 tracks.
	AudioFeatures(ctx context.Context, trackIDs []string) ([]models.AudioFeaturesPayload, error)

	// AudioAnalysis retrieves the full audio analysis of one track.
	AudioAnalysis(ctx context.Context, trackID string) (*models.AudioAnalysisPayload, error)

	// Name returns the provider's display name.
	Name() string
}

// OAuthService extends [Service] for providers authenticating through an
// OAuth2 authorization-code flow.
type OAuthService interface {
	Service

	// GetAuthURL returns the provider's authorization URL for the given state.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the OAuth2 configuration for callback handling.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate authenticates with a previously issued token.
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}
