// Spotify implementation of [Service].
//
// Endpoint shapes follow https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/musivault/internal/models"
	"github.com/desertthunder/musivault/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	pageLimit        = 50
	featureBatchSize = 100
)

// SpotifyService implements [Service] against the Spotify Web API. Requests
// are paced by a shared rate limiter and paginated responses are drained
// before returning.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSpotifyService creates a Spotify service from OAuth2 credentials.
// requestsPerSecond caps the API request rate; zero or negative disables
// pacing.
func NewSpotifyService(credentials map[string]string, requestsPerSecond float64) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrInvalidCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrInvalidCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"user-read-email",
			"playlist-read-private",
			"playlist-read-collaborative",
			"user-library-read",
			"user-top-read",
			"user-follow-read",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(limit, 1),
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 configuration for callback handling.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// OAuthenticate authenticates with a previously issued token. The token
// source refreshes expired tokens transparently when a refresh token is
// present.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || (token.AccessToken == "" && token.RefreshToken == "") {
		return fmt.Errorf("%w: missing token", shared.ErrInvalidCredentials)
	}
	s.token = token
	s.httpClient = s.config.Client(ctx, token)
	return nil
}

// Authenticate accepts either an "access_token" or an "auth_code" to
// exchange.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = &oauth2.Token{AccessToken: accessToken}
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("failed to exchange auth code: %w", err)
		}
		s.token = token
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrInvalidCredentials)
}

// doRequest performs one authenticated GET. The endpoint is either a path
// relative to the API base or an absolute next-page URL.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	apiURL := endpoint
	if !strings.HasPrefix(endpoint, "http") {
		apiURL = s.baseURL + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status 401 from %s", shared.ErrTokenExpired, apiURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d from %s", shared.ErrAPIRequest, resp.StatusCode, apiURL)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Paginated response envelopes.

type playlistsPage struct {
	Items []models.PlaylistPayload `json:"items"`
	Next  *string                  `json:"next"`
}

type playlistItemsPage struct {
	Items []models.PlaylistItem `json:"items"`
	Next  *string               `json:"next"`
}

type savedTracksPage struct {
	Items []models.SavedTrackItem `json:"items"`
	Next  *string                 `json:"next"`
}

type topTracksPage struct {
	Href  string                `json:"href"`
	Items []models.TrackPayload `json:"items"`
	Next  *string               `json:"next"`
}

type topArtistsPage struct {
	Href  string                 `json:"href"`
	Items []models.ArtistPayload `json:"items"`
	Next  *string                `json:"next"`
}

type followingPage struct {
	Artists struct {
		Items []models.ArtistPayload `json:"items"`
		Next  *string                `json:"next"`
	} `json:"artists"`
}

// Profile retrieves the authenticated user's profile.
func (s *SpotifyService) Profile(ctx context.Context) (*models.UserPayload, error) {
	var user models.UserPayload
	if err := s.doRequest(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Playlists retrieves all of the user's playlists, draining pagination.
func (s *SpotifyService) Playlists(ctx context.Context) ([]models.PlaylistPayload, error) {
	var all []models.PlaylistPayload
	endpoint := fmt.Sprintf("/me/playlists?limit=%d", pageLimit)

	for endpoint != "" {
		var page playlistsPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		endpoint = nextOrDone(page.Next)
	}
	return all, nil
}

// PlaylistItems retrieves a playlist's items in playlist order.
func (s *SpotifyService) PlaylistItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error) {
	var all []models.PlaylistItem
	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d", url.PathEscape(playlistID), pageLimit)

	for endpoint != "" {
		var page playlistItemsPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		endpoint = nextOrDone(page.Next)
	}
	return all, nil
}

// SavedTracks retrieves the user's full saved-track library.
func (s *SpotifyService) SavedTracks(ctx context.Context) ([]models.SavedTrackItem, error) {
	var all []models.SavedTrackItem
	endpoint := fmt.Sprintf("/me/tracks?limit=%d", pageLimit)

	for endpoint != "" {
		var page savedTracksPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		endpoint = nextOrDone(page.Next)
	}
	return all, nil
}

// TopTracks retrieves the user's fully-paginated top tracks for one time
// range.
func (s *SpotifyService) TopTracks(ctx context.Context, timeRange string) (*models.TopTracksPage, error) {
	result := &models.TopTracksPage{TimeRange: timeRange}
	endpoint := fmt.Sprintf("/me/top/tracks?time_range=%s&limit=%d", url.QueryEscape(timeRange), pageLimit)

	for endpoint != "" {
		var page topTracksPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		if result.Href == "" {
			result.Href = page.Href
		}
		result.Items = append(result.Items, page.Items...)
		endpoint = nextOrDone(page.Next)
	}
	return result, nil
}

// TopArtists retrieves the user's fully-paginated top artists for one time
// range.
func (s *SpotifyService) TopArtists(ctx context.Context, timeRange string) (*models.TopArtistsPage, error) {
	result := &models.TopArtistsPage{TimeRange: timeRange}
	endpoint := fmt.Sprintf("/me/top/artists?time_range=%s&limit=%d", url.QueryEscape(timeRange), pageLimit)

	for endpoint != "" {
		var page topArtistsPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		if result.Href == "" {
			result.Href = page.Href
		}
		result.Items = append(result.Items, page.Items...)
		endpoint = nextOrDone(page.Next)
	}
	return result, nil
}

// FollowedArtists retrieves every artist the user follows. Spotify paginates
// this endpoint with cursors carried in the next link.
func (s *SpotifyService) FollowedArtists(ctx context.Context) ([]models.ArtistPayload, error) {
	var all []models.ArtistPayload
	endpoint := fmt.Sprintf("/me/following?type=artist&limit=%d", pageLimit)

	for endpoint != "" {
		var page followingPage
		if err := s.doRequest(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Artists.Items...)
		endpoint = nextOrDone(page.Artists.Next)
	}
	return all, nil
}

// AudioFeatures retrieves audio features for up to 100 tracks in one call.
func (s *SpotifyService) AudioFeatures(ctx context.Context, trackIDs []string) ([]models.AudioFeaturesPayload, error) {
	if len(trackIDs) == 0 {
		return nil, nil
	}
	if len(trackIDs) > featureBatchSize {
		return nil, fmt.Errorf("at most %d track ids per features request, got %d", featureBatchSize, len(trackIDs))
	}

	endpoint := "/audio-features?ids=" + url.QueryEscape(strings.Join(trackIDs, ","))

	var response struct {
		AudioFeatures []models.AudioFeaturesPayload `json:"audio_features"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	return response.AudioFeatures, nil
}

// AudioAnalysis retrieves the full audio analysis of one track.
func (s *SpotifyService) AudioAnalysis(ctx context.Context, trackID string) (*models.AudioAnalysisPayload, error) {
	var analysis models.AudioAnalysisPayload
	if err := s.doRequest(ctx, "/audio-analysis/"+url.PathEscape(trackID), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func nextOrDone(next *string) string {
	if next == nil || *next == "" {
		return ""
	}
	return *next
}
