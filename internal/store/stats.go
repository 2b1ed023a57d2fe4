package store

import (
	"context"
	"fmt"
)

// VaultStats holds row counts for the vault's tables.
type VaultStats struct {
	Users           int `json:"users"`
	Artists         int `json:"artists"`
	Albums          int `json:"albums"`
	Tracks          int `json:"tracks"`
	Playlists       int `json:"playlists"`
	PlaylistTracks  int `json:"playlist_tracks"`
	SavedTracks     int `json:"saved_tracks"`
	TopTracks       int `json:"top_tracks"`
	TopArtists      int `json:"top_artists"`
	FollowedArtists int `json:"followed_artists"`
	AudioFeatures   int `json:"audio_features"`
	AudioAnalyses   int `json:"audio_analyses"`
}

// GetStats counts the rows in every vault table.
func (s *Store) GetStats(ctx context.Context) (*VaultStats, error) {
	stats := &VaultStats{}
	counts := []struct {
		table string
		dest  *int
	}{
		{"users", &stats.Users},
		{"artists", &stats.Artists},
		{"albums", &stats.Albums},
		{"tracks", &stats.Tracks},
		{"playlists", &stats.Playlists},
		{"playlist_tracks", &stats.PlaylistTracks},
		{"saved_tracks", &stats.SavedTracks},
		{"user_top_tracks", &stats.TopTracks},
		{"user_top_artists", &stats.TopArtists},
		{"user_followed_artists", &stats.FollowedArtists},
		{"audio_features", &stats.AudioFeatures},
		{"audio_analysis", &stats.AudioAnalyses},
	}

	for _, c := range counts {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", c.table)
		if err := s.db.QueryRowContext(ctx, query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}
	return stats, nil
}
