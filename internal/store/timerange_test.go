package store

import "testing"

func TestResolveTimeRange(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		href     string
		want     string
	}{
		{"explicit field wins", "short_term", "https://api.spotify.com/v1/me/top/tracks?time_range=long_term", "short_term"},
		{"href query fallback", "", "https://api.spotify.com/v1/me/top/tracks?time_range=long_term&limit=50", "long_term"},
		{"defaults when both absent", "", "", "medium_term"},
		{"invalid explicit falls through to href", "forever", "https://api.spotify.com/v1/me/top/tracks?time_range=short_term", "short_term"},
		{"invalid href value defaults", "", "https://api.spotify.com/v1/me/top/tracks?time_range=all_time", "medium_term"},
		{"unparseable href defaults", "", "://not a url", "medium_term"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveTimeRange(tt.explicit, tt.href); got != tt.want {
				t.Errorf("resolveTimeRange(%q, %q) = %q, want %q", tt.explicit, tt.href, got, tt.want)
			}
		})
	}
}
