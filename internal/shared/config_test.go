package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Valid File", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")

		content := `
[credentials.spotify]
client_id = "abc123"
client_secret = "secret"
redirect_uri = "http://localhost:9999/callback"

[database]
path = "test.db"
max_open_conns = 10
max_idle_conns = 3

[server]
host = "0.0.0.0"
port = 9999

[collector]
audio_features = false
rate_limit = 2.5
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "abc123" {
			t.Errorf("expected client_id abc123, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Database.Path != "test.db" {
			t.Errorf("expected database path test.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 9999 {
			t.Errorf("expected port 9999, got %d", config.Server.Port)
		}
		if config.Collector.AudioFeatures {
			t.Error("expected audio_features to be disabled")
		}
		if config.Collector.RateLimit != 2.5 {
			t.Errorf("expected rate_limit 2.5, got %v", config.Collector.RateLimit)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("Invalid TOML", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.toml")

		if err := os.WriteFile(path, []byte("[[[not toml"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Database.Path == "" {
		t.Error("default config should include a database path")
	}
	if config.Server.Port == 0 {
		t.Error("default config should include a server port")
	}
	if config.Collector.AudioAnalysisLimit == 0 {
		t.Error("default config should cap audio analysis")
	}
}

func TestCreateConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}

	if _, err := LoadConfig(path); err != nil {
		t.Errorf("created config should be loadable: %v", err)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error when config file already exists")
	}
}

func TestSpotifyConfig(t *testing.T) {
	t.Run("Map", func(t *testing.T) {
		spotify := SpotifyConfig{
			ClientID:     "abc123",
			ClientSecret: "secret",
			RedirectURI:  "http://localhost:9999/callback",
		}

		m := spotify.Map()
		if m["client_id"] != "abc123" {
			t.Errorf("expected client_id abc123, got %s", m["client_id"])
		}
		if m["client_secret"] != "secret" {
			t.Errorf("expected client_secret secret, got %s", m["client_secret"])
		}
		if m["redirect_uri"] != "http://localhost:9999/callback" {
			t.Errorf("expected redirect_uri, got %s", m["redirect_uri"])
		}
	})

	t.Run("Token Empty", func(t *testing.T) {
		spotify := SpotifyConfig{ClientID: "abc123"}
		if spotify.Token() != nil {
			t.Error("expected nil token when none is stored")
		}
	})

	t.Run("Token Stored", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		spotify := SpotifyConfig{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenExpiry:  expiry,
		}

		token := spotify.Token()
		if token == nil {
			t.Fatal("expected a reconstructed token")
		}
		if token.AccessToken != "access" {
			t.Errorf("expected access token, got %s", token.AccessToken)
		}
		if token.RefreshToken != "refresh" {
			t.Errorf("expected refresh token, got %s", token.RefreshToken)
		}
		if !token.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, token.Expiry)
		}
	})

	t.Run("Update Nil Token", func(t *testing.T) {
		var spotify SpotifyConfig
		if err := spotify.Update(nil); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("Update Keeps Refresh Token", func(t *testing.T) {
		spotify := SpotifyConfig{
			AccessToken:  "old-access",
			RefreshToken: "old-refresh",
		}

		renewal := &oauth2.Token{
			AccessToken: "new-access",
			Expiry:      time.Now().Add(time.Hour),
		}
		if err := spotify.Update(renewal); err != nil {
			t.Fatalf("failed to update config: %v", err)
		}

		if spotify.AccessToken != "new-access" {
			t.Errorf("expected new access token, got %s", spotify.AccessToken)
		}
		if spotify.RefreshToken != "old-refresh" {
			t.Errorf("renewal without refresh token should keep the old one, got %s", spotify.RefreshToken)
		}
	})
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	config := DefaultConfig()
	config.Credentials.Spotify.ClientID = "abc123"
	config.Credentials.Spotify.AccessToken = "access"
	config.Credentials.Spotify.RefreshToken = "refresh"

	if err := SaveConfig(path, config); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("saved config should be loadable: %v", err)
	}

	if loaded.Credentials.Spotify.ClientID != "abc123" {
		t.Errorf("expected client_id to round-trip, got %s", loaded.Credentials.Spotify.ClientID)
	}
	if loaded.Credentials.Spotify.AccessToken != "access" {
		t.Errorf("expected access token to round-trip, got %s", loaded.Credentials.Spotify.AccessToken)
	}
	if loaded.Credentials.Spotify.RefreshToken != "refresh" {
		t.Errorf("expected refresh token to round-trip, got %s", loaded.Credentials.Spotify.RefreshToken)
	}
}
