package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/musivault/internal/models"
	"github.com/desertthunder/musivault/internal/shared"
	"github.com/desertthunder/musivault/internal/store"
	"github.com/desertthunder/musivault/internal/tasks"
)

func seededVault(t *testing.T) *store.Store {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	st := store.New(db, shared.NewLogger(io.Discard))

	artist := models.ArtistPayload{ID: "a1", Name: "Night Drives"}
	track := models.TrackPayload{ID: "t1", Name: "Neon", Artists: []models.ArtistPayload{artist}}
	snap := models.Snapshot{
		User: models.UserPayload{ID: "u1", DisplayName: "Listener"},
		Playlists: []models.PlaylistSnapshot{
			{
				Playlist: models.PlaylistPayload{ID: "p1", Name: "Late Nights"},
				Items:    []models.PlaylistItem{{AddedAt: "2023-06-01T12:00:00Z", Track: &track}},
			},
		},
		TopTracks: []models.TopTracksPage{
			{TimeRange: "short_term", Items: []models.TrackPayload{track}},
		},
	}
	if _, err := st.StoreUserSnapshot(context.Background(), snap); err != nil {
		t.Fatalf("failed to seed vault: %v", err)
	}
	return st
}

func vaultServer(t *testing.T, st *store.Store, sync SyncFunc) *httptest.Server {
	t.Helper()
	router := NewBasicRouter()
	router.Handler(NewVaultHandler(st, shared.NewLogger(io.Discard), sync))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string, target any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if target != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func TestVaultHandler(t *testing.T) {
	t.Run("GET user", func(t *testing.T) {
		server := vaultServer(t, seededVault(t), nil)

		var user models.UserPayload
		if status := getJSON(t, server.URL+"/api/users/u1", &user); status != http.StatusOK {
			t.Fatalf("unexpected status: %d", status)
		}
		if user.ID != "u1" || user.DisplayName != "Listener" {
			t.Errorf("unexpected user: %+v", user)
		}

		if status := getJSON(t, server.URL+"/api/users/nobody", nil); status != http.StatusNotFound {
			t.Errorf("expected 404 for unknown user, got %d", status)
		}
	})

	t.Run("GET playlists", func(t *testing.T) {
		server := vaultServer(t, seededVault(t), nil)

		var body struct {
			Items []store.PlaylistView `json:"items"`
			Total int                  `json:"total"`
		}
		if status := getJSON(t, server.URL+"/api/users/u1/playlists", &body); status != http.StatusOK {
			t.Fatalf("unexpected status: %d", status)
		}
		if body.Total != 1 || body.Items[0].Name != "Late Nights" {
			t.Errorf("unexpected playlists: %+v", body)
		}
		if len(body.Items[0].Items) != 1 || body.Items[0].Items[0].Track.ID != "t1" {
			t.Errorf("playlist items not hydrated: %+v", body.Items[0])
		}
	})

	t.Run("GET playlist by id", func(t *testing.T) {
		server := vaultServer(t, seededVault(t), nil)

		var view store.PlaylistView
		if status := getJSON(t, server.URL+"/api/playlists/p1", &view); status != http.StatusOK {
			t.Fatalf("unexpected status: %d", status)
		}
		if view.ID != "p1" || len(view.Items) != 1 {
			t.Errorf("unexpected playlist: %+v", view)
		}

		if status := getJSON(t, server.URL+"/api/playlists/gone", nil); status != http.StatusNotFound {
			t.Errorf("expected 404, got %d", status)
		}
	})

	t.Run("GET top tracks validates time range", func(t *testing.T) {
		server := vaultServer(t, seededVault(t), nil)

		var body struct {
			Items []store.RankedTrack `json:"items"`
		}
		if status := getJSON(t, server.URL+"/api/users/u1/top-tracks?time_range=short_term", &body); status != http.StatusOK {
			t.Fatalf("unexpected status: %d", status)
		}
		if len(body.Items) != 1 || body.Items[0].Rank != 1 {
			t.Errorf("unexpected top tracks: %+v", body)
		}

		if status := getJSON(t, server.URL+"/api/users/u1/top-tracks?time_range=forever", nil); status != http.StatusBadRequest {
			t.Errorf("expected 400 for bad range, got %d", status)
		}
	})

	t.Run("GET stats", func(t *testing.T) {
		server := vaultServer(t, seededVault(t), nil)

		var stats store.VaultStats
		if status := getJSON(t, server.URL+"/api/stats", &stats); status != http.StatusOK {
			t.Fatalf("unexpected status: %d", status)
		}
		if stats.Users != 1 || stats.Tracks != 1 {
			t.Errorf("unexpected stats: %+v", stats)
		}
	})

	t.Run("GET track features 404s when absent", func(t *testing.T) {
		server := vaultServer(t, seededVault(t), nil)

		if status := getJSON(t, server.URL+"/api/tracks/t1/features", nil); status != http.StatusNotFound {
			t.Errorf("expected 404, got %d", status)
		}
	})

	t.Run("POST sync", func(t *testing.T) {
		st := seededVault(t)
		synced := false
		server := vaultServer(t, st, func(ctx context.Context) (*tasks.CollectionReport, error) {
			synced = true
			return &tasks.CollectionReport{Sync: &store.SyncReport{UserID: "u1"}}, nil
		})

		resp, err := http.Post(server.URL+"/api/sync", "application/json", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("unexpected status: %d", resp.StatusCode)
		}
		if !synced {
			t.Error("sync function was not invoked")
		}

		t.Run("disabled without a collector", func(t *testing.T) {
			bare := vaultServer(t, st, nil)
			resp, err := http.Post(bare.URL+"/api/sync", "application/json", nil)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusServiceUnavailable {
				t.Errorf("expected 503, got %d", resp.StatusCode)
			}
		})

		t.Run("failure maps to bad gateway", func(t *testing.T) {
			failing := vaultServer(t, st, func(ctx context.Context) (*tasks.CollectionReport, error) {
				return nil, fmt.Errorf("provider down")
			})
			resp, err := http.Post(failing.URL+"/api/sync", "application/json", nil)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadGateway {
				t.Errorf("expected 502, got %d", resp.StatusCode)
			}
		})
	})

	t.Run("method not allowed on sync GET", func(t *testing.T) {
		server := vaultServer(t, seededVault(t), nil)

		resp, err := http.Get(server.URL + "/api/sync")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.StatusCode)
		}
	})
}
