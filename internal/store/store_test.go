package store

import (
	"io"
	"testing"

	"github.com/desertthunder/musivault/internal/models"
	"github.com/desertthunder/musivault/internal/shared"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return New(db, shared.NewLogger(io.Discard))
}

func testUser(id string) models.UserPayload {
	return models.UserPayload{
		ID:          id,
		DisplayName: "Listener " + id,
		Email:       id + "@example.com",
		Country:     "US",
		Product:     "premium",
	}
}

func testArtist(id, name string) models.ArtistPayload {
	return models.ArtistPayload{
		ID:     id,
		Name:   name,
		Genres: []string{"indie", "electronic"},
	}
}

func testAlbum(id, name string, artists ...models.ArtistPayload) models.AlbumPayload {
	return models.AlbumPayload{
		ID:          id,
		Name:        name,
		AlbumType:   "album",
		ReleaseDate: "2021-03-05",
		Artists:     artists,
	}
}

func testTrack(id, name string, album *models.AlbumPayload, artists ...models.ArtistPayload) models.TrackPayload {
	return models.TrackPayload{
		ID:         id,
		Name:       name,
		DurationMS: 201000,
		Album:      album,
		Artists:    artists,
	}
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return count
}
