package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/musivault/internal/models"
	"github.com/desertthunder/musivault/internal/store"
)

func testView() *store.PlaylistView {
	trackOne := models.TrackPayload{
		ID:          "track1",
		Name:        "Song One",
		DurationMS:  180000,
		ExternalIDs: models.ExternalIDs{ISRC: "USRC12345678"},
		Artists:     []models.ArtistPayload{{ID: "a1", Name: "Artist One"}},
		Album:       &models.AlbumPayload{ID: "al1", Name: "Album One"},
	}
	trackTwo := models.TrackPayload{
		ID:          "track2",
		Name:        "Song Two",
		DurationMS:  240000,
		ExternalIDs: models.ExternalIDs{ISRC: "USRC87654321"},
		Artists: []models.ArtistPayload{
			{ID: "a2", Name: "Artist Two"},
			{ID: "a3", Name: "Artist Three"},
		},
	}

	return &store.PlaylistView{
		PlaylistPayload: models.PlaylistPayload{
			ID:          "test123",
			Name:        "Test Playlist",
			Description: "A test playlist",
			Public:      true,
		},
		Items: []models.PlaylistItem{
			{AddedAt: "2023-06-01T12:00:00Z", Track: &trackOne},
			{AddedAt: "2023-06-02T12:00:00Z", Track: &trackTwo},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testView())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Artists,Album,Duration,ISRC") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1,Song One,Artist One,Album One,180,USRC12345678") {
			t.Errorf("CSV missing track1 record, got: %s", output)
		}
		if !strings.Contains(output, `"Artist Two, Artist Three"`) {
			t.Errorf("CSV should quote joined artist names, got: %s", output)
		}
	})

	t.Run("ExportToCSV skips missing tracks", func(t *testing.T) {
		view := testView()
		view.Items = append(view.Items, models.PlaylistItem{AddedAt: "2023-06-03T12:00:00Z"})

		data, err := ExportToCSV(view)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		lines := strings.Count(strings.TrimSpace(string(data)), "\n") + 1
		if lines != 3 {
			t.Errorf("expected header plus 2 records, got %d lines", lines)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testView())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.HasPrefix(output, "# Test Playlist\n") {
			t.Errorf("Markdown missing title heading, got: %s", output)
		}
		if !strings.Contains(output, "**Description**: A test playlist") {
			t.Errorf("Markdown missing description")
		}
		if !strings.Contains(output, "**Visibility**: Public") {
			t.Errorf("Markdown missing visibility")
		}
		if !strings.Contains(output, "1. Artist One - Song One (Album One) [3:00]") {
			t.Errorf("Markdown missing first track line, got: %s", output)
		}
		if !strings.Contains(output, "2. Artist Two, Artist Three - Song Two [4:00]") {
			t.Errorf("Markdown should omit album parens when absent, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testView())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Playlist: Test Playlist") {
			t.Errorf("text missing playlist name")
		}
		if !strings.Contains(output, "Tracks: 2") {
			t.Errorf("text missing track count")
		}
		if !strings.Contains(output, "1. Artist One - Song One") {
			t.Errorf("text missing first track")
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(testView().PlaylistPayload)
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		var meta models.PlaylistPayload
		if err := json.Unmarshal(data, &meta); err != nil {
			t.Fatalf("metadata is not valid JSON: %v", err)
		}
		if meta.ID != "test123" || meta.Name != "Test Playlist" {
			t.Errorf("unexpected metadata: %+v", meta)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "export")

		result, err := WriteCSVExport(testView(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		if result.TracksFile != base+"_tracks.csv" {
			t.Errorf("unexpected tracks file: %s", result.TracksFile)
		}
		if _, err := os.Stat(result.TracksFile); err != nil {
			t.Errorf("tracks file not written: %v", err)
		}

		metaData, err := os.ReadFile(result.MetadataFile)
		if err != nil {
			t.Fatalf("metadata file not written: %v", err)
		}
		if !strings.Contains(string(metaData), `"test123"`) {
			t.Errorf("metadata missing playlist ID")
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "playlist")

		path, err := WriteMarkdownExport(testView(), dir)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		if path != dir+"/README.md" {
			t.Errorf("unexpected path: %s", path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("README not written: %v", err)
		}
		if !strings.Contains(string(data), "# Test Playlist") {
			t.Errorf("README missing heading")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tracks.txt")

		written, err := WriteTextExport(testView(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if written != path {
			t.Errorf("unexpected path: %s", written)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("text file not written: %v", err)
		}
		if !strings.Contains(string(data), "Song Two") {
			t.Errorf("text file missing tracks")
		}
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")

		manifest := map[string]any{"run_id": "abc", "total": 2}
		if err := WriteManifest(manifest, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("manifest not written: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("manifest is not valid JSON: %v", err)
		}
		if decoded["run_id"] != "abc" {
			t.Errorf("unexpected manifest contents: %v", decoded)
		}
	})
}
