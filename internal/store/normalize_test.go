package store

import (
	"testing"

	"github.com/desertthunder/musivault/internal/models"
)

func TestNormalize(t *testing.T) {
	t.Run("track defaults", func(t *testing.T) {
		row := normalizeTrack(models.TrackPayload{ID: "t1", Name: "Untitled"})
		if row.discNumber != 1 {
			t.Errorf("disc number should default to 1, got %d", row.discNumber)
		}
		if row.albumID != "" {
			t.Errorf("expected empty album id, got %q", row.albumID)
		}
	})

	t.Run("track picks up embedded album id", func(t *testing.T) {
		row := normalizeTrack(models.TrackPayload{
			ID:    "t1",
			Name:  "Untitled",
			Album: &models.AlbumPayload{ID: "al1"},
		})
		if row.albumID != "al1" {
			t.Errorf("expected al1, got %q", row.albumID)
		}
	})

	t.Run("string lists round-trip", func(t *testing.T) {
		markets := []string{"US", "GB", "JP"}
		decoded := decodeStrings(encodeStrings(markets))
		if len(decoded) != 3 || decoded[0] != "US" || decoded[2] != "JP" {
			t.Errorf("expected %v, got %v", markets, decoded)
		}
	})

	t.Run("nil lists encode as empty arrays", func(t *testing.T) {
		if got := encodeStrings(nil); got != "[]" {
			t.Errorf("expected [], got %q", got)
		}
		if got := encodeImages(nil); got != "[]" {
			t.Errorf("expected [], got %q", got)
		}
	})

	t.Run("malformed stored text decodes to empty", func(t *testing.T) {
		if got := decodeStrings("{broken"); len(got) != 0 {
			t.Errorf("expected empty list, got %v", got)
		}
		if got := decodeImages(""); len(got) != 0 {
			t.Errorf("expected empty list, got %v", got)
		}
	})

	t.Run("images round-trip", func(t *testing.T) {
		images := []models.Image{{URL: "https://img.example/1", Height: 640, Width: 640}}
		decoded := decodeImages(encodeImages(images))
		if len(decoded) != 1 || decoded[0].URL != images[0].URL || decoded[0].Height != 640 {
			t.Errorf("expected %v, got %v", images, decoded)
		}
	})

	t.Run("external ids round-trip", func(t *testing.T) {
		ids := models.ExternalIDs{ISRC: "USUM71900001"}
		decoded := decodeExternalIDs(encodeExternalIDs(ids))
		if decoded.ISRC != ids.ISRC {
			t.Errorf("expected %v, got %v", ids, decoded)
		}
	})
}

func TestParseAddedAt(t *testing.T) {
	t.Run("valid timestamp", func(t *testing.T) {
		parsed, ok := parseAddedAt("2023-06-01T12:00:00Z")
		if !ok || parsed == nil {
			t.Fatal("expected a parsed timestamp")
		}
		if parsed.Hour() != 12 {
			t.Errorf("unexpected hour: %d", parsed.Hour())
		}
	})

	t.Run("empty is valid and nil", func(t *testing.T) {
		parsed, ok := parseAddedAt("")
		if !ok || parsed != nil {
			t.Errorf("expected nil, true for empty input, got %v, %v", parsed, ok)
		}
	})

	t.Run("malformed is invalid", func(t *testing.T) {
		if _, ok := parseAddedAt("June 1st 2023"); ok {
			t.Error("expected malformed timestamp to be rejected")
		}
	})
}
