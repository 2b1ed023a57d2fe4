// Package formatter renders stored playlists to export formats (CSV,
// Markdown, plain text) and writes them to disk.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/musivault/internal/models"
	"github.com/desertthunder/musivault/internal/shared"
	"github.com/desertthunder/musivault/internal/store"
)

// artistLine joins a track's artist names for display.
func artistLine(track *models.TrackPayload) string {
	if track == nil || len(track.Artists) == 0 {
		return ""
	}
	names := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, ", ")
}

func albumName(track *models.TrackPayload) string {
	if track == nil || track.Album == nil {
		return ""
	}
	return track.Album.Name
}

// ExportToCSV renders a playlist's tracks as CSV with columns: ID, Title,
// Artists, Album, Duration, ISRC.
func ExportToCSV(view *store.PlaylistView) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artists", "Album", "Duration", "ISRC"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range view.Items {
		track := item.Track
		if track == nil {
			continue
		}
		record := []string{
			track.ID,
			track.Name,
			artistLine(track),
			albumName(track),
			strconv.Itoa(track.DurationMS / 1000),
			track.ExternalIDs.ISRC,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders a playlist as a Markdown document.
func ExportToMarkdown(view *store.PlaylistView) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", view.Name))
	if view.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", view.Description))
	}
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(view.Items)))
	buf.WriteString(fmt.Sprintf("**Visibility**: %s\n\n", shared.VisibilityString(view.Public)))

	buf.WriteString("## Tracks\n\n")
	for i, item := range view.Items {
		track := item.Track
		if track == nil {
			continue
		}
		duration := shared.FormatDuration(track.DurationMS)
		albumPart := ""
		if name := albumName(track); name != "" {
			albumPart = fmt.Sprintf(" (%s)", name)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, artistLine(track), track.Name, albumPart, duration))
	}

	return buf.Bytes(), nil
}

// ExportToText renders a playlist as plain text.
func ExportToText(view *store.PlaylistView) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", view.Name))
	if view.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", view.Description))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(view.Items)))

	for i, item := range view.Items {
		track := item.Track
		if track == nil {
			continue
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, artistLine(track), track.Name))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON renders playlist metadata (without items) as pretty JSON.
func ToMetadataJSON(playlist models.PlaylistPayload) ([]byte, error) {
	return shared.MarshalJSON(playlist, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport.
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport writes {base}_tracks.csv plus {base}_metadata.json. The base
// path defaults to the playlist ID.
func WriteCSVExport(view *store.PlaylistView, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = view.ID
	}

	csvData, err := ExportToCSV(view)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(view.PlaylistPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{TracksFile: tracksFile, MetadataFile: metadataFile}, nil
}

// WriteMarkdownExport writes {dir}/README.md. The directory defaults to the
// playlist ID.
func WriteMarkdownExport(view *store.PlaylistView, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = view.ID
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(view)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return mdFile, nil
}

// WriteTextExport writes {playlist ID}_tracks.txt unless a path is given.
func WriteTextExport(view *store.PlaylistView, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_tracks.txt", view.ID)
	}

	textData, err := ExportToText(view)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

// WriteManifest writes an export run summary as pretty JSON.
func WriteManifest(manifest any, path string) error {
	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
