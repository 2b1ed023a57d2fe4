package main

import (
	"context"

	"github.com/desertthunder/musivault/internal/shared"
	"github.com/desertthunder/musivault/internal/tasks"
	"github.com/urfave/cli/v3"
)

// VaultStats prints entity counts for the stored vault.
func (r *Runner) VaultStats(ctx context.Context, cmd *cli.Command) error {
	st, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	stats, err := st.GetStats(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Vault Statistics")
	r.writePlain("Users: %d\n", stats.Users)
	r.writePlain("Artists: %d\n", stats.Artists)
	r.writePlain("Albums: %d\n", stats.Albums)
	r.writePlain("Tracks: %d\n", stats.Tracks)
	r.writePlain("Playlists: %d\n", stats.Playlists)
	r.writePlain("Playlist tracks: %d\n", stats.PlaylistTracks)
	r.writePlain("Saved tracks: %d\n", stats.SavedTracks)
	r.writePlain("Top tracks: %d\n", stats.TopTracks)
	r.writePlain("Top artists: %d\n", stats.TopArtists)
	r.writePlain("Followed artists: %d\n", stats.FollowedArtists)
	r.writePlain("Audio features: %d\n", stats.AudioFeatures)
	r.writePlain("Audio analyses: %d\n", stats.AudioAnalyses)

	return nil
}

// VaultPlaylists lists stored playlists for a vault user.
func (r *Runner) VaultPlaylists(ctx context.Context, cmd *cli.Command) error {
	st, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	userID, err := r.resolveUser(ctx, st, cmd.String("user"))
	if err != nil {
		return err
	}

	playlists, err := st.GetUserPlaylists(ctx, userID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", len(p.Items))
		r.writePlain("   Visibility: %s\n", shared.VisibilityString(p.Public))
		r.writePlain("\n")
	}

	return nil
}

// VaultExport exports stored playlists to disk in bulk.
func (r *Runner) VaultExport(ctx context.Context, cmd *cli.Command) error {
	st, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	userID, err := r.resolveUser(ctx, st, cmd.String("user"))
	if err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
	}

	exporter := tasks.NewExporter(st, r.logger)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		for update := range progressCh {
			if update.Phase == tasks.ExportPlaylist {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, err := exporter.BulkExport(ctx, progressCh, userID, cmd.StringSlice("id"), opts)
	close(progressCh)
	<-rendered

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Playlists: %d\n", result.TotalPlaylists)
	r.writePlain("Exported: %d\n", result.SuccessfulExports)
	if result.FailedExports > 0 {
		r.writePlain("Failed: %d\n", result.FailedExports)
		for _, item := range result.Results {
			if !item.Success {
				r.writePlain("  ✗ %s\n", item.PlaylistID)
			}
		}
	}
	r.writePlain("Output directory: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)

	return nil
}
