package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/musivault/internal/shared"
	"github.com/desertthunder/musivault/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SyncRun snapshots the authenticated user's library into the vault.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized, run 'musivault auth login'", shared.ErrServiceUnavailable)
	}

	st, closeStore, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	opts := r.collectorOpts()
	if cmd.Bool("features") {
		opts.AudioFeatures = true
	}
	if cmd.Bool("analysis") {
		opts.AudioAnalysis = true
	}
	if limit := cmd.Int("analysis-limit"); limit > 0 {
		opts.AudioAnalysisLimit = limit
	}

	collector := tasks.NewCollector(r.spotify, st, r.logger, opts)

	r.writePlain("Starting library sync...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		for update := range progressCh {
			r.renderSyncProgress(update)
		}
	}()

	report, err := collector.Collect(ctx, progressCh)
	close(progressCh)
	<-rendered

	if err != nil {
		if errors.Is(err, shared.ErrTokenExpired) {
			r.writePlainln("⚠ Authentication token expired. Run 'musivault auth login' and retry.")
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete!")
	r.writePlain("User: %s\n", report.Sync.UserID)
	r.writePlain("Playlists: %d\n", report.Sync.Playlists)
	r.writePlain("Playlist tracks: %d\n", report.Sync.PlaylistTracks)
	r.writePlain("Saved tracks: %d\n", report.Sync.SavedTracks)
	r.writePlain("Top tracks: %d\n", report.Sync.TopTracks)
	r.writePlain("Top artists: %d\n", report.Sync.TopArtists)
	r.writePlain("Followed artists: %d\n", report.Sync.FollowedArtists)
	if report.Sync.Skipped > 0 {
		r.writePlain("Skipped items: %d\n", report.Sync.Skipped)
	}
	if report.FeaturesStored > 0 {
		r.writePlain("Audio features stored: %d\n", report.FeaturesStored)
	}
	if report.AnalysesStored > 0 {
		r.writePlain("Audio analyses stored: %d\n", report.AnalysesStored)
	}
	r.writePlain("Duration: %s\n", report.Duration)

	return nil
}

func (r *Runner) renderSyncProgress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.FetchProfile, tasks.FetchPlaylists, tasks.FetchSavedTracks, tasks.FetchTopItems, tasks.FetchFollowed:
		r.writePlain("📥 %s\n", update.Message)
	case tasks.FetchPlaylistItems:
		r.writePlain("   %s\n", update.Message)
	case tasks.StoreSnapshot:
		r.writePlain("\n💾 %s\n", update.Message)
	case tasks.EnrichFeatures, tasks.EnrichAnalysis:
		r.writePlain("🎛  %s\n", update.Message)
	}
}
