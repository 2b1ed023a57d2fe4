package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musivault/internal/models"
	"github.com/desertthunder/musivault/internal/services"
	"github.com/desertthunder/musivault/internal/shared"
	"github.com/desertthunder/musivault/internal/store"
	"golang.org/x/time/rate"
)

// CollectorOpts configures a collection run.
type CollectorOpts struct {
	AudioFeatures      bool    // Fetch audio features for stored tracks
	AudioAnalysis      bool    // Fetch full audio analysis (expensive)
	AudioAnalysisLimit int     // Max analysis documents per run (default: 100)
	RateLimit          float64 // Enrichment requests per second (default: 5)
}

// CollectionReport summarizes one full collection run.
type CollectionReport struct {
	Sync           *store.SyncReport `json:"sync"`
	FeaturesStored int               `json:"features_stored"`
	AnalysesStored int               `json:"analyses_stored"`
	Duration       time.Duration     `json:"duration"`
}

// Collector fetches a user's complete library from a provider and writes it
// into the vault as one snapshot, optionally enriching stored tracks with
// audio features and analysis afterwards.
type Collector struct {
	service services.Service
	store   *store.Store
	logger  *log.Logger
	opts    CollectorOpts
}

// NewCollector creates a Collector over an authenticated service and a
// migrated store.
func NewCollector(svc services.Service, st *store.Store, logger *log.Logger, opts CollectorOpts) *Collector {
	if opts.AudioAnalysisLimit <= 0 {
		opts.AudioAnalysisLimit = 100
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	return &Collector{service: svc, store: st, logger: logger, opts: opts}
}

// sendProgress sends a progress update without blocking. A full or absent
// channel drops the update.
func (c *Collector) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Collect runs one full collection: fetch everything, store the snapshot,
// then enrich. Fetch or sync failures abort the run; enrichment failures are
// logged and skipped so a flaky features endpoint cannot undo a stored
// snapshot.
func (c *Collector) Collect(ctx context.Context, progress chan<- ProgressUpdate) (*CollectionReport, error) {
	if c.service == nil {
		return nil, fmt.Errorf("%w: provider service not initialized", shared.ErrServiceUnavailable)
	}

	started := time.Now()

	snapshot, err := c.buildSnapshot(ctx, progress)
	if err != nil {
		return nil, err
	}

	c.sendProgress(progress, phaseUpdate(StoreSnapshot, 1, 1, "Storing snapshot..."))
	syncReport, err := c.store.StoreUserSnapshot(ctx, *snapshot)
	if err != nil {
		return nil, err
	}

	report := &CollectionReport{Sync: syncReport}

	limiter := rate.NewLimiter(rate.Limit(c.opts.RateLimit), 1)
	if c.opts.AudioFeatures {
		report.FeaturesStored = c.collectFeatures(ctx, progress, limiter)
	}
	if c.opts.AudioAnalysis {
		report.AnalysesStored = c.collectAnalyses(ctx, progress, limiter)
	}

	report.Duration = time.Since(started)
	c.logger.Info("collection finished",
		"user", syncReport.UserID,
		"tracks", syncReport.Tracks,
		"features", report.FeaturesStored,
		"analyses", report.AnalysesStored,
		"duration", report.Duration.Round(time.Millisecond))
	return report, nil
}

// buildSnapshot drains every provider endpoint into one models.Snapshot.
func (c *Collector) buildSnapshot(ctx context.Context, progress chan<- ProgressUpdate) (*models.Snapshot, error) {
	snapshot := &models.Snapshot{}

	c.sendProgress(progress, phaseUpdate(FetchProfile, 1, 1, "Fetching profile..."))
	profile, err := c.service.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: profile: %w", shared.ErrAPIRequest, err)
	}
	snapshot.User = *profile

	c.sendProgress(progress, phaseUpdate(FetchPlaylists, 1, 1, "Fetching playlists..."))
	playlists, err := c.service.Playlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: playlists: %w", shared.ErrAPIRequest, err)
	}

	for i, playlist := range playlists {
		c.sendProgress(progress, playlistItemsUpdate(i+1, len(playlists), playlist.Name))
		items, err := c.service.PlaylistItems(ctx, playlist.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: playlist %s items: %w", shared.ErrAPIRequest, playlist.ID, err)
		}
		snapshot.Playlists = append(snapshot.Playlists, models.PlaylistSnapshot{
			Playlist: playlist,
			Items:    items,
		})
	}

	c.sendProgress(progress, phaseUpdate(FetchSavedTracks, 1, 1, "Fetching saved tracks..."))
	saved, err := c.service.SavedTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: saved tracks: %w", shared.ErrAPIRequest, err)
	}
	snapshot.SavedTracks = saved

	for i, timeRange := range store.TimeRanges {
		c.sendProgress(progress, topItemsUpdate(i+1, len(store.TimeRanges), timeRange))

		topTracks, err := c.service.TopTracks(ctx, timeRange)
		if err != nil {
			return nil, fmt.Errorf("%w: top tracks (%s): %w", shared.ErrAPIRequest, timeRange, err)
		}
		snapshot.TopTracks = append(snapshot.TopTracks, *topTracks)

		topArtists, err := c.service.TopArtists(ctx, timeRange)
		if err != nil {
			return nil, fmt.Errorf("%w: top artists (%s): %w", shared.ErrAPIRequest, timeRange, err)
		}
		snapshot.TopArtists = append(snapshot.TopArtists, *topArtists)
	}

	c.sendProgress(progress, phaseUpdate(FetchFollowed, 1, 1, "Fetching followed artists..."))
	followed, err := c.service.FollowedArtists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: followed artists: %w", shared.ErrAPIRequest, err)
	}
	snapshot.FollowedArtists = followed

	return snapshot, nil
}

// collectFeatures fills in audio features for tracks that lack them, in
// batches of 100.
func (c *Collector) collectFeatures(ctx context.Context, progress chan<- ProgressUpdate, limiter *rate.Limiter) int {
	missing, err := c.store.TrackIDsMissingFeatures(ctx, 0)
	if err != nil {
		c.logger.Warn("skipping feature enrichment", "error", err)
		return 0
	}
	if len(missing) == 0 {
		return 0
	}

	const batchSize = 100
	batches := (len(missing) + batchSize - 1) / batchSize
	stored := 0

	for i := 0; i < len(missing); i += batchSize {
		end := min(i+batchSize, len(missing))
		c.sendProgress(progress, featuresBatchUpdate(i/batchSize+1, batches))

		if err := limiter.Wait(ctx); err != nil {
			return stored
		}
		features, err := c.service.AudioFeatures(ctx, missing[i:end])
		if err != nil {
			c.logger.Warn("features batch failed", "offset", i, "error", err)
			continue
		}
		written, err := c.store.UpsertAudioFeatures(ctx, features)
		if err != nil {
			c.logger.Warn("features batch store failed", "offset", i, "error", err)
			continue
		}
		stored += written
	}
	return stored
}

// collectAnalyses fetches full analysis documents one track at a time, up to
// the configured cap.
func (c *Collector) collectAnalyses(ctx context.Context, progress chan<- ProgressUpdate, limiter *rate.Limiter) int {
	missing, err := c.store.TrackIDsMissingAnalysis(ctx, c.opts.AudioAnalysisLimit)
	if err != nil {
		c.logger.Warn("skipping analysis enrichment", "error", err)
		return 0
	}

	stored := 0
	for i, trackID := range missing {
		c.sendProgress(progress, analysisUpdate(i+1, len(missing), trackID))

		if err := limiter.Wait(ctx); err != nil {
			return stored
		}
		analysis, err := c.service.AudioAnalysis(ctx, trackID)
		if err != nil {
			c.logger.Warn("analysis fetch failed", "track", trackID, "error", err)
			continue
		}
		if err := c.store.UpsertAudioAnalysis(ctx, trackID, *analysis); err != nil {
			c.logger.Warn("analysis store failed", "track", trackID, "error", err)
			continue
		}
		stored++
	}
	return stored
}
