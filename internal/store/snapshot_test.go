package store

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/musivault/internal/models"
	"github.com/desertthunder/musivault/internal/shared"
)

func fullSnapshot() models.Snapshot {
	artist := testArtist("a1", "Night Drives")
	album := testAlbum("al1", "City Lights", artist)
	trackOne := testTrack("t1", "Neon", &album, artist)
	trackTwo := testTrack("t2", "Afterglow", &album, artist)

	return models.Snapshot{
		User: testUser("u1"),
		Playlists: []models.PlaylistSnapshot{
			{
				Playlist: models.PlaylistPayload{ID: "p1", Name: "Late Nights", Public: true},
				Items: []models.PlaylistItem{
					{AddedAt: "2023-06-01T12:00:00Z", AddedBy: models.PlaylistOwner{ID: "u1"}, Track: &trackOne},
					{AddedAt: "2023-06-02T08:30:00Z", AddedBy: models.PlaylistOwner{ID: "u1"}, Track: &trackTwo},
				},
			},
		},
		SavedTracks: []models.SavedTrackItem{
			{AddedAt: "2023-05-20T10:00:00Z", Track: &trackOne},
			{AddedAt: "2023-05-25T10:00:00Z", Track: &trackTwo},
		},
		TopTracks: []models.TopTracksPage{
			{TimeRange: "short_term", Items: []models.TrackPayload{trackTwo, trackOne}},
		},
		TopArtists: []models.TopArtistsPage{
			{Href: "https://api.spotify.com/v1/me/top/artists?time_range=long_term", Items: []models.ArtistPayload{artist}},
		},
		FollowedArtists: []models.ArtistPayload{artist},
	}
}

func TestStoreUserSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a complete snapshot", func(t *testing.T) {
		s := setupTestStore(t)

		report, err := s.StoreUserSnapshot(ctx, fullSnapshot())
		if err != nil {
			t.Fatalf("sync failed: %v", err)
		}

		if report.UserID != "u1" {
			t.Errorf("expected user u1, got %s", report.UserID)
		}
		if report.Users != 1 || report.Artists != 1 || report.Albums != 1 {
			t.Errorf("unexpected entity counts: %+v", report)
		}
		if report.Tracks != 2 {
			t.Errorf("expected 2 tracks, got %d", report.Tracks)
		}
		if report.PlaylistTracks != 2 || report.SavedTracks != 2 {
			t.Errorf("unexpected association counts: %+v", report)
		}
		if report.TopTracks != 2 || report.TopArtists != 1 || report.FollowedArtists != 1 {
			t.Errorf("unexpected listing counts: %+v", report)
		}
		if report.Skipped != 0 {
			t.Errorf("expected no skips, got %d", report.Skipped)
		}

		if got := countRows(t, s, "artists"); got != 1 {
			t.Errorf("expected 1 artist row, got %d", got)
		}
		if got := countRows(t, s, "track_artists"); got != 2 {
			t.Errorf("expected 2 track_artists rows, got %d", got)
		}
		if got := countRows(t, s, "album_artists"); got != 1 {
			t.Errorf("expected 1 album_artists row, got %d", got)
		}
	})

	t.Run("resolves time range from href", func(t *testing.T) {
		s := setupTestStore(t)

		if _, err := s.StoreUserSnapshot(ctx, fullSnapshot()); err != nil {
			t.Fatalf("sync failed: %v", err)
		}

		var timeRange string
		err := s.DB().QueryRow("SELECT time_range FROM user_top_artists WHERE user_id = ?", "u1").Scan(&timeRange)
		if err != nil {
			t.Fatalf("failed to query top artists: %v", err)
		}
		if timeRange != "long_term" {
			t.Errorf("expected long_term from href, got %s", timeRange)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		s := setupTestStore(t)

		first, err := s.StoreUserSnapshot(ctx, fullSnapshot())
		if err != nil {
			t.Fatalf("first sync failed: %v", err)
		}
		second, err := s.StoreUserSnapshot(ctx, fullSnapshot())
		if err != nil {
			t.Fatalf("second sync failed: %v", err)
		}

		if *first != *second {
			t.Errorf("reports differ between identical syncs: %+v vs %+v", first, second)
		}
		for _, table := range []string{"users", "artists", "albums", "tracks", "playlists", "playlist_tracks", "saved_tracks", "user_top_tracks", "user_top_artists", "user_followed_artists"} {
			first := countRows(t, s, table)
			if _, err := s.StoreUserSnapshot(ctx, fullSnapshot()); err != nil {
				t.Fatalf("third sync failed: %v", err)
			}
			if got := countRows(t, s, table); got != first {
				t.Errorf("%s row count grew from %d to %d", table, first, got)
			}
		}
	})

	t.Run("updates entities in place", func(t *testing.T) {
		s := setupTestStore(t)

		snap := fullSnapshot()
		if _, err := s.StoreUserSnapshot(ctx, snap); err != nil {
			t.Fatalf("first sync failed: %v", err)
		}

		snap.User.DisplayName = "Renamed"
		snap.Playlists[0].Playlist.Name = "Later Nights"
		if _, err := s.StoreUserSnapshot(ctx, snap); err != nil {
			t.Fatalf("second sync failed: %v", err)
		}

		user, err := s.GetUser(ctx, "u1")
		if err != nil {
			t.Fatalf("failed to load user: %v", err)
		}
		if user.DisplayName != "Renamed" {
			t.Errorf("expected renamed user, got %q", user.DisplayName)
		}

		playlist, err := s.GetPlaylist(ctx, "p1")
		if err != nil {
			t.Fatalf("failed to load playlist: %v", err)
		}
		if playlist.Name != "Later Nights" {
			t.Errorf("expected renamed playlist, got %q", playlist.Name)
		}
	})

	t.Run("replaces scoped listing sets", func(t *testing.T) {
		s := setupTestStore(t)

		a := testTrack("ta", "A", nil)
		b := testTrack("tb", "B", nil)
		c := testTrack("tc", "C", nil)
		x := testTrack("tx", "X", nil)
		y := testTrack("ty", "Y", nil)

		snap := models.Snapshot{
			User: testUser("u1"),
			TopTracks: []models.TopTracksPage{
				{TimeRange: "short_term", Items: []models.TrackPayload{a, b, c}},
				{TimeRange: "medium_term", Items: []models.TrackPayload{a}},
			},
		}
		if _, err := s.StoreUserSnapshot(ctx, snap); err != nil {
			t.Fatalf("first sync failed: %v", err)
		}

		snap.TopTracks = []models.TopTracksPage{
			{TimeRange: "short_term", Items: []models.TrackPayload{x, y}},
			{TimeRange: "medium_term", Items: []models.TrackPayload{a}},
		}
		if _, err := s.StoreUserSnapshot(ctx, snap); err != nil {
			t.Fatalf("second sync failed: %v", err)
		}

		short, err := s.GetUserTopTracks(ctx, "u1", "short_term")
		if err != nil {
			t.Fatalf("failed to load top tracks: %v", err)
		}
		if len(short) != 2 {
			t.Fatalf("expected 2 short_term entries, got %d", len(short))
		}
		if short[0].Track.ID != "tx" || short[0].Rank != 1 {
			t.Errorf("expected tx at rank 1, got %s at %d", short[0].Track.ID, short[0].Rank)
		}
		if short[1].Track.ID != "ty" || short[1].Rank != 2 {
			t.Errorf("expected ty at rank 2, got %s at %d", short[1].Track.ID, short[1].Rank)
		}

		medium, err := s.GetUserTopTracks(ctx, "u1", "medium_term")
		if err != nil {
			t.Fatalf("failed to load top tracks: %v", err)
		}
		if len(medium) != 1 || medium[0].Track.ID != "ta" {
			t.Errorf("medium_term scope should be untouched, got %+v", medium)
		}

		// Displaced tracks keep their entity rows.
		for _, id := range []string{"ta", "tb", "tc"} {
			track, err := s.GetTrack(ctx, id)
			if err != nil {
				t.Fatalf("failed to load track %s: %v", id, err)
			}
			if track == nil {
				t.Errorf("track %s should survive listing replacement", id)
			}
		}
	})

	t.Run("clears scopes when omitted", func(t *testing.T) {
		s := setupTestStore(t)

		if _, err := s.StoreUserSnapshot(ctx, fullSnapshot()); err != nil {
			t.Fatalf("first sync failed: %v", err)
		}

		snap := fullSnapshot()
		snap.TopTracks = nil
		snap.SavedTracks = nil
		snap.FollowedArtists = nil
		if _, err := s.StoreUserSnapshot(ctx, snap); err != nil {
			t.Fatalf("second sync failed: %v", err)
		}

		if got := countRows(t, s, "user_top_tracks"); got != 0 {
			t.Errorf("expected cleared top tracks, got %d rows", got)
		}
		if got := countRows(t, s, "saved_tracks"); got != 0 {
			t.Errorf("expected cleared saved tracks, got %d rows", got)
		}
		if got := countRows(t, s, "user_followed_artists"); got != 0 {
			t.Errorf("expected cleared followed artists, got %d rows", got)
		}
		if got := countRows(t, s, "tracks"); got == 0 {
			t.Error("track entities should never be deleted")
		}
	})

	t.Run("skips items with missing ids", func(t *testing.T) {
		s := setupTestStore(t)

		good := testTrack("t1", "Kept", nil)
		bad := testTrack("", "Dropped", nil)
		snap := models.Snapshot{
			User: testUser("u1"),
			Playlists: []models.PlaylistSnapshot{
				{
					Playlist: models.PlaylistPayload{ID: "p1", Name: "Mixed"},
					Items: []models.PlaylistItem{
						{AddedAt: "2023-06-01T12:00:00Z", Track: &bad},
						{AddedAt: "2023-06-02T12:00:00Z", Track: &good},
						{AddedAt: "2023-06-03T12:00:00Z", Track: nil},
					},
				},
			},
		}

		report, err := s.StoreUserSnapshot(ctx, snap)
		if err != nil {
			t.Fatalf("sync failed: %v", err)
		}
		if report.Skipped == 0 {
			t.Error("expected skipped items to be counted")
		}
		if report.PlaylistTracks != 1 {
			t.Errorf("expected 1 playlist track, got %d", report.PlaylistTracks)
		}

		playlist, err := s.GetPlaylist(ctx, "p1")
		if err != nil {
			t.Fatalf("failed to load playlist: %v", err)
		}
		if len(playlist.Items) != 1 || playlist.Items[0].Track.ID != "t1" {
			t.Errorf("expected only the kept track, got %+v", playlist.Items)
		}
	})

	t.Run("drops items with malformed timestamps but keeps the track", func(t *testing.T) {
		s := setupTestStore(t)

		track := testTrack("t1", "Kept", nil)
		snap := models.Snapshot{
			User: testUser("u1"),
			SavedTracks: []models.SavedTrackItem{
				{AddedAt: "not-a-timestamp", Track: &track},
			},
		}

		report, err := s.StoreUserSnapshot(ctx, snap)
		if err != nil {
			t.Fatalf("sync failed: %v", err)
		}
		if report.Skipped != 1 {
			t.Errorf("expected 1 skip, got %d", report.Skipped)
		}
		if report.SavedTracks != 0 {
			t.Errorf("expected no saved track rows, got %d", report.SavedTracks)
		}

		stored, err := s.GetTrack(ctx, "t1")
		if err != nil {
			t.Fatalf("failed to load track: %v", err)
		}
		if stored == nil {
			t.Error("track entity should persist even when the library item is dropped")
		}
	})

	t.Run("rejects a user without an id", func(t *testing.T) {
		s := setupTestStore(t)

		_, err := s.StoreUserSnapshot(ctx, models.Snapshot{User: models.UserPayload{DisplayName: "Anon"}})
		if !errors.Is(err, shared.ErrMissingUserID) {
			t.Errorf("expected ErrMissingUserID, got %v", err)
		}
		if !errors.Is(err, shared.ErrSyncFailed) {
			t.Errorf("expected ErrSyncFailed in the chain, got %v", err)
		}
		if got := countRows(t, s, "users"); got != 0 {
			t.Errorf("failed sync should leave no rows, got %d users", got)
		}
	})

	t.Run("orders playlist items by position", func(t *testing.T) {
		s := setupTestStore(t)

		first := testTrack("t1", "First", nil)
		second := testTrack("t2", "Second", nil)
		third := testTrack("t3", "Third", nil)
		snap := models.Snapshot{
			User: testUser("u1"),
			Playlists: []models.PlaylistSnapshot{
				{
					Playlist: models.PlaylistPayload{ID: "p1", Name: "Ordered"},
					Items: []models.PlaylistItem{
						{Track: &first}, {Track: &second}, {Track: &third},
					},
				},
			},
		}
		if _, err := s.StoreUserSnapshot(ctx, snap); err != nil {
			t.Fatalf("sync failed: %v", err)
		}

		playlist, err := s.GetPlaylist(ctx, "p1")
		if err != nil {
			t.Fatalf("failed to load playlist: %v", err)
		}
		for i, want := range []string{"t1", "t2", "t3"} {
			if playlist.Items[i].Track.ID != want {
				t.Errorf("position %d: expected %s, got %s", i, want, playlist.Items[i].Track.ID)
			}
		}

		var minPos int
		if err := s.DB().QueryRow("SELECT MIN(position) FROM playlist_tracks").Scan(&minPos); err != nil {
			t.Fatalf("failed to query positions: %v", err)
		}
		if minPos != 0 {
			t.Errorf("positions should start at 0, got %d", minPos)
		}
	})
}
