package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/musivault/internal/models"
)

// UpsertAudioFeatures writes a batch of audio feature rows, one per track,
// replacing any previously stored values. Entries with no track ID are
// dropped. Returns the number of rows written.
func (s *Store) UpsertAudioFeatures(ctx context.Context, features []models.AudioFeaturesPayload) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin features transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	written := 0
	for _, f := range features {
		if f.ID == "" {
			continue
		}
		_, err := tx.Exec(`
			INSERT INTO audio_features (track_id, danceability, energy, key, loudness, mode,
				speechiness, acousticness, instrumentalness, liveness, valence, tempo,
				time_signature, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(track_id) DO UPDATE SET
				danceability = excluded.danceability, energy = excluded.energy,
				key = excluded.key, loudness = excluded.loudness, mode = excluded.mode,
				speechiness = excluded.speechiness, acousticness = excluded.acousticness,
				instrumentalness = excluded.instrumentalness, liveness = excluded.liveness,
				valence = excluded.valence, tempo = excluded.tempo,
				time_signature = excluded.time_signature, updated_at = excluded.updated_at
		`, f.ID, f.Danceability, f.Energy, f.Key, f.Loudness, f.Mode,
			f.Speechiness, f.Acousticness, f.Instrumentalness, f.Liveness,
			f.Valence, f.Tempo, f.TimeSignature, now, now)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert features for track %s: %w", f.ID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit features transaction: %w", err)
	}
	return written, nil
}

// UpsertAudioAnalysis stores the full analysis document for one track,
// replacing any previous one.
func (s *Store) UpsertAudioAnalysis(ctx context.Context, trackID string, analysis models.AudioAnalysisPayload) error {
	if trackID == "" {
		return fmt.Errorf("analysis upsert requires a track id")
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audio_analysis (track_id, bars, beats, sections, segments, tatums,
			track_analysis, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			bars = excluded.bars, beats = excluded.beats, sections = excluded.sections,
			segments = excluded.segments, tatums = excluded.tatums,
			track_analysis = excluded.track_analysis, updated_at = excluded.updated_at
	`, trackID, rawText(analysis.Bars), rawText(analysis.Beats), rawText(analysis.Sections),
		rawText(analysis.Segments), rawText(analysis.Tatums), rawText(analysis.Track), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert analysis for track %s: %w", trackID, err)
	}
	return nil
}

func rawText(raw []byte) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}

// GetAudioFeatures loads the stored features for one track, or nil when the
// track has none.
func (s *Store) GetAudioFeatures(ctx context.Context, trackID string) (*models.AudioFeaturesPayload, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT track_id, danceability, energy, key, loudness, mode, speechiness,
			acousticness, instrumentalness, liveness, valence, tempo, time_signature
		FROM audio_features WHERE track_id = ?
	`, trackID)

	features, err := scanAudioFeatures(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load features for track %s: %w", trackID, err)
	}
	return &features, nil
}

// TrackIDsMissingFeatures returns up to limit track IDs with no stored audio
// features. A zero limit means no cap.
func (s *Store) TrackIDsMissingFeatures(ctx context.Context, limit int) ([]string, error) {
	return s.missingTrackIDs(ctx, "audio_features", limit)
}

// TrackIDsMissingAnalysis returns up to limit track IDs with no stored audio
// analysis. A zero limit means no cap.
func (s *Store) TrackIDsMissingAnalysis(ctx context.Context, limit int) ([]string, error) {
	return s.missingTrackIDs(ctx, "audio_analysis", limit)
}

func (s *Store) missingTrackIDs(ctx context.Context, table string, limit int) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT t.id FROM tracks t
		LEFT JOIN %s af ON af.track_id = t.id
		WHERE af.track_id IS NULL
		ORDER BY t.id
	`, table)
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks missing %s: %w", table, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan track id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
