package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchProfile Phase = iota
	FetchPlaylists
	FetchPlaylistItems
	FetchSavedTracks
	FetchTopItems
	FetchFollowed
	StoreSnapshot
	EnrichFeatures
	EnrichAnalysis
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchProfile:
		return "fetch_profile"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchPlaylistItems:
		return "fetch_playlist_items"
	case FetchSavedTracks:
		return "fetch_saved_tracks"
	case FetchTopItems:
		return "fetch_top_items"
	case FetchFollowed:
		return "fetch_followed"
	case StoreSnapshot:
		return "store_snapshot"
	case EnrichFeatures:
		return "enrich_features"
	case EnrichAnalysis:
		return "enrich_analysis"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func phaseUpdate(phase Phase, step, total int, message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: message,
	}
}

func playlistItemsUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylistItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching items: %s...", step, total, name),
	}
}

func topItemsUpdate(step, total int, timeRange string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTopItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching top items (%s)...", timeRange),
	}
}

func featuresBatchUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichFeatures,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching audio features batch...", step, total),
	}
}

func analysisUpdate(step, total int, trackID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EnrichAnalysis,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching audio analysis: %s", step, total, trackID),
	}
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
