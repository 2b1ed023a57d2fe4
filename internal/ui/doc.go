// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the local vault:
//  1. [PlaylistListView] : Browse synced playlists
//  2. [TrackListView] : Inspect a playlist's tracks
//  3. [SyncView] : Monitor real-time progress of a collection run
//  4. [ResultView] : Display sync counts and enrichment totals
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the Collector, providing non-blocking status reporting during syncs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, s, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
