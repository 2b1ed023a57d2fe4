package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/musivault/internal/store"
	"github.com/desertthunder/musivault/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsLoaded MsgKind = iota
	MsgSyncProgress
	MsgSyncComplete
)

// playlistsLoadedMsg is the constructor for [MsgPlaylistsLoaded]
func playlistsLoadedMsg(playlists []store.PlaylistView, err error) Msg {
	return Msg{
		kind: MsgPlaylistsLoaded,
		data: struct {
			playlists []store.PlaylistView
			err       error
		}{playlists, err},
	}
}

// syncProgressMsg is the constructor for [MsgSyncProgress]
func syncProgressMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgSyncProgress, data: update}
}

// syncCompleteMsg is the constructor for [MsgSyncComplete]
func syncCompleteMsg(report *tasks.CollectionReport, err error) Msg {
	return Msg{
		kind: MsgSyncComplete,
		data: struct {
			report *tasks.CollectionReport
			err    error
		}{report, err},
	}
}
