package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixtape/internal/models"
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
	MsgSessionLoaded MsgKind = iota
	MsgSearchDone
	MsgPlaylistGenerated
	MsgExportDone
	MsgLoginDone
)

type searchDone struct {
	query  string
	result *models.SearchResult
	err    error
}

type playlistGenerated struct {
	playlist *models.Playlist
	err      error
}

type exportDone struct {
	result *models.ExportResult
	err    error
}

type loginDone struct {
	err error
}

// sessionLoadedMsg is the constructor for [MsgSessionLoaded]
func sessionLoadedMsg(s models.Session) Msg {
	return Msg{kind: MsgSessionLoaded, data: s}
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(query string, result *models.SearchResult, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchDone{query, result, err}}
}

// playlistGeneratedMsg is the constructor for [MsgPlaylistGenerated]
func playlistGeneratedMsg(playlist *models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistGenerated, data: playlistGenerated{playlist, err}}
}

// exportDoneMsg is the constructor for [MsgExportDone]
func exportDoneMsg(result *models.ExportResult, err error) Msg {
	return Msg{kind: MsgExportDone, data: exportDone{result, err}}
}

// loginDoneMsg is the constructor for [MsgLoginDone]
func loginDoneMsg(err error) Msg {
	return Msg{kind: MsgLoginDone, data: loginDone{err}}
}
