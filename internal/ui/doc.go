// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow from a search to a Spotify playlist:
//  1. [SearchView] : type a query
//  2. [ResultsView] : pick a song from the search results
//  3. [PlaylistView] : preview the playlist generated from that song
//  4. [ConfirmView] : confirm the export
//  5. [ExportingView] : wait on the backend
//  6. [ResultView] : show the Spotify URL or the failure
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Backend calls run as commands; the sign-in line in the header is a snapshot taken at start and after each export.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
