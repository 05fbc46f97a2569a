package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	ResultsView
	PlaylistView
	ConfirmView
	ExportingView
	ResultView
)

// Sessioner reports a snapshot of the backend session.
type Sessioner interface {
	Session(ctx context.Context) models.Session
}

// LoginFunc runs the Spotify sign-in flow and blocks until it settles.
type LoginFunc func(ctx context.Context) error

// Option configures optional [Model] behavior.
type Option func(*Model)

// WithLogin enables the sign-in key. The session lives in the calling
// process, so signing in here is what makes exports succeed.
func WithLogin(login LoginFunc) Option {
	return func(m *Model) { m.login = login }
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	catalog services.Catalog
	session Sessioner
	login   LoginFunc
	limit   int

	width  int
	height int

	input    textinput.Model
	results  list.Model
	tracks   list.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	busy     bool
	status   string
	sess     models.Session
	playlist *models.Playlist
	exported *models.ExportResult
	err      error

	cancelLogin context.CancelFunc
}

// NewModel creates a new TUI model with the provided dependencies.
//
// session may be nil, in which case the header omits the sign-in line.
func NewModel(ctx context.Context, catalog services.Catalog, session Sessioner, limit int, opts ...Option) *Model {
	input := textinput.New()
	input.Placeholder = "Search for a song or artist"
	input.CharLimit = 200
	input.Width = 50
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := &Model{
		ctx:     ctx,
		view:    SearchView,
		catalog: catalog,
		session: session,
		limit:   limit,
		input:   input,
		results: newList(nil, ""),
		tracks:  newList(nil, ""),
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newList(items []list.Item, title string) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	return l
}

// ViewState returns the current view.
func (m *Model) ViewState() ViewState { return m.view }

// Err returns the last error shown to the user.
func (m *Model) Err() error { return m.err }

// Init initializes the TUI by loading the session snapshot.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadSession())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(m.listSize())
		m.tracks.SetSize(m.listSize())
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.busy {
			if m.cancelLogin != nil && key.Matches(msg, m.keys.back) {
				m.cancelLogin()
			}
			return m, nil
		}
		if m.canLogin() && key.Matches(msg, m.keys.login) {
			return m, m.startLogin()
		}
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case ResultsView:
			return m.handleResultsKeys(msg)
		case PlaylistView:
			return m.handlePlaylistKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateActive(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionLoaded:
		m.sess = msg.data.(models.Session)
		return m, nil

	case MsgSearchDone:
		d := msg.data.(searchDone)
		m.busy = false
		if d.err != nil {
			m.err = d.err
			return m, nil
		}
		if d.result == nil {
			d.result = &models.SearchResult{}
		}
		m.err = nil
		m.results = newList(trackItems(d.result.Tracks, false), fmt.Sprintf("Results for %q (%d)", d.query, d.result.TotalResults))
		m.results.SetSize(m.listSize())
		m.view = ResultsView
		return m, nil

	case MsgPlaylistGenerated:
		d := msg.data.(playlistGenerated)
		m.busy = false
		if d.err == nil && (d.playlist == nil || len(d.playlist.Tracks) == 0) {
			d.err = fmt.Errorf("%w: the backend returned an empty playlist", shared.ErrMalformedResponse)
		}
		if d.err != nil {
			m.err = d.err
			return m, nil
		}
		m.err = nil
		m.playlist = d.playlist
		m.tracks = newList(trackItems(d.playlist.Tracks, true), d.playlist.Name())
		m.tracks.SetSize(m.listSize())
		m.view = PlaylistView
		return m, nil

	case MsgExportDone:
		d := msg.data.(exportDone)
		m.busy = false
		m.exported = d.result
		m.err = d.err
		m.view = ResultView
		if d.err == nil {
			return m, m.loadSession()
		}
		return m, nil

	case MsgLoginDone:
		d := msg.data.(loginDone)
		m.busy = false
		m.cancelLogin = nil
		if d.err != nil {
			m.err = d.err
			return m, nil
		}
		m.err = nil
		return m, m.loadSession()
	}
	return m, nil
}

// canLogin reports whether the sign-in key applies. It is off in the
// search box and while a list filter is taking input.
func (m *Model) canLogin() bool {
	switch m.view {
	case ResultsView:
		return m.login != nil && m.results.FilterState() != list.Filtering
	case PlaylistView:
		return m.login != nil && m.tracks.FilterState() != list.Filtering
	case ConfirmView, ResultView:
		return m.login != nil
	}
	return false
}

func (m *Model) startLogin() tea.Cmd {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelLogin = cancel
	login := m.login
	return m.startBusy("Waiting for Spotify sign-in in your browser (esc to cancel)...", func() tea.Msg {
		defer cancel()
		return loginDoneMsg(login(ctx))
	})
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		return m, m.startBusy("Searching...", m.search(query))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.results.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = SearchView
		m.err = nil
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.generate):
		if item, ok := m.results.SelectedItem().(trackItem); ok {
			return m, m.startBusy("Generating playlist...", m.generate(item.track.SpotifyTrackID))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tracks.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.tracks, cmd = m.tracks.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ResultsView
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.export):
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = ExportingView
		return m, m.startBusy("Exporting to Spotify...", m.export(m.playlist.Tracks))
	case key.Matches(msg, m.keys.no):
		m.view = PlaylistView
		return m, nil
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistView
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) listSize() (int, int) {
	return max(m.width-4, 20), max(m.height-8, 5)
}

func (m *Model) reset() {
	m.view = SearchView
	m.input.SetValue("")
	m.playlist = nil
	m.exported = nil
	m.err = nil
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.input, cmd = m.input.Update(msg)
	case ResultsView:
		m.results, cmd = m.results.Update(msg)
	case PlaylistView:
		m.tracks, cmd = m.tracks.Update(msg)
	}
	return m, cmd
}

func (m *Model) startBusy(status string, cmd tea.Cmd) tea.Cmd {
	m.busy = true
	m.status = status
	m.err = nil
	return tea.Batch(m.spinner.Tick, cmd)
}

func (m *Model) loadSession() tea.Cmd {
	if m.session == nil {
		return nil
	}
	return func() tea.Msg {
		return sessionLoadedMsg(m.session.Session(m.ctx))
	}
}

func (m *Model) search(query string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.catalog.SearchSongs(m.ctx, query, m.limit)
		return searchDoneMsg(query, result, err)
	}
}

func (m *Model) generate(spotifyTrackID string) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.catalog.GeneratePlaylist(m.ctx, spotifyTrackID)
		return playlistGeneratedMsg(playlist, err)
	}
}

func (m *Model) export(tracks []models.Track) tea.Cmd {
	return func() tea.Msg {
		result, err := m.catalog.ExportPlaylist(m.ctx, tracks)
		return exportDoneMsg(result, err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case SearchView:
		body = m.renderSearch()
	case ResultsView:
		body = m.renderList(m.results, m.withLogin(m.keys.generate, m.keys.back, m.keys.quit)...)
	case PlaylistView:
		body = m.renderList(m.tracks, m.withLogin(m.keys.export, m.keys.back, m.keys.quit)...)
	case ConfirmView:
		body = m.renderConfirm()
	case ExportingView:
		body = ""
	case ResultView:
		body = m.renderResult()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(body)
	if m.busy {
		fmt.Fprintf(&b, "\n%s %s", m.spinner.View(), m.status)
	}
	if m.err != nil && m.view != ResultView {
		fmt.Fprintf(&b, "\n\n%s", styles.err.Render("Error: "+m.describeError(m.err)))
	}
	return b.String()
}

func (m *Model) renderHeader() string {
	title := styles.title.Render("mixtape")
	if m.session == nil {
		return title
	}
	if !m.sess.Authenticated {
		return title + "\n" + styles.help.Render(m.signInHint())
	}
	who := "Signed in"
	if m.sess.DisplayName != "" {
		who = "Signed in as " + m.sess.DisplayName
	}
	return title + "\n" + styles.ok.Render(who)
}

func (m *Model) renderSearch() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.search, m.keys.back})
	return fmt.Sprintf("%s\n\n%s", m.input.View(), helpView)
}

func (m *Model) renderList(l list.Model, bindings ...key.Binding) string {
	return fmt.Sprintf("%s\n\n%s", l.View(), m.help.ShortHelpView(bindings))
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Export '%s' to Spotify?", m.playlist.Name()))
	info := fmt.Sprintf("\nTracks: %d\n", len(m.playlist.Tracks))
	if m.session != nil && !m.sess.Authenticated {
		info += styles.warn.Render("You are not signed in, so the export will be rejected.") + "\n"
	}
	helpView := m.help.ShortHelpView(m.withLogin(m.keys.yes, m.keys.no))
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView(m.withLogin(m.keys.restart, m.keys.back, m.keys.quit))

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("Export failed: "+m.describeError(m.err)), helpView)
	}
	if m.exported == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	title := styles.ok.Render("✓ Playlist exported")
	info := fmt.Sprintf("\n%s\n%s", m.playlist.Name(), m.exported.PlaylistURL)
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

func (m *Model) withLogin(bindings ...key.Binding) []key.Binding {
	if m.login == nil || m.sess.Authenticated {
		return bindings
	}
	return append(bindings, m.keys.login)
}

// signInHint names a way to sign in that reaches this process. A session
// created by another mixtape process is not visible here.
func (m *Model) signInHint() string {
	if m.login != nil {
		return "Not signed in. Press s to sign in to Spotify before exporting."
	}
	return "Not signed in. Use `mixtape export <track-id>` to sign in and export from the shell."
}

// describeError turns sentinel errors into hints a user can act on.
func (m *Model) describeError(err error) string {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		if m.login != nil {
			return "not signed in. Press s to sign in and try again."
		}
		return "not signed in. Use `mixtape export <track-id>` from the shell instead."
	case errors.Is(err, context.Canceled):
		return "sign-in canceled."
	case errors.Is(err, shared.ErrTimeout):
		return "no callback arrived from Spotify in time. Press s to try again."
	case errors.Is(err, shared.ErrTransport):
		return "the playlist backend is unreachable."
	default:
		return err.Error()
	}
}
