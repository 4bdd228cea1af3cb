package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/shonenm/quay/internal/config"
	"github.com/shonenm/quay/internal/ports"
)

// Filter selects which sources the view shows.
type Filter int

const (
	FilterAll Filter = iota
	FilterLocal
	FilterSSH
	FilterDocker
)

func (f Filter) String() string {
	switch f {
	case FilterLocal:
		return "Local"
	case FilterSSH:
		return "SSH"
	case FilterDocker:
		return "Docker"
	default:
		return "All"
	}
}

// FilterFromName maps a config value to a filter; unknown names mean All.
func FilterFromName(name string) Filter {
	switch name {
	case "local":
		return FilterLocal
	case "ssh":
		return FilterSSH
	case "docker":
		return FilterDocker
	default:
		return FilterAll
	}
}

// Matches reports whether a source passes the filter.
func (f Filter) Matches(s ports.Source) bool {
	switch f {
	case FilterLocal:
		return s == ports.SourceLocal
	case FilterSSH:
		return s == ports.SourceSSH
	case FilterDocker:
		return s == ports.SourceDocker
	default:
		return true
	}
}

// InputMode distinguishes normal navigation from live search editing.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeSearch
)

// Popup is the modal overlay state; at most one is visible.
type Popup int

const (
	PopupNone Popup = iota
	PopupDetails
	PopupHelp
	PopupForward
	PopupPresets
	PopupConnections
)

// connPopupMode switches the connections popup between the bookmark list and
// the add form.
type connPopupMode int

const (
	connModeList connPopupMode = iota
	connModeAdd
)

// statusTicks is how long a status message lives: ~3s at 250ms per tick.
const statusTicks = 12

// Model is the entire session state, owned by the bubbletea program
// goroutine. All mutation happens in Update; commands only ever communicate
// back through messages.
type Model struct {
	entries  []ports.Entry // full reconciled set, reconciler order
	filtered []ports.Entry // view projection, recomputed never patched
	selected int

	filter    Filter
	search    textinput.Model
	inputMode InputMode
	popup     Popup

	forward  ForwardForm
	connForm ConnForm
	connMode connPopupMode

	statusMsg    string
	statusLeft   int
	tickCount    int
	autoRefresh  bool
	refreshTicks int

	remoteHost   string
	dockerTarget string
	containerIP  string

	connections    config.Connections
	activeConn     int // index into AllWithLocal()
	connSelected   int
	presets        []config.Preset
	presetSelected int

	width  int
	height int

	mock       bool // synthetic data, side effects disabled
	refreshing bool
}

// Options configures a new session.
type Options struct {
	RemoteHost   string
	DockerTarget string
	AutoRefresh  bool
	RefreshTicks int
	Filter       Filter
	Presets      []config.Preset
	Connections  config.Connections
	MockEntries  []ports.Entry
}

// NewModel builds the initial session state. With MockEntries set the session
// never touches the OS: refresh, kill and forward become list edits.
func NewModel(opts Options) Model {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search"
	search.CharLimit = 64

	m := Model{
		filter:       opts.Filter,
		search:       search,
		forward:      NewForwardForm(),
		connForm:     NewConnForm(),
		autoRefresh:  opts.AutoRefresh,
		refreshTicks: opts.RefreshTicks,
		remoteHost:   opts.RemoteHost,
		dockerTarget: opts.DockerTarget,
		connections:  opts.Connections,
		presets:      opts.Presets,
		mock:         opts.MockEntries != nil,
	}
	if m.refreshTicks < 1 {
		m.refreshTicks = 20
	}
	if m.mock {
		m.setEntries(opts.MockEntries)
		m.autoRefresh = false
		m.setStatus("[mock] Loaded mock data")
	}
	return m
}

func (m *Model) isRemote() bool       { return m.remoteHost != "" }
func (m *Model) isDockerTarget() bool { return m.dockerTarget != "" }

// setEntries replaces the reconciled set and recomputes the view.
func (m *Model) setEntries(entries []ports.Entry) {
	m.entries = entries
	m.applyFilter()
}

// applyFilter recomputes the view projection from the filter and search query
// and re-clamps the selection. The projection is rebuilt from scratch every
// time; it is never mutated in place.
func (m *Model) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.search.Value()))
	m.filtered = m.filtered[:0]
	for _, e := range m.entries {
		if !m.filter.Matches(e.Source) {
			continue
		}
		if query != "" && !entryMatches(&e, query) {
			continue
		}
		m.filtered = append(m.filtered, e)
	}
	m.clampSelected()
}

func entryMatches(e *ports.Entry, query string) bool {
	if strings.Contains(strings.ToLower(e.ProcessName), query) {
		return true
	}
	if strings.Contains(strconv.Itoa(int(e.LocalPort)), query) {
		return true
	}
	return e.RemoteHost != "" && strings.Contains(strings.ToLower(e.RemoteHost), query)
}

// clampSelected keeps the cursor inside the view after any shrink.
func (m *Model) clampSelected() {
	if m.selected >= len(m.filtered) {
		m.selected = len(m.filtered) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) setFilter(f Filter) {
	m.filter = f
	m.applyFilter()
}

func (m *Model) selectedEntry() *ports.Entry {
	if m.selected < 0 || m.selected >= len(m.filtered) {
		return nil
	}
	return &m.filtered[m.selected]
}

func (m *Model) moveDown() {
	if len(m.filtered) > 0 {
		m.selected = (m.selected + 1) % len(m.filtered)
	}
}

func (m *Model) moveUp() {
	if len(m.filtered) > 0 {
		m.selected = (m.selected + len(m.filtered) - 1) % len(m.filtered)
	}
}

func (m *Model) moveFirst() { m.selected = 0 }

func (m *Model) moveLast() {
	if len(m.filtered) > 0 {
		m.selected = len(m.filtered) - 1
	}
}

// setStatus shows a transient message that expires after statusTicks ticks.
func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusLeft = statusTicks
}

// tick advances the timer bookkeeping: the tick counter and the status
// message expiry. Runs on every tick regardless of other activity.
func (m *Model) tick() {
	m.tickCount++
	if m.statusLeft > 0 {
		m.statusLeft--
		if m.statusLeft == 0 {
			m.statusMsg = ""
		}
	}
}

// shouldRefresh reports whether this tick fires an auto-refresh. Tick 0 never
// fires, and mock sessions never refresh.
func (m *Model) shouldRefresh() bool {
	return m.autoRefresh && !m.mock && m.tickCount > 0 && m.tickCount%m.refreshTicks == 0
}

// allConnections is the bookmark list with the implicit Local entry first.
func (m *Model) allConnections() []config.Connection {
	return m.connections.AllWithLocal()
}

// activeConnection returns the currently applied connection.
func (m *Model) activeConnection() config.Connection {
	all := m.allConnections()
	if m.activeConn < 0 || m.activeConn >= len(all) {
		return config.Local()
	}
	return all[m.activeConn]
}

// applyConnection makes the selected bookmark the active scan target and
// drops the stale container IP; the caller re-resolves and refreshes.
func (m *Model) applyConnection(index int) {
	all := m.allConnections()
	if index < 0 || index >= len(all) {
		return
	}
	m.activeConn = index
	conn := all[index]
	m.remoteHost = conn.RemoteHost
	m.dockerTarget = conn.DockerTarget
	m.containerIP = ""
}

func (m *Model) connNext() {
	if n := len(m.allConnections()); n > 0 {
		m.connSelected = (m.connSelected + 1) % n
	}
}

func (m *Model) connPrev() {
	if n := len(m.allConnections()); n > 0 {
		m.connSelected = (m.connSelected + n - 1) % n
	}
}

func (m *Model) presetNext() {
	if len(m.presets) > 0 {
		m.presetSelected = (m.presetSelected + 1) % len(m.presets)
	}
}

func (m *Model) presetPrev() {
	if n := len(m.presets); n > 0 {
		m.presetSelected = (m.presetSelected + n - 1) % n
	}
}

func (m *Model) selectedPreset() *config.Preset {
	if m.presetSelected < 0 || m.presetSelected >= len(m.presets) {
		return nil
	}
	return &m.presets[m.presetSelected]
}
