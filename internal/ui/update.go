package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shonenm/quay/internal/ports"
)

// Update is the single place session state changes. Side effects (kill,
// forward, collection) run as commands and report back through messages, so
// no state is ever touched off this goroutine.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.tick()
		if m.shouldRefresh() {
			return m, tea.Batch(tickCmd(), refreshCmd(m.remoteHost, m.dockerTarget))
		}
		return m, tickCmd()

	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			m.setStatus("Load failed: " + msg.err.Error())
			return m, nil
		}
		if len(msg.entries) == 0 && len(m.entries) == 0 {
			m.setStatus("No ports discovered")
		}
		m.setEntries(msg.entries)
		return m, nil

	case killDoneMsg:
		if msg.err != nil {
			m.setStatus("Kill failed: " + msg.err.Error())
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Killed process on port %d", msg.port))
		return m, refreshCmd(m.remoteHost, m.dockerTarget)

	case forwardDoneMsg:
		if msg.err != nil {
			m.setStatus("Forward failed: " + msg.err.Error())
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Forward %s -> %s (PID: %d)", msg.spec, msg.host, msg.pid))
		return m, refreshCmd(m.remoteHost, m.dockerTarget)

	case containerIPMsg:
		if msg.err != nil {
			m.setStatus("Container IP lookup failed: " + msg.err.Error())
			return m, nil
		}
		m.containerIP = msg.ip
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.popup {
	case PopupForward:
		return m.handleForwardKey(msg)
	case PopupPresets:
		return m.handlePresetKey(msg)
	case PopupConnections:
		return m.handleConnectionKey(msg)
	case PopupDetails, PopupHelp:
		switch msg.String() {
		case "esc", "enter", "q":
			m.popup = PopupNone
		}
		return m, nil
	}

	if m.inputMode == ModeSearch {
		return m.handleSearchKey(msg)
	}
	return m.handleNormalKey(msg)
}

// handleSearchKey runs while the search box owns the keyboard: every
// keystroke lands in the query and recomputes the view.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.inputMode = ModeNormal
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Esc clears an active query before it means quit.
	if msg.String() == "esc" && m.search.Value() != "" {
		m.search.SetValue("")
		m.applyFilter()
		return m, nil
	}
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Down):
		m.moveDown()
	case key.Matches(msg, keys.Up):
		m.moveUp()
	case key.Matches(msg, keys.First):
		m.moveFirst()
	case key.Matches(msg, keys.Last):
		m.moveLast()

	case key.Matches(msg, keys.Search):
		m.inputMode = ModeSearch
		m.search.Focus()

	case key.Matches(msg, keys.FilterAll):
		m.setFilter(FilterAll)
	case key.Matches(msg, keys.FilterLocal):
		m.setFilter(FilterLocal)
	case key.Matches(msg, keys.FilterSSH):
		m.setFilter(FilterSSH)
	case key.Matches(msg, keys.FilterDock):
		m.setFilter(FilterDocker)

	case key.Matches(msg, keys.Refresh):
		if m.mock {
			return m, nil
		}
		m.refreshing = true
		return m, refreshCmd(m.remoteHost, m.dockerTarget)

	case key.Matches(msg, keys.AutoRefresh):
		if m.mock {
			return m, nil
		}
		m.autoRefresh = !m.autoRefresh
		if m.autoRefresh {
			m.setStatus("Auto-refresh ON")
		} else {
			m.setStatus("Auto-refresh OFF")
		}

	case key.Matches(msg, keys.Details):
		if m.selectedEntry() != nil {
			m.popup = PopupDetails
		}
	case key.Matches(msg, keys.Help):
		m.popup = PopupHelp

	case key.Matches(msg, keys.Kill):
		return m.dispatchKill()

	case key.Matches(msg, keys.Forward):
		m.openForward()

	case key.Matches(msg, keys.QuickFwd):
		return m.dispatchQuickForward()

	case key.Matches(msg, keys.Presets):
		m.presetSelected = 0
		m.popup = PopupPresets

	case key.Matches(msg, keys.Connections):
		m.connSelected = m.activeConn
		m.connMode = connModeList
		m.popup = PopupConnections

	case key.Matches(msg, keys.Copy):
		if e := m.selectedEntry(); e != nil {
			spec := e.ForwardSpec()
			if err := clipboard.WriteAll(spec); err != nil {
				m.setStatus("Copy failed: " + err.Error())
			} else {
				m.setStatus("Copied " + spec)
			}
		}
	}
	return m, nil
}

// dispatchKill resolves the kill strategy from the selected entry and the
// connection mode. Mock sessions just edit the list.
func (m Model) dispatchKill() (tea.Model, tea.Cmd) {
	e := m.selectedEntry()
	if e == nil {
		return m, nil
	}
	if m.mock {
		port := e.LocalPort
		kept := make([]ports.Entry, 0, len(m.entries))
		for _, entry := range m.entries {
			if entry.LocalPort != port {
				kept = append(kept, entry)
			}
		}
		m.setEntries(kept)
		m.setStatus(fmt.Sprintf("[mock] Removed port %d", port))
		return m, nil
	}
	if m.isDockerTarget() && e.PID == 0 {
		m.setStatus("No PID available for this port (container listing has no process table)")
		return m, nil
	}
	return m, killCmd(*e, m.remoteHost, m.dockerTarget)
}

// openForward opens the draft pre-filled from the selected entry with field
// locking applied per the active connection mode.
func (m *Model) openForward() {
	e := m.selectedEntry()
	switch {
	case e == nil:
		m.forward = NewForwardForm()
	case m.isRemote():
		m.forward = ForwardForRemoteEntry(e, m.remoteHost, m.containerIP)
	default:
		m.forward = ForwardFromEntry(e)
	}
	m.popup = PopupForward
}

// dispatchQuickForward forwards the selected port to itself on the configured
// target without opening the draft.
func (m Model) dispatchQuickForward() (tea.Model, tea.Cmd) {
	e := m.selectedEntry()
	if e == nil {
		return m, nil
	}
	if !m.isRemote() {
		if m.isDockerTarget() {
			m.setStatus("Quick forward for local Docker not supported")
		} else {
			m.setStatus("Quick forward requires a remote connection")
		}
		return m, nil
	}
	target := "localhost"
	if m.isDockerTarget() {
		if m.containerIP == "" {
			m.setStatus("Container IP not available")
			return m, nil
		}
		target = m.containerIP
	}
	port := int(e.LocalPort)
	spec := fmt.Sprintf("%d:%s:%d", port, target, port)
	if m.mock {
		m.addMockForward(spec, m.remoteHost)
		return m, nil
	}
	return m, forwardCmd(spec, m.remoteHost)
}

func (m Model) handleForwardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.popup = PopupNone
		m.forward = NewForwardForm()
		return m, nil
	case "tab", "down":
		m.forward.Next()
		return m, nil
	case "shift+tab", "up":
		m.forward.Prev()
		return m, nil
	case "enter":
		spec, host, ok := m.forward.Spec()
		if !ok {
			m.setStatus("Invalid: " + strings.Join(m.forward.InvalidFields(), ", "))
			return m, nil
		}
		m.popup = PopupNone
		m.forward = NewForwardForm()
		if m.mock {
			m.addMockForward(spec, host)
			return m, nil
		}
		return m, forwardCmd(spec, host)
	}
	cmd := m.forward.Update(msg)
	return m, cmd
}

// addMockForward simulates a successful forward in mock mode: append a
// synthetic ssh entry and re-sort.
func (m *Model) addMockForward(spec, host string) {
	parts := strings.SplitN(spec, ":", 3)
	localPort, _ := strconv.Atoi(parts[0])
	remotePort := localPort
	remoteHost := "localhost"
	if len(parts) == 3 {
		remoteHost = parts[1]
		if p, err := strconv.Atoi(parts[2]); err == nil {
			remotePort = p
		}
	}
	entries := append([]ports.Entry(nil), m.entries...)
	entries = append(entries, ports.Entry{
		Source:      ports.SourceSSH,
		LocalPort:   uint16(localPort),
		RemoteHost:  remoteHost,
		RemotePort:  uint16(remotePort),
		ProcessName: "ssh",
		PID:         99999,
		SSHHost:     host,
		IsOpen:      true,
	})
	ports.Sort(entries)
	m.setEntries(entries)
	m.setStatus("[mock] Forward created")
}

func (m Model) handlePresetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.popup = PopupNone
		return m, nil
	case "j", "down":
		m.presetNext()
		return m, nil
	case "k", "up":
		m.presetPrev()
		return m, nil
	case "enter":
		p := m.selectedPreset()
		m.popup = PopupNone
		if p == nil {
			return m, nil
		}
		spec := fmt.Sprintf("%d:%s:%d", p.LocalPort, p.RemoteHost, p.RemotePort)
		if m.mock {
			m.addMockForward(spec, p.SSHHost)
			return m, nil
		}
		return m, forwardCmd(spec, p.SSHHost)
	}
	return m, nil
}

func (m Model) handleConnectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.connMode == connModeAdd {
		return m.handleConnAddKey(msg)
	}
	switch msg.String() {
	case "esc", "q":
		m.popup = PopupNone
		return m, nil
	case "j", "down":
		m.connNext()
		return m, nil
	case "k", "up":
		m.connPrev()
		return m, nil
	case "n":
		m.connForm = NewConnForm()
		m.connMode = connModeAdd
		return m, nil
	case "d":
		// Index 0 is the implicit Local entry; it cannot be removed.
		if m.connSelected > 0 && m.connections.Remove(m.connSelected-1) {
			if err := m.connections.Save(); err != nil {
				m.setStatus("Save failed: " + err.Error())
			}
			// Keep the active marker on the same bookmark: indexes above
			// the removed one shift down, and removing the active target
			// falls back to Local.
			switch {
			case m.connSelected == m.activeConn:
				m.applyConnection(0)
			case m.connSelected < m.activeConn:
				m.activeConn--
			}
			if m.connSelected >= len(m.allConnections()) {
				m.connSelected = len(m.allConnections()) - 1
			}
		}
		return m, nil
	case "enter":
		m.applyConnection(m.connSelected)
		m.popup = PopupNone
		m.setStatus("Connection: " + m.activeConnection().Name)
		if m.mock {
			return m, nil
		}
		cmds := []tea.Cmd{refreshCmd(m.remoteHost, m.dockerTarget)}
		if m.isDockerTarget() {
			cmds = append(cmds, containerIPCmd(m.dockerTarget, m.remoteHost))
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m Model) handleConnAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.connMode = connModeList
		return m, nil
	case "tab", "down":
		m.connForm.Next()
		return m, nil
	case "shift+tab", "up":
		m.connForm.Prev()
		return m, nil
	case "enter":
		conn, ok := m.connForm.Connection()
		if !ok {
			m.setStatus("Connection needs a name")
			return m, nil
		}
		m.connections.Add(conn)
		if err := m.connections.Save(); err != nil {
			m.setStatus("Save failed: " + err.Error())
		}
		m.connMode = connModeList
		m.connSelected = len(m.allConnections()) - 1
		return m, nil
	}
	cmd := m.connForm.Update(msg)
	return m, cmd
}
