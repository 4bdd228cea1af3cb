package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shonenm/quay/internal/ports"
)

const (
	statusBar = "[j/k] Move   [Enter] Details   [/] Search   [f] Forward   [K] Kill   [c] Connections   [?] Help   [q] Quit"

	// Column layout: state dot + Port, Source, Remote, Process; Process gets
	// the remaining width and truncates first.
	colDot    = 1
	colPort   = 7
	colSource = 8
	colRemote = 24
	colGaps   = 4
	minTableW = colDot + colPort + colSource + colRemote + colGaps
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	modalStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(1, 2)
	// Selected row: dark background + bright text so the highlight survives
	// 16-color terminals.
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("8")).Foreground(lipgloss.Color("15"))
	closedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sshStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	dockerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	tabStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tabActive     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	activeField   = lipgloss.NewStyle().Bold(true)
)

// View renders the current state. Never executes OS commands.
func (m Model) View() string {
	switch m.popup {
	case PopupDetails:
		return m.viewDetails()
	case PopupHelp:
		return m.viewHelp()
	case PopupForward:
		return m.viewForward()
	case PopupPresets:
		return m.viewPresets()
	case PopupConnections:
		return m.viewConnections()
	}
	return m.viewTable()
}

func (m Model) viewTable() string {
	var b strings.Builder
	title := "QUAY"
	switch {
	case m.isDockerTarget():
		title += "  [docker: " + m.dockerTarget + "]"
		if m.isRemote() {
			title += "  [remote: " + m.remoteHost + "]"
		}
	case m.isRemote():
		title += "  [remote: " + m.remoteHost + "]"
	}
	if m.mock {
		title += "  (mock)"
	}
	if m.refreshing {
		title += "  refreshing..."
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(m.viewTabs() + "\n\n")

	if len(m.filtered) == 0 {
		if m.search.Value() != "" {
			b.WriteString(dimStyle.Render("No matches for \""+m.search.Value()+"\".") + "\n")
		} else {
			b.WriteString(dimStyle.Render("No listening ports found.") + "\n")
		}
		b.WriteString("\n" + m.viewFooter())
		return b.String()
	}

	tableWidth := m.width
	if tableWidth <= 0 {
		tableWidth = 80
	}
	processCol := tableWidth - minTableW
	if processCol < 10 {
		processCol = 10
	}

	header := headerStyle.Render(fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s",
		colDot, " ", colPort, "PORT", colSource, "SOURCE", colRemote, "REMOTE", processCol, "PROCESS"))
	b.WriteString(header + "\n")

	for i, e := range m.filtered {
		row := rowLine(&e, processCol)
		if i == m.selected {
			row = selectedStyle.Render(row)
		} else {
			row = rowStyle(&e).Render(row)
		}
		b.WriteString(row + "\n")
	}

	b.WriteString("\n" + m.viewFooter())
	return b.String()
}

// viewTabs renders the source filter bar with the active tab highlighted.
func (m Model) viewTabs() string {
	tabs := []struct {
		f     Filter
		label string
	}{
		{FilterAll, "[0] All"},
		{FilterLocal, "[1] Local"},
		{FilterSSH, "[2] SSH"},
		{FilterDocker, "[3] Docker"},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.f == m.filter {
			parts = append(parts, tabActive.Render(t.label))
		} else {
			parts = append(parts, tabStyle.Render(t.label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewFooter() string {
	if m.inputMode == ModeSearch {
		return m.search.View() + "\n" + dimStyle.Render("Enter/Esc to finish")
	}
	var b strings.Builder
	if m.statusMsg != "" {
		b.WriteString(m.statusMsg + "\n")
	} else if m.search.Value() != "" {
		b.WriteString(dimStyle.Render("filter: "+m.search.Value()) + "\n")
	}
	b.WriteString(statusStyle.Render(statusBar))
	if m.autoRefresh {
		b.WriteString(statusStyle.Render("   auto"))
	}
	return b.String()
}

func rowStyle(e *ports.Entry) lipgloss.Style {
	if !e.IsOpen {
		return closedStyle
	}
	switch e.Source {
	case ports.SourceSSH:
		return sshStyle
	case ports.SourceDocker:
		return dockerStyle
	}
	return lipgloss.NewStyle()
}

func rowLine(e *ports.Entry, processCol int) string {
	dot := "○"
	if e.IsOpen {
		dot = "●"
	}
	return fmt.Sprintf("%-*s %-*d %-*s %-*s %-*s",
		colDot, dot,
		colPort, e.LocalPort,
		colSource, e.Source.String(),
		colRemote, truncate(e.RemoteDisplay(), colRemote),
		processCol, truncate(e.ProcessDisplay(), processCol))
}

func (m Model) viewDetails() string {
	e := m.selectedEntry()
	if e == nil {
		return m.viewTable()
	}
	state := "closed"
	if e.IsOpen {
		state = "open"
	}
	lines := []string{
		"Port:      " + fmt.Sprintf("%d", e.LocalPort),
		"Source:    " + e.Source.String(),
		"State:     " + state,
		"Process:   " + e.ProcessDisplay(),
	}
	if e.RemoteHost != "" {
		lines = append(lines, "Remote:    "+e.RemoteDisplay())
	}
	if e.SSHHost != "" {
		lines = append(lines, "SSH host:  "+e.SSHHost)
	}
	if e.ContainerName != "" {
		lines = append(lines, "Container: "+e.ContainerName)
	}
	if e.IsLoopback {
		lines = append(lines, "Bind:      loopback only")
	}
	lines = append(lines, "Spec:      "+e.ForwardSpec())
	lines = append(lines, "", dimStyle.Render("[q] or [Esc] Close"))
	return m.placeModal(strings.Join(lines, "\n"))
}

func (m Model) viewHelp() string {
	rows := helpRows()
	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keys") + "\n\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%-*s  %s\n", width, r[0], r[1]))
	}
	b.WriteString("\n" + dimStyle.Render("[q] or [Esc] Close"))
	return m.placeModal(b.String())
}

func (m Model) viewForward() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New forward") + "\n\n")
	for f := ForwardField(0); f < forwardFieldCount; f++ {
		label := fmt.Sprintf("%-12s", f.label()+":")
		value := m.forward.Value(f)
		switch {
		case m.forward.Locked(f):
			b.WriteString(lockedStyle.Render(label+" "+value+"  (locked)") + "\n")
		case f == m.forward.Active():
			b.WriteString(activeField.Render("> "+label) + " " + value + "█\n")
		default:
			mark := " "
			if value != "" && !m.forward.FieldValid(f) {
				mark = errorStyle.Render("!")
			}
			b.WriteString("  " + label + " " + value + " " + mark + "\n")
		}
	}
	b.WriteString("\n" + dimStyle.Render("[Tab] Next field   [Enter] Create   [Esc] Cancel"))
	return m.placeModal(b.String())
}

func (m Model) viewPresets() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Presets") + "\n\n")
	if len(m.presets) == 0 {
		b.WriteString(dimStyle.Render("No presets configured.") + "\n")
	}
	for i, p := range m.presets {
		line := fmt.Sprintf("%s  %d -> %s:%d via %s", p.Name, p.LocalPort, p.RemoteHost, p.RemotePort, p.SSHHost)
		if p.Key != "" {
			line = "[" + p.Key + "] " + line
		}
		if i == m.presetSelected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("[Enter] Launch   [Esc] Close"))
	return m.placeModal(b.String())
}

func (m Model) viewConnections() string {
	if m.connMode == connModeAdd {
		return m.viewConnAdd()
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Connections") + "\n\n")
	for i, c := range m.allConnections() {
		line := c.Name
		switch {
		case c.DockerTarget != "" && c.RemoteHost != "":
			line += "  (docker " + c.DockerTarget + " @ " + c.RemoteHost + ")"
		case c.DockerTarget != "":
			line += "  (docker " + c.DockerTarget + ")"
		case c.RemoteHost != "":
			line += "  (ssh " + c.RemoteHost + ")"
		}
		if i == m.activeConn {
			line += "  *"
		}
		if i == m.connSelected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("[Enter] Connect   [n] New   [d] Delete   [Esc] Close"))
	return m.placeModal(b.String())
}

func (m Model) viewConnAdd() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New connection") + "\n\n")
	for f := ConnField(0); f < connFieldCount; f++ {
		label := fmt.Sprintf("%-14s", f.label()+":")
		value := m.connForm.Value(f)
		if f == m.connForm.Active() {
			b.WriteString(activeField.Render("> "+label) + " " + value + "█\n")
		} else {
			b.WriteString("  " + label + " " + value + "\n")
		}
	}
	b.WriteString("\n" + dimStyle.Render("[Tab] Next field   [Enter] Save   [Esc] Back"))
	return m.placeModal(b.String())
}

func (m Model) placeModal(body string) string {
	content := modalStyle.Render(body)
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, content)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	if cut <= 0 {
		return s[:maxLen]
	}
	return s[:cut] + "..."
}
