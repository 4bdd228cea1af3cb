package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shonenm/quay/internal/ports"
)

// tickInterval is the event-loop heartbeat. Status expiry and auto-refresh
// both count in these units.
const tickInterval = 250 * time.Millisecond

type tickMsg struct{}

// refreshDoneMsg carries a fresh reconciled set, or the error when every
// source failed outright.
type refreshDoneMsg struct {
	entries []ports.Entry
	err     error
}

// killDoneMsg reports a kill attempt on one port.
type killDoneMsg struct {
	port uint16
	err  error
}

// forwardDoneMsg reports a forward spawn attempt.
type forwardDoneMsg struct {
	spec string
	host string
	pid  int
	err  error
}

// containerIPMsg carries the docker target's resolved private address.
type containerIPMsg struct {
	ip  string
	err error
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// refreshCmd runs a full collection cycle off the event loop.
func refreshCmd(remoteHost, dockerTarget string) tea.Cmd {
	return func() tea.Msg {
		entries, err := ports.Collect(remoteHost, dockerTarget)
		return refreshDoneMsg{entries: entries, err: err}
	}
}

// killCmd terminates whatever backs the entry, per its source and the active
// connection mode.
func killCmd(e ports.Entry, remoteHost, dockerTarget string) tea.Cmd {
	return func() tea.Msg {
		return killDoneMsg{port: e.LocalPort, err: ports.KillEntry(&e, remoteHost, dockerTarget)}
	}
}

// forwardCmd spawns a detached ssh forward for spec/host.
func forwardCmd(spec, host string) tea.Cmd {
	return func() tea.Msg {
		pid, err := ports.CreateForward(spec, host, false)
		return forwardDoneMsg{spec: spec, host: host, pid: pid, err: err}
	}
}

// containerIPCmd resolves the docker target's address for field locking and
// quick forwards.
func containerIPCmd(container, remoteHost string) tea.Cmd {
	return func() tea.Msg {
		ip, err := ports.ContainerIP(container, remoteHost)
		return containerIPMsg{ip: ip, err: err}
	}
}

// Init starts the heartbeat and, outside mock mode, the initial collection.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if !m.mock {
		cmds = append(cmds, refreshCmd(m.remoteHost, m.dockerTarget))
		if m.isDockerTarget() {
			cmds = append(cmds, containerIPCmd(m.dockerTarget, m.remoteHost))
		}
	}
	return tea.Batch(cmds...)
}
