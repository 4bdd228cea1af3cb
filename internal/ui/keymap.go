package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap declares every binding once, so the help popup and the dispatcher
// cannot drift apart.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	First       key.Binding
	Last        key.Binding
	Search      key.Binding
	Details     key.Binding
	Kill        key.Binding
	Forward     key.Binding
	QuickFwd    key.Binding
	Refresh     key.Binding
	AutoRefresh key.Binding
	Presets     key.Binding
	Connections key.Binding
	Copy        key.Binding
	Help        key.Binding
	FilterAll   key.Binding
	FilterLocal key.Binding
	FilterSSH   key.Binding
	FilterDock  key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	First:       key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first")),
	Last:        key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Details:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Kill:        key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "kill")),
	Forward:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "forward")),
	QuickFwd:    key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "quick forward")),
	Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	AutoRefresh: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-refresh")),
	Presets:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "presets")),
	Connections: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connections")),
	Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy spec")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	FilterAll:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "all")),
	FilterLocal: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "local")),
	FilterSSH:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "ssh")),
	FilterDock:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "docker")),
	Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// helpRows feeds the help popup.
func helpRows() [][2]string {
	bindings := []key.Binding{
		keys.Up, keys.Down, keys.First, keys.Last,
		keys.Search, keys.Details, keys.Kill, keys.Forward, keys.QuickFwd,
		keys.Refresh, keys.AutoRefresh, keys.Presets, keys.Connections,
		keys.Copy, keys.FilterAll, keys.FilterLocal, keys.FilterSSH,
		keys.FilterDock, keys.Help, keys.Quit,
	}
	rows := make([][2]string, 0, len(bindings))
	for _, b := range bindings {
		rows = append(rows, [2]string{b.Help().Key, b.Help().Desc})
	}
	return rows
}
