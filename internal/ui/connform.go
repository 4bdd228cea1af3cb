package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shonenm/quay/internal/config"
)

// ConnField indexes the inputs of the add-connection draft.
type ConnField int

const (
	ConnFieldName ConnField = iota
	ConnFieldRemoteHost
	ConnFieldDockerTarget
	connFieldCount
)

func (f ConnField) label() string {
	switch f {
	case ConnFieldName:
		return "Name"
	case ConnFieldRemoteHost:
		return "Remote Host"
	default:
		return "Docker Target"
	}
}

// ConnForm is the draft for a new connection bookmark. Only the name is
// required; host and docker target are free-form and may both be empty for a
// local-only alias.
type ConnForm struct {
	inputs [connFieldCount]textinput.Model
	active ConnField
}

// NewConnForm returns an empty draft with the cursor on the name.
func NewConnForm() ConnForm {
	var f ConnForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		f.inputs[i] = in
	}
	f.inputs[ConnFieldName].Focus()
	return f
}

// Value returns the current text of a field.
func (f *ConnForm) Value(field ConnField) string { return f.inputs[field].Value() }

// Active returns the field the cursor is on.
func (f *ConnForm) Active() ConnField { return f.active }

// Next advances the field cursor cyclically.
func (f *ConnForm) Next() { f.move((f.active + 1) % connFieldCount) }

// Prev moves the field cursor backwards cyclically.
func (f *ConnForm) Prev() { f.move((f.active + connFieldCount - 1) % connFieldCount) }

func (f *ConnForm) move(field ConnField) {
	f.inputs[f.active].Blur()
	f.active = field
	f.inputs[f.active].Focus()
}

// Update feeds a key to the focused input.
func (f *ConnForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.active], cmd = f.inputs[f.active].Update(msg)
	return cmd
}

// Valid requires a non-blank name.
func (f *ConnForm) Valid() bool {
	return strings.TrimSpace(f.Value(ConnFieldName)) != ""
}

// Connection converts the draft to a bookmark; ok is false when invalid.
func (f *ConnForm) Connection() (config.Connection, bool) {
	if !f.Valid() {
		return config.Connection{}, false
	}
	return config.Connection{
		Name:         strings.TrimSpace(f.Value(ConnFieldName)),
		RemoteHost:   strings.TrimSpace(f.Value(ConnFieldRemoteHost)),
		DockerTarget: strings.TrimSpace(f.Value(ConnFieldDockerTarget)),
	}, true
}
