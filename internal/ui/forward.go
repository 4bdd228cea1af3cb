package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shonenm/quay/internal/ports"
)

// ForwardField indexes the four inputs of the forward draft.
type ForwardField int

const (
	FieldLocalPort ForwardField = iota
	FieldRemoteHost
	FieldRemotePort
	FieldSSHHost
	forwardFieldCount
)

func (f ForwardField) label() string {
	switch f {
	case FieldLocalPort:
		return "Local Port"
	case FieldRemoteHost:
		return "Remote Host"
	case FieldRemotePort:
		return "Remote Port"
	default:
		return "SSH Host"
	}
}

// ForwardForm is the draft for a new SSH forward. Depending on the active
// connection some fields are locked: in remote mode the ssh host is fixed to
// the connection's host, and in docker-target mode the remote host is fixed to
// the container's resolved IP. The field cursor skips locked fields in both
// directions.
type ForwardForm struct {
	inputs         [forwardFieldCount]textinput.Model
	active         ForwardField
	lockRemoteHost bool
	lockSSHHost    bool
}

// NewForwardForm returns an empty draft with the cursor on the local port.
func NewForwardForm() ForwardForm {
	var f ForwardForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		f.inputs[i] = in
	}
	f.inputs[FieldLocalPort].CharLimit = 5
	f.inputs[FieldRemotePort].CharLimit = 5
	f.active = FieldLocalPort
	f.inputs[f.active].Focus()
	return f
}

// ForwardFromEntry pre-fills the draft from the selected entry: its local
// port, the same port as the default remote port, localhost as the remote
// host, and the entry's known SSH host if any. The cursor lands on the first
// field still worth editing.
func ForwardFromEntry(e *ports.Entry) ForwardForm {
	f := NewForwardForm()
	f.setValue(FieldLocalPort, strconv.Itoa(int(e.LocalPort)))
	f.setValue(FieldRemoteHost, "localhost")
	f.setValue(FieldRemotePort, strconv.Itoa(int(e.LocalPort)))
	f.setValue(FieldSSHHost, e.SSHHost)
	if e.SSHHost == "" {
		f.focus(FieldSSHHost)
	} else {
		f.focus(FieldLocalPort)
	}
	return f
}

// ForwardForRemoteEntry pre-fills the draft for remote mode: the ssh host is
// the active connection's host and is locked. With a docker target the remote
// host is the container's resolved IP and is locked too.
func ForwardForRemoteEntry(e *ports.Entry, remoteHost, containerIP string) ForwardForm {
	f := NewForwardForm()
	f.setValue(FieldLocalPort, strconv.Itoa(int(e.LocalPort)))
	f.setValue(FieldRemoteHost, "localhost")
	f.setValue(FieldRemotePort, strconv.Itoa(int(e.LocalPort)))
	f.setValue(FieldSSHHost, remoteHost)
	f.lockSSHHost = true
	if containerIP != "" {
		f.setValue(FieldRemoteHost, containerIP)
		f.lockRemoteHost = true
	}
	f.focus(FieldLocalPort)
	return f
}

func (f *ForwardForm) setValue(field ForwardField, v string) {
	f.inputs[field].SetValue(v)
	f.inputs[field].CursorEnd()
}

func (f *ForwardForm) focus(field ForwardField) {
	f.inputs[f.active].Blur()
	f.active = field
	f.inputs[f.active].Focus()
}

// Value returns the current text of a field.
func (f *ForwardForm) Value(field ForwardField) string {
	return f.inputs[field].Value()
}

// Active returns the field the cursor is on.
func (f *ForwardForm) Active() ForwardField { return f.active }

// Locked reports whether a field is uneditable under the current mode.
func (f *ForwardForm) Locked(field ForwardField) bool {
	switch field {
	case FieldRemoteHost:
		return f.lockRemoteHost
	case FieldSSHHost:
		return f.lockSSHHost
	default:
		return false
	}
}

// Next advances the cursor, skipping locked fields. At most two consecutive
// fields can be locked, so two skips always land on an editable one.
func (f *ForwardForm) Next() { f.step(1) }

// Prev moves the cursor backwards, skipping locked fields.
func (f *ForwardForm) Prev() { f.step(-1) }

func (f *ForwardForm) step(dir int) {
	next := f.active
	for i := 0; i < int(forwardFieldCount); i++ {
		next = ForwardField((int(next) + dir + int(forwardFieldCount)) % int(forwardFieldCount))
		if !f.Locked(next) {
			f.focus(next)
			return
		}
	}
}

// Update feeds a key to the focused input. Locked fields ignore input.
func (f *ForwardForm) Update(msg tea.Msg) tea.Cmd {
	if f.Locked(f.active) {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.active], cmd = f.inputs[f.active].Update(msg)
	return cmd
}

func validPort(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1 && n <= 65535
}

// FieldValid reports the per-field predicate: ports parse to 1-65535, hosts
// are non-blank after trimming.
func (f *ForwardForm) FieldValid(field ForwardField) bool {
	v := f.Value(field)
	switch field {
	case FieldLocalPort, FieldRemotePort:
		return validPort(v)
	default:
		return strings.TrimSpace(v) != ""
	}
}

// Valid reports whether every field passes its predicate.
func (f *ForwardForm) Valid() bool {
	for field := FieldLocalPort; field < forwardFieldCount; field++ {
		if !f.FieldValid(field) {
			return false
		}
	}
	return true
}

// InvalidFields names the failing fields for the status message.
func (f *ForwardForm) InvalidFields() []string {
	var names []string
	for field := FieldLocalPort; field < forwardFieldCount; field++ {
		if !f.FieldValid(field) {
			names = append(names, field.label())
		}
	}
	return names
}

// Spec builds the canonical "local:remoteHost:remotePort" spec string and the
// destination host. ok is false until the draft validates.
func (f *ForwardForm) Spec() (spec, host string, ok bool) {
	if !f.Valid() {
		return "", "", false
	}
	spec = f.Value(FieldLocalPort) + ":" + strings.TrimSpace(f.Value(FieldRemoteHost)) + ":" + f.Value(FieldRemotePort)
	return spec, strings.TrimSpace(f.Value(FieldSSHHost)), true
}
