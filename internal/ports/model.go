package ports

import (
	"encoding/json"
	"fmt"
)

// Source identifies which collector discovered a port.
type Source int

const (
	SourceLocal Source = iota
	SourceSSH
	SourceDocker
)

// String returns the uppercase display tag used in the table and list output.
func (s Source) String() string {
	switch s {
	case SourceSSH:
		return "SSH"
	case SourceDocker:
		return "DOCKER"
	default:
		return "LOCAL"
	}
}

// MarshalJSON emits the stable export tags ("Local", "Ssh", "Docker").
func (s Source) MarshalJSON() ([]byte, error) {
	switch s {
	case SourceSSH:
		return json.Marshal("Ssh")
	case SourceDocker:
		return json.Marshal("Docker")
	default:
		return json.Marshal("Local")
	}
}

// Entry is one observed listening endpoint. Entries are immutable once
// reconciled; each collection cycle produces a fresh set.
type Entry struct {
	Source        Source
	LocalPort     uint16
	RemoteHost    string
	RemotePort    uint16
	ProcessName   string
	PID           int
	ContainerID   string
	ContainerName string
	SSHHost       string
	IsOpen        bool
	IsLoopback    bool
}

// entryExport is the stable JSON shape. Every key is always present; optional
// fields export as null when absent.
type entryExport struct {
	Source        Source  `json:"source"`
	LocalPort     uint16  `json:"local_port"`
	RemoteHost    *string `json:"remote_host"`
	RemotePort    *uint16 `json:"remote_port"`
	ProcessName   string  `json:"process_name"`
	PID           *int    `json:"pid"`
	ContainerID   *string `json:"container_id"`
	ContainerName *string `json:"container_name"`
	SSHHost       *string `json:"ssh_host"`
	IsOpen        bool    `json:"is_open"`
	IsLoopback    bool    `json:"is_loopback"`
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optPort(p uint16) *uint16 {
	if p == 0 {
		return nil
	}
	return &p
}

func optPID(pid int) *int {
	if pid <= 0 {
		return nil
	}
	return &pid
}

// MarshalJSON emits all eleven export keys, null for unknown optionals.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryExport{
		Source:        e.Source,
		LocalPort:     e.LocalPort,
		RemoteHost:    optStr(e.RemoteHost),
		RemotePort:    optPort(e.RemotePort),
		ProcessName:   e.ProcessName,
		PID:           optPID(e.PID),
		ContainerID:   optStr(e.ContainerID),
		ContainerName: optStr(e.ContainerName),
		SSHHost:       optStr(e.SSHHost),
		IsOpen:        e.IsOpen,
		IsLoopback:    e.IsLoopback,
	})
}

// RemoteDisplay renders the logical "other end" of the entry: "host:port",
// bare host, or empty when nothing remote is known.
func (e *Entry) RemoteDisplay() string {
	switch {
	case e.RemoteHost != "" && e.RemotePort > 0:
		return fmt.Sprintf("%s:%d", e.RemoteHost, e.RemotePort)
	case e.RemoteHost != "":
		return e.RemoteHost
	default:
		return ""
	}
}

// ProcessDisplay renders the process column. Docker entries show the container
// name with a shortened id; everything else shows the process with its pid
// when known.
func (e *Entry) ProcessDisplay() string {
	if e.Source == SourceDocker {
		name := e.ContainerName
		if name == "" {
			name = "unknown"
		}
		id := e.ContainerID
		if len(id) > 8 {
			id = id[:8]
		}
		return fmt.Sprintf("%s (%s)", name, id)
	}
	if e.PID > 0 {
		return fmt.Sprintf("%s (pid:%d)", e.ProcessName, e.PID)
	}
	return e.ProcessName
}

// ForwardSpec renders the entry as an SSH forward spec string
// "local:remoteHost:remotePort", defaulting the remote side to the local port
// on localhost when the entry has no remote end.
func (e *Entry) ForwardSpec() string {
	host := e.RemoteHost
	if host == "" {
		host = "localhost"
	}
	port := e.RemotePort
	if port == 0 {
		port = e.LocalPort
	}
	return fmt.Sprintf("%d:%s:%d", e.LocalPort, host, port)
}
