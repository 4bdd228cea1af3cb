package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Connection is a bookmarked scan target: a remote host, a docker container,
// or both (a container on a remote host). The zero-value target is the local
// machine.
type Connection struct {
	Name         string `yaml:"name"`
	RemoteHost   string `yaml:"remote_host,omitempty"`
	DockerTarget string `yaml:"docker_target,omitempty"`
}

// Local is the implicit first connection every session has.
func Local() Connection {
	return Connection{Name: "Local"}
}

// Connections is the user-defined bookmark list persisted to
// connections.yaml. The implicit Local entry is never stored.
type Connections struct {
	Connections []Connection `yaml:"connections"`
}

func connectionsPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "connections.yaml")
}

// LoadConnections reads connections.yaml; missing or malformed files yield an
// empty list.
func LoadConnections() Connections {
	return loadConnectionsFrom(connectionsPath())
}

func loadConnectionsFrom(path string) Connections {
	if path == "" {
		return Connections{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Connections{}
	}
	var c Connections
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Connections{}
	}
	return c
}

// Save writes the bookmark list back to the config directory.
func (c *Connections) Save() error {
	path := connectionsPath()
	if path == "" {
		return fmt.Errorf("no config directory available")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// AllWithLocal returns the bookmarks with Local prepended at index 0.
func (c *Connections) AllWithLocal() []Connection {
	out := make([]Connection, 0, len(c.Connections)+1)
	out = append(out, Local())
	out = append(out, c.Connections...)
	return out
}

// Add appends a bookmark to the user-defined list.
func (c *Connections) Add(conn Connection) {
	c.Connections = append(c.Connections, conn)
}

// Remove deletes the bookmark at index in the user-defined list (Local, at
// display index 0, is not part of it). Reports whether anything was removed.
func (c *Connections) Remove(index int) bool {
	if index < 0 || index >= len(c.Connections) {
		return false
	}
	c.Connections = append(c.Connections[:index], c.Connections[index+1:]...)
	return true
}
