package dev

import (
	"github.com/shonenm/quay/internal/ports"
)

// MockEntries is a fixed multi-source data set for driving the dashboard
// without scanning anything. Open entries come first, matching the live
// reconciler order.
func MockEntries() []ports.Entry {
	entries := []ports.Entry{
		{Source: ports.SourceLocal, LocalPort: 3000, ProcessName: "node", PID: 1234, IsOpen: true},
		{Source: ports.SourceLocal, LocalPort: 8080, ProcessName: "python", PID: 2345, IsOpen: true},
		{Source: ports.SourceLocal, LocalPort: 4200, ProcessName: "ng", PID: 3456},
		{Source: ports.SourceSSH, LocalPort: 9000, RemoteHost: "db.internal", RemotePort: 5432, ProcessName: "ssh", PID: 4567, SSHHost: "dev-server", IsOpen: true},
		{Source: ports.SourceSSH, LocalPort: 9090, RemoteHost: "(R) localhost:9090", RemotePort: 9090, ProcessName: "ssh -R", PID: 5678, SSHHost: "dev-server"},
		{Source: ports.SourceDocker, LocalPort: 5432, RemotePort: 5432, ProcessName: "postgres:15", ContainerID: "abc123def456", ContainerName: "postgres", IsOpen: true},
		{Source: ports.SourceDocker, LocalPort: 6379, RemotePort: 6379, ProcessName: "redis:7", ContainerID: "def456abc789", ContainerName: "redis", IsOpen: true},
		{Source: ports.SourceDocker, LocalPort: 27017, RemotePort: 27017, ProcessName: "mongo:6", ContainerID: "789abc123def", ContainerName: "mongo"},
	}
	ports.Sort(entries)
	return entries
}
