package ports

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

const dockerPSFormat = `{{.ID}}\t{{.Names}}\t{{.Ports}}`

// Matches a published port mapping with optional address prefix and optional
// ranges on either side: "0.0.0.0:3000->3000/tcp", ":::5432->5432/tcp",
// "0.0.0.0:3000-3001->3000-3001/tcp".
var portMapRe = regexp.MustCompile(`(?:[\d.:]+:)?(\d+)(?:-(\d+))?->(\d+)(?:-(\d+))?/tcp`)

// collectDocker lists containers with published ports, locally or on
// remoteHost via ssh. Docker being absent or the daemon being down both yield
// an empty list.
func collectDocker(remoteHost string) []Entry {
	cmd := hostCommand(remoteHost, fmt.Sprintf("docker ps --format '%s'", dockerPSFormat),
		"docker", "ps", "--format", dockerPSFormat)
	out, err := cmd.Output()
	if err != nil {
		return nil
	}
	return parseDockerPS(string(out), remoteHost != "")
}

// parseDockerPS parses tab-separated (id, name, ports) lines. Range mappings
// expand to one entry per port pair, capped at the shorter span; IPv4 and
// IPv6 mappings of the same host port collapse to one entry per container.
func parseDockerPS(out string, remoteMode bool) []Entry {
	var entries []Entry
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 {
			continue
		}
		containerID := parts[0]
		containerName := parts[1]
		seen := make(map[uint16]struct{})

		add := func(local, remote uint16) {
			if local == 0 {
				return
			}
			if _, dup := seen[local]; dup {
				return
			}
			seen[local] = struct{}{}
			entries = append(entries, Entry{
				Source:        SourceDocker,
				LocalPort:     local,
				RemoteHost:    containerName,
				RemotePort:    remote,
				ProcessName:   containerName,
				ContainerID:   containerID,
				ContainerName: containerName,
				IsOpen:        remoteMode,
			})
		}

		for _, m := range portMapRe.FindAllStringSubmatch(parts[2], -1) {
			localStart := parsePort(m[1])
			remoteStart := parsePort(m[3])
			if m[2] != "" && m[4] != "" {
				localEnd := parsePort(m[2])
				remoteEnd := parsePort(m[4])
				if localEnd < localStart || remoteEnd < remoteStart {
					continue
				}
				count := localEnd - localStart + 1
				if r := remoteEnd - remoteStart + 1; r < count {
					count = r
				}
				for i := uint16(0); i < count; i++ {
					add(localStart+i, remoteStart+i)
				}
			} else {
				add(localStart, remoteStart)
			}
		}
	}
	return entries
}

// CollectContainer lists LISTEN sockets inside the named container via
// `docker exec <container> ss -tln`, over ssh when remoteHost is non-empty.
// Unlike the host-level collectors this returns errors: a missing container
// is worth telling the operator about, not silently an empty dashboard.
func CollectContainer(container, remoteHost string) ([]Entry, error) {
	var cmd *exec.Cmd
	if remoteHost != "" {
		cmd = exec.Command("ssh", remoteHost, fmt.Sprintf("docker exec %s ss -tln", container))
	} else {
		cmd = exec.Command("docker", "exec", container, "ss", "-tln")
	}
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ss in container %q: %w", container, err)
	}
	return parseSocketTable(string(out), container), nil
}

// parseSocketTable parses the fixed-column ss table from inside a container:
//
//	State  Recv-Q Send-Q  Local Address:Port   Peer Address:Port Process
//	LISTEN 0      128     127.0.0.1:5432       0.0.0.0:*
//
// Everything listed here is already accepting connections inside the
// container, so entries are open by definition and never re-probed. Loopback
// binds are flagged: they cannot be forwarded to from outside.
func parseSocketTable(out, containerName string) []Entry {
	var entries []Entry
	seen := make(map[uint16]struct{})

	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "State") {
			continue
		}
		if !strings.HasPrefix(trimmed, "LISTEN") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 4 {
			continue
		}
		localAddr := fields[3]
		port, ok := portFromAddr(localAddr)
		if !ok {
			continue
		}
		if _, dup := seen[port]; dup {
			continue
		}
		seen[port] = struct{}{}

		bindAddr := ""
		if i := strings.LastIndex(localAddr, ":"); i >= 0 {
			bindAddr = localAddr[:i]
		}
		isLoopback := bindAddr == "127.0.0.1" || bindAddr == "[::1]"

		processName := containerName
		if len(fields) > 5 {
			procField := strings.Join(fields[5:], " ")
			if name, ok := processFromUsers(procField); ok {
				processName = name
			}
		}

		entries = append(entries, Entry{
			Source:        SourceDocker,
			LocalPort:     port,
			RemoteHost:    containerName,
			RemotePort:    port,
			ProcessName:   processName,
			ContainerName: containerName,
			IsOpen:        true,
			IsLoopback:    isLoopback,
		})
	}
	return entries
}

// processFromUsers pulls the quoted name out of a users:(("name",pid=..,fd=..))
// process column.
func processFromUsers(field string) (string, bool) {
	start := strings.Index(field, `(("`)
	if start < 0 {
		return "", false
	}
	rest := field[start+3:]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// ContainerIP resolves a container's private network address via docker
// inspect, over ssh when remoteHost is non-empty.
func ContainerIP(container, remoteHost string) (string, error) {
	const inspectFmt = "{{range .NetworkSettings.Networks}}{{.IPAddress}}{{end}}"
	var cmd *exec.Cmd
	if remoteHost != "" {
		cmd = exec.Command("ssh", remoteHost, fmt.Sprintf("docker inspect -f '%s' %s", inspectFmt, container))
	} else {
		cmd = exec.Command("docker", "inspect", "-f", inspectFmt, container)
	}
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("inspect container %q: %w", container, err)
	}
	ip := strings.TrimSpace(string(out))
	if ip == "" {
		return "", fmt.Errorf("container %q has no IP address", container)
	}
	return ip, nil
}
