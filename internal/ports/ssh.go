package ports

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

var (
	// -L local_port:remote_host:remote_port
	localForwardRe = regexp.MustCompile(`-L\s*(\d+):([^:\s]+):(\d+)`)
	// -R remote_port:local_host:local_port (reverse)
	remoteForwardRe = regexp.MustCompile(`-R\s*(\d+):([^:\s]+):(\d+)`)
)

// collectSSH scans the local process table for ssh clients carrying forwarding
// flags. Tunnel clients always run locally, so this never goes over the wire.
func collectSSH() []Entry {
	out, err := exec.Command("ps", "aux").Output()
	if err != nil {
		return nil
	}
	return parseSSHForwards(string(out))
}

func parseSSHForwards(out string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "ssh") {
			continue
		}
		if !strings.Contains(line, "-L") && !strings.Contains(line, "-R") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pid, _ := strconv.Atoi(fields[1])
		sshHost := extractSSHHost(line)

		for _, m := range localForwardRe.FindAllStringSubmatch(line, -1) {
			localPort := parsePort(m[1])
			if localPort == 0 {
				continue
			}
			entries = append(entries, Entry{
				Source:      SourceSSH,
				LocalPort:   localPort,
				RemoteHost:  m[2],
				RemotePort:  parsePort(m[3]),
				ProcessName: "ssh",
				PID:         pid,
				SSHHost:     sshHost,
			})
		}

		// Reverse forwards keyed by the locally bound side.
		for _, m := range remoteForwardRe.FindAllStringSubmatch(line, -1) {
			remotePort := parsePort(m[1])
			localPort := parsePort(m[3])
			if localPort == 0 {
				continue
			}
			entries = append(entries, Entry{
				Source:      SourceSSH,
				LocalPort:   localPort,
				RemoteHost:  fmt.Sprintf("(R) %s:%d", m[2], remotePort),
				RemotePort:  remotePort,
				ProcessName: "ssh -R",
				PID:         pid,
				SSHHost:     sshHost,
			})
		}
	}
	return entries
}

// extractSSHHost recovers the destination host from a free-form process-table
// line. Precedence rule: take the tokens after the `ssh` invocation and accept
// only the final one, and only if it neither starts with '-' nor contains ':'.
// Anything else is ambiguous and yields no host rather than a guess. All
// forwards on one line share the one host; a single ssh invocation cannot
// target several.
func extractSSHHost(line string) string {
	tokens := strings.Fields(line)
	sshPos := -1
	for i, t := range tokens {
		base := t
		if j := strings.LastIndex(t, "/"); j >= 0 {
			base = t[j+1:]
		}
		if base == "ssh" {
			sshPos = i
			break
		}
	}
	if sshPos < 0 || sshPos+1 >= len(tokens) {
		return ""
	}
	last := tokens[len(tokens)-1]
	if strings.HasPrefix(last, "-") || strings.Contains(last, ":") {
		return ""
	}
	return last
}

func parsePort(s string) uint16 {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0
	}
	return uint16(n)
}

// CreateForward spawns a detached background ssh forward
// (ssh -f -N -L|-R spec host) and returns the spawned pid for feedback.
// spec format: "local_port:remote_host:remote_port".
func CreateForward(spec, host string, reverse bool) (int, error) {
	flag := "-L"
	if reverse {
		flag = "-R"
	}
	cmd := exec.Command("ssh", "-f", "-N", flag, spec, host)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start ssh forward: %w", err)
	}
	pid := cmd.Process.Pid
	// -f double-forks; the started process exits once the background child is
	// up. Reap it so it doesn't linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return pid, nil
}
