package ports

import (
	"net"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// probeTimeout bounds each liveness probe. Refused and timed-out are the same
// answer: closed.
const probeTimeout = 200 * time.Millisecond

// hostCommand builds a host-level query: the bare command locally, or
// remoteCmd wrapped in ssh against remoteHost. The locale pin applies only to
// the local invocation; the ssh client needs the full environment
// (SSH_AUTH_SOCK, HOME) for agent auth, and the remote side has its own.
func hostCommand(remoteHost, remoteCmd, name string, args ...string) *exec.Cmd {
	if remoteHost != "" {
		return exec.Command("ssh", remoteHost, remoteCmd)
	}
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	return cmd
}

// Collect runs every applicable collector and reconciles the results into one
// sorted, probed set.
//
// With dockerTarget set, host-level collection is bypassed entirely: the
// container-interior listing is already final and only needs sorting. Otherwise
// local, docker and ssh results are concatenated, local duplicates of
// ssh/docker ports are suppressed, liveness is probed, and the set is sorted
// open-first then by ascending port.
func Collect(remoteHost, dockerTarget string) ([]Entry, error) {
	if dockerTarget != "" {
		entries, err := CollectContainer(dockerTarget, remoteHost)
		if err != nil {
			return nil, err
		}
		Sort(entries)
		return entries, nil
	}

	var entries []Entry
	entries = append(entries, collectLocal(remoteHost)...)
	entries = append(entries, collectDocker(remoteHost)...)
	entries = append(entries, collectSSH()...)

	entries = suppressLocalDuplicates(entries)
	probeEntries(entries, remoteHost != "")
	Sort(entries)
	return entries, nil
}

// suppressLocalDuplicates drops Local entries whose port is also claimed by an
// SSH or Docker entry. The tunnel client and the container proxy are
// themselves visible to the local collector and would double-count.
func suppressLocalDuplicates(entries []Entry) []Entry {
	claimed := make(map[uint16]struct{})
	for _, e := range entries {
		if e.Source != SourceLocal {
			claimed[e.LocalPort] = struct{}{}
		}
	}
	out := entries[:0]
	for _, e := range entries {
		if e.Source == SourceLocal {
			if _, dup := claimed[e.LocalPort]; dup {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// probeEntries confirms liveness with one concurrent loopback connect per
// distinct port and writes the result back into every entry sharing that
// port. In remote mode only SSH entries are probed; local and docker entries
// already carry authoritative state from the remote listing, and their ports
// are not bound on this machine.
func probeEntries(entries []Entry, remoteMode bool) {
	ports := make(map[uint16]struct{})
	for _, e := range entries {
		if remoteMode && e.Source != SourceSSH {
			continue
		}
		ports[e.LocalPort] = struct{}{}
	}
	if len(ports) == 0 {
		return
	}

	var mu sync.Mutex
	results := make(map[uint16]bool, len(ports))
	var g errgroup.Group
	for port := range ports {
		port := port
		g.Go(func() error {
			open := ProbePort(port)
			mu.Lock()
			results[port] = open
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i := range entries {
		if open, ok := results[entries[i].LocalPort]; ok {
			entries[i].IsOpen = open
		}
	}
}

// ProbePort reports whether a TCP connect to the loopback port succeeds within
// the probe timeout.
func ProbePort(port uint16) bool {
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(int(port)))
	conn, err := net.DialTimeout("tcp", addr, probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Sort orders open entries before closed ones, then by ascending port.
// The order is deterministic so the selection cursor stays predictable across
// refreshes.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsOpen != entries[j].IsOpen {
			return entries[i].IsOpen
		}
		return entries[i].LocalPort < entries[j].LocalPort
	})
}
