package ports

import (
	"bufio"
	"strconv"
	"strings"
)

const lsofArgs = "-i -P -n -sTCP:LISTEN -Fcpn"

// collectLocal lists listening TCP sockets on the local machine, or on
// remoteHost via ssh when non-empty. Any execution failure yields an empty
// list: discovery is best-effort per source.
func collectLocal(remoteHost string) []Entry {
	cmd := hostCommand(remoteHost, "lsof "+lsofArgs, "lsof", strings.Fields(lsofArgs)...)
	out, err := cmd.Output()
	if err != nil {
		return nil
	}
	return parseLsofFields(string(out), remoteHost != "")
}

// parseLsofFields parses lsof -F machine output: one field per line, first
// byte is the field tag. A 'p' line starts a process, 'c' carries its command
// name, and each 'n' line is one listening address.
//
//	p12345
//	cnode
//	n*:3000
//
// Entries from a remote listing are marked open up front; the remote LISTEN
// state is authoritative and loopback probing cannot reach it anyway.
func parseLsofFields(out string, remoteMode bool) []Entry {
	var entries []Entry
	var pid int
	var command string

	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		value := line[1:]
		switch line[0] {
		case 'p':
			pid, _ = strconv.Atoi(value)
		case 'c':
			command = value
		case 'n':
			port, ok := portFromAddr(value)
			if !ok {
				continue
			}
			entries = append(entries, Entry{
				Source:      SourceLocal,
				LocalPort:   port,
				ProcessName: command,
				PID:         pid,
				IsOpen:      remoteMode,
			})
		}
	}

	return dedupByPort(entries)
}

// portFromAddr extracts the trailing port from an address like "*:3000",
// "127.0.0.1:8080" or "[::1]:80". Port 0 is not a listening port and is
// rejected.
func portFromAddr(addr string) (uint16, bool) {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return 0, false
	}
	port, err := strconv.ParseUint(addr[i+1:], 10, 16)
	if err != nil || port == 0 {
		return 0, false
	}
	return uint16(port), true
}

// dedupByPort keeps the first entry per local port. lsof reports one 'n' line
// per socket family, so a dual-stack listener shows up twice.
func dedupByPort(entries []Entry) []Entry {
	seen := make(map[uint16]struct{}, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if _, ok := seen[e.LocalPort]; ok {
			continue
		}
		seen[e.LocalPort] = struct{}{}
		out = append(out, e)
	}
	return out
}
