package dev

import (
	"bytes"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/shonenm/quay/internal/ports"
)

func TestFindScenario(t *testing.T) {
	for _, name := range []string{"web", "micro", "full"} {
		if FindScenario(name) == nil {
			t.Errorf("FindScenario(%q) = nil", name)
		}
	}
	if FindScenario("nonexistent") != nil {
		t.Error("FindScenario found a scenario that does not exist")
	}
}

func TestScenarioWebPorts(t *testing.T) {
	s := FindScenario("web")
	var got []uint16
	for _, e := range s.Entries {
		got = append(got, e.Port)
	}
	want := []uint16{3000, 5432, 6379}
	if len(got) != len(want) {
		t.Fatalf("ports = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ports = %v, want %v", got, want)
		}
	}
}

func TestScenarioMicroHasFive(t *testing.T) {
	if s := FindScenario("micro"); len(s.Entries) != 5 {
		t.Errorf("micro has %d entries, want 5", len(s.Entries))
	}
}

func TestScenarioFullInactive(t *testing.T) {
	s := FindScenario("full")
	inactive := 0
	for _, e := range s.Entries {
		if !e.ShouldListen {
			inactive++
		}
	}
	if inactive != 2 {
		t.Errorf("full has %d inactive entries, want 2", inactive)
	}

	listen := s.ListenPorts()
	if len(listen) != 3 {
		t.Errorf("ListenPorts() = %v, want 3 ports", listen)
	}
}

func TestScenarioEntriesSortedOpenFirst(t *testing.T) {
	entries := FindScenario("full").PortEntries()
	if len(entries) != 5 {
		t.Fatalf("entries = %d, want 5", len(entries))
	}
	seenClosed := false
	for _, e := range entries {
		if !e.IsOpen {
			seenClosed = true
		} else if seenClosed {
			t.Fatal("open entry after a closed one")
		}
	}
	if entries[0].Source != ports.SourceLocal {
		t.Errorf("source = %v, want SourceLocal", entries[0].Source)
	}
}

func TestMockEntries(t *testing.T) {
	entries := MockEntries()
	if len(entries) == 0 {
		t.Fatal("no mock entries")
	}

	sources := map[ports.Source]bool{}
	seen := map[uint16]bool{}
	hasOpen, hasClosed := false, false
	for _, e := range entries {
		sources[e.Source] = true
		if seen[e.LocalPort] {
			t.Errorf("duplicate port %d", e.LocalPort)
		}
		seen[e.LocalPort] = true
		if e.IsOpen {
			hasOpen = true
		} else {
			hasClosed = true
		}
		switch e.Source {
		case ports.SourceDocker:
			if e.ContainerID == "" || e.ContainerName == "" {
				t.Errorf("docker entry %d missing container fields", e.LocalPort)
			}
		case ports.SourceLocal:
			if e.PID == 0 {
				t.Errorf("local entry %d missing pid", e.LocalPort)
			}
		}
	}
	for _, s := range []ports.Source{ports.SourceLocal, ports.SourceSSH, ports.SourceDocker} {
		if !sources[s] {
			t.Errorf("source %v missing from mock set", s)
		}
	}
	if !hasOpen || !hasClosed {
		t.Error("mock set should mix open and closed entries")
	}
}

func TestSpawnListenersAndCheck(t *testing.T) {
	// Grab a free port by binding and releasing.
	probe, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	_, portStr, _ := net.SplitHostPort(probe.Addr().String())
	probe.Close()
	n, _ := strconv.Atoi(portStr)
	port := uint16(n)

	stop, err := SpawnListeners([]uint16{port}, false)
	if err != nil {
		t.Fatalf("SpawnListeners: %v", err)
	}
	defer stop()

	results := Check([]uint16{port})
	if len(results) != 1 || !results[0].Open {
		t.Errorf("Check(%d) = %+v, want open", port, results)
	}
}

func TestSpawnListenersAllFail(t *testing.T) {
	// Port 1 needs privileges; binding should fail and so should the call.
	if _, err := SpawnListeners([]uint16{1}, false); err == nil {
		t.Skip("running with privileges, cannot provoke a bind failure")
	}
}

func TestRunCheckOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := RunCheck(&buf, []uint16{1}); err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "PORT") || !strings.Contains(out, "ports open") {
		t.Errorf("unexpected report:\n%s", out)
	}

	if err := RunCheck(&buf, nil); err == nil {
		t.Error("RunCheck with no ports should error")
	}
}
