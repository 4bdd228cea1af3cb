package ui

import (
	"testing"

	"github.com/shonenm/quay/internal/config"
	"github.com/shonenm/quay/internal/ports"
)

func sampleEntries() []ports.Entry {
	return []ports.Entry{
		{Source: ports.SourceLocal, LocalPort: 3000, ProcessName: "node", PID: 100, IsOpen: true},
		{Source: ports.SourceLocal, LocalPort: 5432, ProcessName: "postgres", PID: 200, IsOpen: true},
		{Source: ports.SourceSSH, LocalPort: 8080, RemoteHost: "localhost", RemotePort: 80, ProcessName: "ssh", PID: 300, SSHHost: "dev", IsOpen: true},
		{Source: ports.SourceDocker, LocalPort: 6379, RemotePort: 6379, ContainerID: "abc123def456", ContainerName: "redis", IsOpen: false},
	}
}

func mockModel() Model {
	return NewModel(Options{MockEntries: sampleEntries()})
}

func TestFilterMatching(t *testing.T) {
	tests := []struct {
		filter Filter
		want   int
	}{
		{FilterAll, 4},
		{FilterLocal, 2},
		{FilterSSH, 1},
		{FilterDocker, 1},
	}
	for _, tt := range tests {
		t.Run(tt.filter.String(), func(t *testing.T) {
			m := mockModel()
			m.setFilter(tt.filter)
			if got := len(m.filtered); got != tt.want {
				t.Errorf("filtered = %d entries, want %d", got, tt.want)
			}
		})
	}
}

func TestSearchMatchesNamePortAndHost(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"node", 1},
		{"POSTGRES", 1}, // case-insensitive
		{"54", 1},       // port substring
		{"localhost", 1},
		{"nothing-here", 0},
		{"", 4},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			m := mockModel()
			m.search.SetValue(tt.query)
			m.applyFilter()
			if got := len(m.filtered); got != tt.want {
				t.Errorf("query %q: filtered = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestSelectionClampsWhenViewShrinks(t *testing.T) {
	m := mockModel()
	m.moveLast()
	if m.selected != 3 {
		t.Fatalf("selected = %d, want 3", m.selected)
	}
	m.setFilter(FilterSSH)
	if m.selected != 0 {
		t.Errorf("selected = %d after shrink, want clamp to 0", m.selected)
	}
	m.setFilter(FilterAll)
	m.search.SetValue("no-match")
	m.applyFilter()
	if m.selected != 0 {
		t.Errorf("selected = %d on empty view, want 0", m.selected)
	}
	if m.selectedEntry() != nil {
		t.Error("selectedEntry() non-nil on empty view")
	}
}

func TestNavigationWraps(t *testing.T) {
	m := mockModel()
	m.moveUp()
	if m.selected != 3 {
		t.Errorf("moveUp from 0: selected = %d, want 3", m.selected)
	}
	m.moveDown()
	if m.selected != 0 {
		t.Errorf("moveDown from last: selected = %d, want 0", m.selected)
	}
	m.moveLast()
	m.moveFirst()
	if m.selected != 0 {
		t.Errorf("moveFirst: selected = %d, want 0", m.selected)
	}
}

func TestStatusExpiresAfterTicks(t *testing.T) {
	m := mockModel()
	m.setStatus("hello")
	for i := 0; i < statusTicks-1; i++ {
		m.tick()
	}
	if m.statusMsg != "hello" {
		t.Fatalf("status cleared after %d ticks, want it to survive", statusTicks-1)
	}
	m.tick()
	if m.statusMsg != "" {
		t.Errorf("status = %q after %d ticks, want empty", m.statusMsg, statusTicks)
	}
}

func TestShouldRefresh(t *testing.T) {
	m := NewModel(Options{AutoRefresh: true, RefreshTicks: 4})
	if m.shouldRefresh() {
		t.Error("tick 0 must never fire a refresh")
	}
	for i := 0; i < 3; i++ {
		m.tick()
		if m.shouldRefresh() {
			t.Errorf("tick %d fired, want only multiples of 4", m.tickCount)
		}
	}
	m.tick()
	if !m.shouldRefresh() {
		t.Error("tick 4 did not fire")
	}

	m.autoRefresh = false
	if m.shouldRefresh() {
		t.Error("fired with auto-refresh off")
	}
}

func TestMockDisablesAutoRefresh(t *testing.T) {
	m := NewModel(Options{AutoRefresh: true, RefreshTicks: 1, MockEntries: sampleEntries()})
	m.tick()
	if m.shouldRefresh() {
		t.Error("mock session fired an auto-refresh")
	}
}

func TestMockStartupStatus(t *testing.T) {
	m := NewModel(Options{MockEntries: sampleEntries()})
	if m.statusMsg != "[mock] Loaded mock data" {
		t.Errorf("startup status = %q, want mock marker", m.statusMsg)
	}
	if live := NewModel(Options{}); live.statusMsg != "" {
		t.Errorf("live session startup status = %q, want none", live.statusMsg)
	}
}

func TestApplyConnection(t *testing.T) {
	conns := config.Connections{Connections: []config.Connection{
		{Name: "staging", RemoteHost: "staging-host"},
		{Name: "db-container", RemoteHost: "prod-host", DockerTarget: "postgres"},
	}}
	m := NewModel(Options{Connections: conns})
	m.containerIP = "10.0.0.9"

	m.applyConnection(1) // staging (index 0 is Local)
	if m.remoteHost != "staging-host" || m.dockerTarget != "" {
		t.Errorf("after staging: remote=%q docker=%q", m.remoteHost, m.dockerTarget)
	}
	if m.containerIP != "" {
		t.Error("container IP not cleared on connection switch")
	}

	m.applyConnection(2)
	if m.remoteHost != "prod-host" || m.dockerTarget != "postgres" {
		t.Errorf("after db-container: remote=%q docker=%q", m.remoteHost, m.dockerTarget)
	}

	m.applyConnection(0)
	if m.remoteHost != "" || m.dockerTarget != "" {
		t.Errorf("after local: remote=%q docker=%q, want both empty", m.remoteHost, m.dockerTarget)
	}
}

func TestFilterFromName(t *testing.T) {
	tests := []struct {
		name string
		want Filter
	}{
		{"all", FilterAll},
		{"local", FilterLocal},
		{"ssh", FilterSSH},
		{"docker", FilterDocker},
		{"garbage", FilterAll},
	}
	for _, tt := range tests {
		if got := FilterFromName(tt.name); got != tt.want {
			t.Errorf("FilterFromName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
