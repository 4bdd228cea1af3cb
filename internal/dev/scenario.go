// Package dev holds developer tooling for exercising the dashboard: loopback
// listeners, port checks, canned scenarios and the mock data set.
package dev

import (
	"github.com/shonenm/quay/internal/ports"
)

// ScenarioEntry is one port in a scenario. ShouldListen controls whether a
// background listener gets bound for it.
type ScenarioEntry struct {
	Port         uint16
	Label        string
	ShouldListen bool
}

// Scenario is a named set of ports simulating a development environment.
type Scenario struct {
	Name        string
	Description string
	Entries     []ScenarioEntry
}

// Scenarios are the built-in environments, smallest first.
var Scenarios = []Scenario{
	{
		Name:        "web",
		Description: "Web app + DB + Cache",
		Entries: []ScenarioEntry{
			{Port: 3000, Label: "web-app", ShouldListen: true},
			{Port: 5432, Label: "postgres", ShouldListen: true},
			{Port: 6379, Label: "redis", ShouldListen: true},
		},
	},
	{
		Name:        "micro",
		Description: "5 microservices",
		Entries: []ScenarioEntry{
			{Port: 3001, Label: "svc-auth", ShouldListen: true},
			{Port: 3002, Label: "svc-users", ShouldListen: true},
			{Port: 3003, Label: "svc-orders", ShouldListen: true},
			{Port: 3004, Label: "svc-payments", ShouldListen: true},
			{Port: 3005, Label: "svc-notifications", ShouldListen: true},
		},
	},
	{
		Name:        "full",
		Description: "Mixed open/closed ports",
		Entries: []ScenarioEntry{
			{Port: 3000, Label: "web-app", ShouldListen: true},
			{Port: 5432, Label: "postgres", ShouldListen: true},
			{Port: 6379, Label: "redis", ShouldListen: true},
			{Port: 8080, Label: "proxy (inactive)", ShouldListen: false},
			{Port: 9090, Label: "metrics (inactive)", ShouldListen: false},
		},
	},
}

// FindScenario returns the named scenario, or nil.
func FindScenario(name string) *Scenario {
	for i := range Scenarios {
		if Scenarios[i].Name == name {
			return &Scenarios[i]
		}
	}
	return nil
}

// ListenPorts returns the ports the scenario should bind.
func (s *Scenario) ListenPorts() []uint16 {
	var out []uint16
	for _, e := range s.Entries {
		if e.ShouldListen {
			out = append(out, e.Port)
		}
	}
	return out
}

// PortEntries converts the scenario into dashboard entries, open entries
// first.
func (s *Scenario) PortEntries() []ports.Entry {
	entries := make([]ports.Entry, 0, len(s.Entries))
	for _, e := range s.Entries {
		entries = append(entries, ports.Entry{
			Source:      ports.SourceLocal,
			LocalPort:   e.Port,
			ProcessName: e.Label,
			IsOpen:      e.ShouldListen,
		})
	}
	ports.Sort(entries)
	return entries
}
