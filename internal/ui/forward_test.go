package ui

import (
	"strings"
	"testing"

	"github.com/shonenm/quay/internal/ports"
)

func TestForwardFromEntryPrefill(t *testing.T) {
	e := &ports.Entry{Source: ports.SourceSSH, LocalPort: 8080, SSHHost: "dev-server"}
	f := ForwardFromEntry(e)

	if got := f.Value(FieldLocalPort); got != "8080" {
		t.Errorf("local port = %q, want 8080", got)
	}
	if got := f.Value(FieldRemoteHost); got != "localhost" {
		t.Errorf("remote host = %q, want localhost", got)
	}
	if got := f.Value(FieldRemotePort); got != "8080" {
		t.Errorf("remote port = %q, want 8080", got)
	}
	if got := f.Value(FieldSSHHost); got != "dev-server" {
		t.Errorf("ssh host = %q, want dev-server", got)
	}
	if f.Active() != FieldLocalPort {
		t.Errorf("active = %v, want FieldLocalPort", f.Active())
	}
}

func TestForwardFromEntryCursorOnMissingHost(t *testing.T) {
	e := &ports.Entry{Source: ports.SourceLocal, LocalPort: 3000}
	f := ForwardFromEntry(e)
	if f.Active() != FieldSSHHost {
		t.Errorf("active = %v, want FieldSSHHost when no host is known", f.Active())
	}
}

func TestForwardCyclingSkipsLockedFields(t *testing.T) {
	e := &ports.Entry{Source: ports.SourceLocal, LocalPort: 5432}
	f := ForwardForRemoteEntry(e, "prod-host", "")

	if !f.Locked(FieldSSHHost) {
		t.Fatal("ssh host should be locked in remote mode")
	}

	// Forward: LocalPort -> RemoteHost -> RemotePort -> (skip SSHHost) -> LocalPort.
	want := []ForwardField{FieldRemoteHost, FieldRemotePort, FieldLocalPort, FieldRemoteHost}
	for i, w := range want {
		f.Next()
		if f.Active() != w {
			t.Fatalf("step %d: active = %v, want %v", i, f.Active(), w)
		}
	}

	// Backward from RemoteHost: LocalPort <- (skip SSHHost) <- RemotePort.
	f.Prev()
	if f.Active() != FieldLocalPort {
		t.Fatalf("after Prev: active = %v, want FieldLocalPort", f.Active())
	}
	f.Prev()
	if f.Active() != FieldRemotePort {
		t.Fatalf("after second Prev: active = %v, want FieldRemotePort", f.Active())
	}
}

func TestForwardTwoLockedFields(t *testing.T) {
	e := &ports.Entry{Source: ports.SourceDocker, LocalPort: 6379}
	f := ForwardForRemoteEntry(e, "prod-host", "172.17.0.2")

	if !f.Locked(FieldRemoteHost) || !f.Locked(FieldSSHHost) {
		t.Fatal("both remote host and ssh host should be locked")
	}
	if got := f.Value(FieldRemoteHost); got != "172.17.0.2" {
		t.Errorf("remote host = %q, want container IP", got)
	}

	// Only two editable fields remain; cycling must alternate between them.
	f.Next()
	if f.Active() != FieldRemotePort {
		t.Fatalf("active = %v, want FieldRemotePort", f.Active())
	}
	f.Next()
	if f.Active() != FieldLocalPort {
		t.Fatalf("active = %v, want FieldLocalPort", f.Active())
	}
}

func TestForwardValidation(t *testing.T) {
	tests := []struct {
		name   string
		local  string
		rhost  string
		rport  string
		ssh    string
		valid  bool
		broken string // substring expected among invalid field names
	}{
		{"all good", "8080", "localhost", "80", "dev", true, ""},
		{"empty local port", "", "localhost", "80", "dev", false, "Local Port"},
		{"port zero", "0", "localhost", "80", "dev", false, "Local Port"},
		{"port too big", "70000", "localhost", "80", "dev", false, "Local Port"},
		{"non-numeric port", "abc", "localhost", "80", "dev", false, "Local Port"},
		{"blank remote host", "8080", "   ", "80", "dev", false, "Remote Host"},
		{"missing ssh host", "8080", "localhost", "80", "", false, "SSH Host"},
		{"bad remote port", "8080", "localhost", "0", "dev", false, "Remote Port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewForwardForm()
			f.setValue(FieldLocalPort, tt.local)
			f.setValue(FieldRemoteHost, tt.rhost)
			f.setValue(FieldRemotePort, tt.rport)
			f.setValue(FieldSSHHost, tt.ssh)

			if got := f.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if !tt.valid {
				names := strings.Join(f.InvalidFields(), ", ")
				if !strings.Contains(names, tt.broken) {
					t.Errorf("InvalidFields() = %q, want mention of %q", names, tt.broken)
				}
			}
		})
	}
}

func TestForwardSpec(t *testing.T) {
	f := NewForwardForm()
	f.setValue(FieldLocalPort, "8080")
	f.setValue(FieldRemoteHost, " localhost ")
	f.setValue(FieldRemotePort, "80")
	f.setValue(FieldSSHHost, " dev-server ")

	spec, host, ok := f.Spec()
	if !ok {
		t.Fatal("Spec() not ok for a valid draft")
	}
	if spec != "8080:localhost:80" {
		t.Errorf("spec = %q, want 8080:localhost:80", spec)
	}
	if host != "dev-server" {
		t.Errorf("host = %q, want dev-server", host)
	}

	f.setValue(FieldSSHHost, "")
	if _, _, ok := f.Spec(); ok {
		t.Error("Spec() ok for an invalid draft")
	}
}
