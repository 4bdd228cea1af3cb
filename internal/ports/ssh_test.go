package ports

import "testing"

const psPrefix = "user  12345  0.0  0.1 123456 7890 ?  Ss  10:00  0:00 "

func TestParseSSHForwards_LocalForward(t *testing.T) {
	entries := parseSSHForwards(psPrefix + "ssh -L 9000:localhost:80 bastion")
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.LocalPort != 9000 || e.RemoteHost != "localhost" || e.RemotePort != 80 {
		t.Errorf("entry = %+v, want 9000 -> localhost:80", e)
	}
	if e.ProcessName != "ssh" || e.PID != 12345 {
		t.Errorf("process = %q pid %d, want ssh pid 12345", e.ProcessName, e.PID)
	}
	if e.SSHHost != "bastion" {
		t.Errorf("ssh host = %q, want bastion", e.SSHHost)
	}
}

func TestParseSSHForwards_ReverseForward(t *testing.T) {
	entries := parseSSHForwards(psPrefix + "ssh -R 8080:localhost:3000 remote")
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.LocalPort != 3000 {
		t.Errorf("local port = %d, want the locally bound side 3000", e.LocalPort)
	}
	if e.ProcessName != "ssh -R" {
		t.Errorf("process = %q, want ssh -R", e.ProcessName)
	}
	if e.RemoteHost != "(R) localhost:8080" {
		t.Errorf("remote host = %q, want reverse tag", e.RemoteHost)
	}
	if e.SSHHost != "remote" {
		t.Errorf("ssh host = %q, want remote", e.SSHHost)
	}
}

func TestParseSSHForwards_MultipleFlagsShareHost(t *testing.T) {
	entries := parseSSHForwards(psPrefix + "ssh -L 9000:localhost:80 -L 9001:localhost:443 remote")
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].LocalPort != 9000 || entries[1].LocalPort != 9001 {
		t.Errorf("ports = %d, %d, want 9000, 9001", entries[0].LocalPort, entries[1].LocalPort)
	}
	for _, e := range entries {
		if e.SSHHost != "remote" {
			t.Errorf("ssh host = %q, want remote on every mapping", e.SSHHost)
		}
	}
}

func TestParseSSHForwards_NoForwardFlags(t *testing.T) {
	if entries := parseSSHForwards(psPrefix + "ssh remote"); len(entries) != 0 {
		t.Errorf("plain ssh session should yield nothing, got %+v", entries)
	}
}

func TestExtractSSHHost(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"basic", psPrefix + "ssh -L 9000:localhost:80 bastion", "bastion"},
		{"user at host", psPrefix + "ssh -L 9000:localhost:80 user@example.com", "user@example.com"},
		{"leading flags", psPrefix + "ssh -f -N -L 9000:localhost:80 myserver", "myserver"},
		{"full binary path", psPrefix + "/usr/bin/ssh -L 9000:localhost:80 jump", "jump"},
		{"last token is port spec", psPrefix + "ssh -L 9000:localhost:80", ""},
		{"last token is flag", psPrefix + "ssh -L 9000:localhost:80 -N", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractSSHHost(tt.line); got != tt.want {
				t.Errorf("extractSSHHost(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
