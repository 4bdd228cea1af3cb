package ports

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRemoteDisplay(t *testing.T) {
	tests := []struct {
		entry Entry
		want  string
	}{
		{Entry{RemoteHost: "localhost", RemotePort: 80}, "localhost:80"},
		{Entry{RemoteHost: "bastion"}, "bastion"},
		{Entry{}, ""},
	}
	for _, tt := range tests {
		if got := tt.entry.RemoteDisplay(); got != tt.want {
			t.Errorf("RemoteDisplay(%+v) = %q, want %q", tt.entry, got, tt.want)
		}
	}
}

func TestProcessDisplay(t *testing.T) {
	docker := Entry{Source: SourceDocker, ContainerName: "postgres", ContainerID: "abc123def456789"}
	if got := docker.ProcessDisplay(); got != "postgres (abc123de)" {
		t.Errorf("docker display = %q, want shortened id", got)
	}
	local := Entry{Source: SourceLocal, ProcessName: "node", PID: 42}
	if got := local.ProcessDisplay(); got != "node (pid:42)" {
		t.Errorf("local display = %q", got)
	}
	noPID := Entry{Source: SourceLocal, ProcessName: "node"}
	if got := noPID.ProcessDisplay(); got != "node" {
		t.Errorf("pid-less display = %q", got)
	}
}

func TestForwardSpec(t *testing.T) {
	tests := []struct {
		entry Entry
		want  string
	}{
		{Entry{LocalPort: 9000, RemoteHost: "localhost", RemotePort: 80}, "9000:localhost:80"},
		{Entry{LocalPort: 3000}, "3000:localhost:3000"},
	}
	for _, tt := range tests {
		if got := tt.entry.ForwardSpec(); got != tt.want {
			t.Errorf("ForwardSpec() = %q, want %q", got, tt.want)
		}
	}
}

func TestEntryJSON(t *testing.T) {
	e := Entry{
		Source:      SourceSSH,
		LocalPort:   9000,
		RemoteHost:  "localhost",
		RemotePort:  80,
		ProcessName: "ssh",
		PID:         1234,
		SSHHost:     "bastion",
		IsOpen:      true,
	}
	data, err := json.Marshal(&e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{
		`"source":"Ssh"`, `"local_port":9000`, `"is_open":true`,
		`"remote_host":"localhost"`, `"remote_port":80`,
		`"process_name":"ssh"`, `"pid":1234`, `"ssh_host":"bastion"`,
		`"is_loopback":false`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("export missing %s in %s", want, s)
		}
	}
}

func TestEntryJSON_AllKeysAlwaysPresent(t *testing.T) {
	// A plain local entry has no remote end, container, or ssh host: the
	// export must still carry every key, as null.
	e := Entry{Source: SourceLocal, LocalPort: 3000, ProcessName: "node"}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	keys := []string{
		"source", "local_port", "is_open", "remote_host", "remote_port",
		"process_name", "pid", "container_id", "container_name", "ssh_host",
		"is_loopback",
	}
	if len(decoded) != len(keys) {
		t.Errorf("export has %d keys, want %d: %s", len(decoded), len(keys), data)
	}
	for _, k := range keys {
		if _, present := decoded[k]; !present {
			t.Errorf("export missing key %q: %s", k, data)
		}
	}
	for _, k := range []string{"remote_host", "remote_port", "pid", "container_id", "container_name", "ssh_host"} {
		if decoded[k] != nil {
			t.Errorf("empty optional %q = %v, want null", k, decoded[k])
		}
	}
}

func TestSourceString(t *testing.T) {
	if SourceLocal.String() != "LOCAL" || SourceSSH.String() != "SSH" || SourceDocker.String() != "DOCKER" {
		t.Error("unexpected source display tags")
	}
}
