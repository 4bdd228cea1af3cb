package ports

import (
	"fmt"
	"os/exec"
	"strconv"
)

// KillPID sends the default termination signal to a process, locally or on
// remoteHost via ssh.
func KillPID(pid int, remoteHost string) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	var cmd *exec.Cmd
	if remoteHost != "" {
		cmd = exec.Command("ssh", remoteHost, fmt.Sprintf("kill %d", pid))
	} else {
		cmd = exec.Command("kill", strconv.Itoa(pid))
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("kill pid %d: %w", pid, err)
	}
	return nil
}

// StopContainer stops a container by id, locally or on remoteHost via ssh.
func StopContainer(containerID, remoteHost string) error {
	if containerID == "" {
		return fmt.Errorf("no container id")
	}
	var cmd *exec.Cmd
	if remoteHost != "" {
		cmd = exec.Command("ssh", remoteHost, "docker stop "+containerID)
	} else {
		cmd = exec.Command("docker", "stop", containerID)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("stop container %s: %w", containerID, err)
	}
	return nil
}

// KillInContainer signals a pid inside a container via docker exec, locally or
// on remoteHost via ssh. Used in container-target mode, where the host process
// table never saw the process.
func KillInContainer(container string, pid int, remoteHost string) error {
	if pid <= 0 {
		return fmt.Errorf("no pid available for this port")
	}
	var cmd *exec.Cmd
	if remoteHost != "" {
		cmd = exec.Command("ssh", remoteHost, fmt.Sprintf("docker exec %s kill %d", container, pid))
	} else {
		cmd = exec.Command("docker", "exec", container, "kill", strconv.Itoa(pid))
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("kill pid %d in container %s: %w", pid, container, err)
	}
	return nil
}

// KillEntry terminates whatever backs the entry, dispatching on its source and
// the active connection mode. SSH tunnel clients always run locally and are
// killed locally even when scanning a remote host.
func KillEntry(e *Entry, remoteHost, dockerTarget string) error {
	if dockerTarget != "" {
		return KillInContainer(dockerTarget, e.PID, remoteHost)
	}
	switch e.Source {
	case SourceDocker:
		return StopContainer(e.ContainerID, remoteHost)
	case SourceSSH:
		return KillPID(e.PID, "")
	default:
		return KillPID(e.PID, remoteHost)
	}
}

// KillPort collects the current set and kills the first entry bound to port.
func KillPort(port uint16, remoteHost, dockerTarget string) error {
	entries, err := Collect(remoteHost, dockerTarget)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].LocalPort == port {
			return KillEntry(&entries[i], remoteHost, dockerTarget)
		}
	}
	return fmt.Errorf("no process found on port %d", port)
}
