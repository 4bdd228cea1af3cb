package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shonenm/quay/internal/config"
	"github.com/shonenm/quay/internal/dev"
	"github.com/shonenm/quay/internal/ports"
	"github.com/shonenm/quay/internal/ui"
)

const usage = `quay - TCP port dashboard

Usage:
  quay [-remote HOST] [-docker CONTAINER]            interactive dashboard
  quay list [-json] [-local] [-ssh] [-docker]        one-shot port listing
  quay forward <spec> <host> [-R]                    create an SSH forward
  quay kill <port> [-pid PID]                        kill the process on a port
  quay dev listen [-http] <port>...                  bind loopback listeners
  quay dev check <port>...                           probe ports
  quay dev scenario [-list] [name]                   canned environments
  quay dev mock                                      dashboard with fake data
`

func main() {
	remote := flag.String("remote", "", "scan a remote host over SSH")
	docker := flag.String("docker", "", "scan inside a Docker container")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	// CLI flags take precedence over config file values.
	cfg := config.Load()
	remoteHost := cfg.General.RemoteHost
	if *remote != "" {
		remoteHost = *remote
	}
	dockerTarget := cfg.General.DockerTarget
	if *docker != "" {
		dockerTarget = *docker
	}

	args := flag.Args()
	var err error
	switch {
	case len(args) == 0:
		err = runTUI(cfg, remoteHost, dockerTarget, nil)
	case args[0] == "list":
		err = runList(args[1:], remoteHost, dockerTarget)
	case args[0] == "forward":
		err = runForward(args[1:])
	case args[0] == "kill":
		err = runKill(args[1:], remoteHost, dockerTarget)
	case args[0] == "dev":
		err = runDev(args[1:], cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runTUI starts the dashboard. A non-nil entries slice switches the session
// to mock mode: no scanning, no kills, no forwards.
func runTUI(cfg config.Config, remoteHost, dockerTarget string, entries []ports.Entry) error {
	opts := ui.Options{
		RemoteHost:   remoteHost,
		DockerTarget: dockerTarget,
		AutoRefresh:  cfg.General.AutoRefresh,
		RefreshTicks: cfg.RefreshTicks(),
		Filter:       ui.FilterFromName(cfg.General.DefaultFilter),
		Presets:      config.LoadPresets(),
		Connections:  config.LoadConnections(),
		MockEntries:  entries,
	}
	p := tea.NewProgram(ui.NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func runList(args []string, remoteHost, dockerTarget string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "output JSON")
	local := fs.Bool("local", false, "local ports only")
	ssh := fs.Bool("ssh", false, "SSH forwards only")
	docker := fs.Bool("docker", false, "Docker ports only")
	fs.Parse(args)

	entries, err := ports.Collect(remoteHost, dockerTarget)
	if err != nil {
		return err
	}

	var filter ui.Filter
	switch {
	case *local:
		filter = ui.FilterLocal
	case *ssh:
		filter = ui.FilterSSH
	case *docker:
		filter = ui.FilterDocker
	default:
		filter = ui.FilterAll
	}
	filtered := entries[:0]
	for _, e := range entries {
		if filter.Matches(e.Source) {
			filtered = append(filtered, e)
		}
	}

	if *asJSON {
		out, err := json.MarshalIndent(filtered, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%-8s %-6s %-8s %-20s PROCESS\n", "TYPE", "OPEN", "LOCAL", "REMOTE")
	fmt.Println(strings.Repeat("-", 66))
	for i := range filtered {
		e := &filtered[i]
		dot := "○"
		if e.IsOpen {
			dot = "●"
		}
		fmt.Printf("%-8s %-6s :%-7d %-20s %s\n",
			e.Source, dot, e.LocalPort, e.RemoteDisplay(), e.ProcessDisplay())
	}
	return nil
}

func runForward(args []string) error {
	fs := flag.NewFlagSet("forward", flag.ExitOnError)
	reverse := fs.Bool("R", false, "reverse forward (remote to local)")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: quay forward <local:host:port> <ssh-host> [-R]")
	}
	spec, host := fs.Arg(0), fs.Arg(1)

	dir := "-L"
	if *reverse {
		dir = "-R"
	}
	fmt.Printf("Creating SSH forward: ssh -f -N %s %s %s\n", dir, spec, host)
	pid, err := ports.CreateForward(spec, host, *reverse)
	if err != nil {
		return fmt.Errorf("failed to create forward: %w", err)
	}
	fmt.Printf("Started with PID: %d\n", pid)
	return nil
}

func runKill(args []string, remoteHost, dockerTarget string) error {
	fs := flag.NewFlagSet("kill", flag.ExitOnError)
	pid := fs.Int("pid", 0, "kill by PID instead of port")
	fs.Parse(args)

	if *pid > 0 {
		fmt.Printf("Killing process with PID: %d...\n", *pid)
		if err := ports.KillPID(*pid, remoteHost); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: quay kill <port> [-pid PID]")
	}
	n, err := strconv.ParseUint(fs.Arg(0), 10, 16)
	if err != nil || n == 0 {
		return fmt.Errorf("invalid port %q", fs.Arg(0))
	}
	fmt.Printf("Killing process on port: %d...\n", n)
	if err := ports.KillPort(uint16(n), remoteHost, dockerTarget); err != nil {
		return err
	}
	fmt.Println("Done.")
	return nil
}

func runDev(args []string, cfg config.Config) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: quay dev listen|check|scenario|mock")
	}
	switch args[0] {
	case "listen":
		return runDevListen(args[1:])
	case "check":
		portList, err := parsePorts(args[1:])
		if err != nil {
			return err
		}
		return dev.RunCheck(os.Stdout, portList)
	case "scenario":
		return runDevScenario(args[1:], cfg)
	case "mock":
		return runTUI(cfg, "", "", dev.MockEntries())
	default:
		return fmt.Errorf("unknown dev command %q", args[0])
	}
}

func runDevListen(args []string) error {
	fs := flag.NewFlagSet("listen", flag.ExitOnError)
	httpMode := fs.Bool("http", false, "respond with HTTP 200")
	fs.Parse(args)
	portList, err := parsePorts(fs.Args())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Println("Press Ctrl+C to stop")
	return dev.Listen(ctx, portList, *httpMode)
}

func runDevScenario(args []string, cfg config.Config) error {
	fs := flag.NewFlagSet("scenario", flag.ExitOnError)
	list := fs.Bool("list", false, "list available scenarios")
	fs.Parse(args)

	if *list {
		fmt.Println("Available scenarios:")
		fmt.Printf("%-10s %-30s PORTS\n", "NAME", "DESCRIPTION")
		fmt.Println(strings.Repeat("-", 60))
		for _, s := range dev.Scenarios {
			var cols []string
			for _, e := range s.Entries {
				if e.ShouldListen {
					cols = append(cols, strconv.Itoa(int(e.Port)))
				} else {
					cols = append(cols, strconv.Itoa(int(e.Port))+"(off)")
				}
			}
			fmt.Printf("%-10s %-30s %s\n", s.Name, s.Description, strings.Join(cols, ", "))
		}
		return nil
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("scenario name required, use -list to see available scenarios")
	}
	s := dev.FindScenario(fs.Arg(0))
	if s == nil {
		return fmt.Errorf("unknown scenario %q, use -list to see available scenarios", fs.Arg(0))
	}
	fmt.Printf("Starting scenario '%s': %s\n", s.Name, s.Description)

	// Best-effort listeners; ports may already be taken.
	if lp := s.ListenPorts(); len(lp) > 0 {
		if stopListeners, err := dev.SpawnListeners(lp, false); err != nil {
			fmt.Fprintf(os.Stderr, "Note: could not bind listeners (%v), showing scenario entries only\n", err)
		} else {
			defer stopListeners()
		}
	}
	return runTUI(cfg, "", "", s.PortEntries())
}

func parsePorts(args []string) ([]uint16, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no ports specified")
	}
	out := make([]uint16, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseUint(a, 10, 16)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid port %q", a)
		}
		out = append(out, uint16(n))
	}
	return out, nil
}
