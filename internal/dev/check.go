package dev

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/shonenm/quay/internal/ports"
)

// CheckResult is the probe outcome for one port.
type CheckResult struct {
	Port uint16
	Open bool
}

// Check probes every port concurrently and returns the results sorted by
// port number.
func Check(portList []uint16) []CheckResult {
	results := make([]CheckResult, len(portList))
	var wg sync.WaitGroup
	for i, port := range portList {
		wg.Add(1)
		go func(i int, port uint16) {
			defer wg.Done()
			results[i] = CheckResult{Port: port, Open: ports.ProbePort(port)}
		}(i, port)
	}
	wg.Wait()
	sort.Slice(results, func(a, b int) bool { return results[a].Port < results[b].Port })
	return results
}

// RunCheck probes the ports and writes a summary table.
func RunCheck(w io.Writer, portList []uint16) error {
	if len(portList) == 0 {
		return errors.New("no ports specified")
	}
	results := Check(portList)

	fmt.Fprintf(w, "%-8s %-6s STATUS\n", "PORT", "OPEN")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	open := 0
	for _, r := range results {
		if r.Open {
			open++
			fmt.Fprintf(w, ":%-7d ●      open\n", r.Port)
		} else {
			fmt.Fprintf(w, ":%-7d ○      closed\n", r.Port)
		}
	}
	fmt.Fprintf(w, "\n%d/%d ports open\n", open, len(results))
	return nil
}
