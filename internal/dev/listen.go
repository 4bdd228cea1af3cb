package dev

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
)

// SpawnListeners binds loopback TCP listeners on the given ports and starts
// an accept loop for each. Binding failures are warned and skipped; the error
// is non-nil only when no port could be bound. The returned stop function
// closes every listener.
func SpawnListeners(ports []uint16, httpMode bool) (stop func(), err error) {
	var listeners []net.Listener
	for _, port := range ports {
		ln, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(int(port)))
		if err != nil {
			fmt.Printf("Warning: failed to bind :%d: %v\n", port, err)
			continue
		}
		fmt.Printf("Listening on :%d\n", port)
		listeners = append(listeners, ln)
		go acceptLoop(ln, port, httpMode)
	}
	if len(listeners) == 0 {
		return nil, errors.New("failed to bind any ports")
	}
	return func() {
		for _, ln := range listeners {
			ln.Close()
		}
	}, nil
}

// Listen runs listeners on the given ports until the context is cancelled.
func Listen(ctx context.Context, ports []uint16, httpMode bool) error {
	if len(ports) == 0 {
		return errors.New("no ports specified")
	}
	stop, err := SpawnListeners(ports, httpMode)
	if err != nil {
		return err
	}
	defer stop()
	<-ctx.Done()
	return nil
}

// acceptLoop services one listener until it is closed. Without httpMode a
// connection is accepted and dropped, which is enough for probe detection.
func acceptLoop(ln net.Listener, port uint16, httpMode bool) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		if httpMode {
			body := fmt.Sprintf("dev listener on :%d\n", port)
			fmt.Fprintf(conn,
				"HTTP/1.1 200 OK\r\nContent-Length: %d\r\nContent-Type: text/plain\r\nConnection: close\r\n\r\n%s",
				len(body), body)
		}
		conn.Close()
	}
}
