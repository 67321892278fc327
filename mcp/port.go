package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/bpowers/editor-bridge/internal/logging"
)

// ErrNoPortAvailable is returned when no port in the configured range can be
// bound. Callers should treat it as fatal for this process instance; the
// allocator never widens the range on its own.
var ErrNoPortAvailable = errors.New("no port available")

// PortRange is an inclusive range of candidate listening ports.
type PortRange struct {
	Start int
	End   int
}

func (r PortRange) valid() bool {
	return r.Start >= 0 && r.Start <= r.End && r.End <= 65535
}

// probeTimeout bounds each bind attempt so a port stuck in a half-open state
// cannot stall the scan.
const probeTimeout = time.Second

// FindAvailablePort scans the range in ascending order and returns the first
// port on which a loopback listener can be opened. First-fit and
// deterministic: given the same free ports, the same answer every run. An
// invalid range is logged and reported as no port available, not a panic.
func FindAvailablePort(ctx context.Context, r PortRange) (int, error) {
	if !r.valid() {
		logging.Logger().Error("invalid port range", "start", r.Start, "end", r.End)
		return 0, fmt.Errorf("find port: invalid range %d-%d: %w", r.Start, r.End, ErrNoPortAvailable)
	}

	var lc net.ListenConfig
	for port := r.Start; port <= r.End; port++ {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		ln, err := lc.Listen(probeCtx, "tcp", loopbackAddr(port))
		cancel()
		if err != nil {
			logging.Logger().Debug("port probe failed", "port", port, "err", err)
			continue
		}
		// The probe listener is released immediately; the caller binds the
		// port for real. A lost race with another process is the caller's
		// fatal error, not a reason to keep scanning.
		if err := ln.Close(); err != nil {
			logging.Logger().Debug("port probe close failed", "port", port, "err", err)
			continue
		}
		return port, nil
	}
	return 0, fmt.Errorf("find port: range %d-%d exhausted: %w", r.Start, r.End, ErrNoPortAvailable)
}

func loopbackAddr(port int) string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
}
