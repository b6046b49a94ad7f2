package backend

import (
	"context"
	"net"
	"time"
)

// DefaultProbeTimeout bounds the liveness probe's connection attempt.
const DefaultProbeTimeout = 500 * time.Millisecond

// Probe answers whether something is already serving on the backend's
// endpoint. It is a heuristic guard against starting a second backend when
// one is already listening, for example an orphan from a crashed session or
// a manually started instance.
type Probe struct {
	// Timeout bounds the connection attempt. Zero means
	// DefaultProbeTimeout.
	Timeout time.Duration

	// dial overrides the dialer in tests.
	dial func(ctx context.Context, network, address string) (net.Conn, error)
}

// IsListening reports whether a TCP connection to endpoint succeeds within
// the probe's timeout. Any connection failure (refused, timeout,
// unreachable) reads as false, never as an error. A successful probe
// connection is closed immediately.
func (p *Probe) IsListening(ctx context.Context, endpoint string) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	dial := p.dial
	if dial == nil {
		d := net.Dialer{Timeout: timeout}
		dial = d.DialContext
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := dial(ctx, "tcp", endpoint)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
