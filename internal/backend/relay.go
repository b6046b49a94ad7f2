package backend

import "fmt"

// Sink receives the relayed output and lifecycle records of a backend
// child. Implementations must be safe for concurrent use; the relay treats
// every call as fire-and-forget.
type Sink interface {
	// Line receives one line of child output tagged by stream.
	Line(stream Stream, text string)

	// SourceError receives a failure reading the child's output. The
	// relay keeps consuming after reporting it.
	SourceError(err error)

	// Exited receives the child's termination record. known is false when
	// the exit status was unavailable.
	Exited(code int, known bool)
}

// Relay drains one child's event stream and forwards every event to the
// sink strictly in arrival order. It exits once it observes the terminal
// event (or the stream closes) and must never fail the host: event kinds it
// does not recognize are forwarded as informational lines.
type Relay struct {
	sink Sink
	done chan struct{}
}

// NewRelay creates a relay forwarding to sink.
func NewRelay(sink Sink) *Relay {
	return &Relay{
		sink: sink,
		done: make(chan struct{}),
	}
}

// Run consumes events until termination. It is intended to run as its own
// goroutine, one per child.
func (r *Relay) Run(events <-chan Event) {
	defer close(r.done)

	for ev := range events {
		switch ev.Kind {
		case EventOutput:
			r.sink.Line(ev.Stream, ev.Text)
		case EventSourceError:
			r.sink.SourceError(ev.Err)
		case EventExited:
			r.sink.Exited(ev.ExitCode, ev.ExitCodeKnown)
			return
		default:
			r.sink.Line(ev.Stream, fmt.Sprintf("unrecognized backend event (kind %d)", ev.Kind))
		}
	}

	// Stream closed without a terminal event; report an unknown exit so
	// the sink still sees a termination record.
	r.sink.Exited(0, false)
}

// Done is closed once the relay has stopped consuming. The supervisor can
// join on it or abandon it at shutdown.
func (r *Relay) Done() <-chan struct{} {
	return r.done
}
