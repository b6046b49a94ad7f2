package backend

// Stream identifies which output pipe of the child a line came from.
type Stream int

const (
	// StreamStdout is the child's standard output.
	StreamStdout Stream = iota
	// StreamStderr is the child's standard error.
	StreamStderr
)

// String returns a human-readable stream name.
func (s Stream) String() string {
	switch s {
	case StreamStdout:
		return "stdout"
	case StreamStderr:
		return "stderr"
	default:
		return "unknown"
	}
}

// EventKind identifies the type of an event on a child's event stream.
type EventKind int

const (
	// EventOutput carries one line of child output.
	EventOutput EventKind = iota
	// EventSourceError reports a failure reading the child's output.
	EventSourceError
	// EventExited reports that the child process terminated. It is always
	// the final event on a stream.
	EventExited
)

// String returns a human-readable event kind name.
func (k EventKind) String() string {
	switch k {
	case EventOutput:
		return "output"
	case EventSourceError:
		return "source-error"
	case EventExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Event is a single occurrence on a child's event stream. Events are
// produced in emission order and consumed exactly once, in that order, by
// the relay. Which fields are meaningful depends on Kind:
//
//   - EventOutput: Stream, Text
//   - EventSourceError: Err
//   - EventExited: ExitCode, ExitCodeKnown
type Event struct {
	Kind   EventKind
	Stream Stream
	Text   string
	Err    error

	// ExitCode is the child's exit status. Only meaningful when
	// ExitCodeKnown is true; the status can be unavailable when the child
	// was killed by a signal or the platform withholds it.
	ExitCode      int
	ExitCodeKnown bool
}
