package backend

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// Handle represents a live child process: an identifier, a way to request
// termination, and the event stream the relay consumes. A handle's event
// channel always ends with an EventExited event and is then closed; no
// concurrent readers of one event stream are permitted.
type Handle interface {
	// PID returns the OS process identifier.
	PID() int

	// Kill requests termination of the process. Best-effort; the outcome
	// of the request is not observable beyond the eventual EventExited.
	Kill() error

	// Events returns the process's event stream.
	Events() <-chan Event
}

// LaunchSpec describes one spawn attempt.
type LaunchSpec struct {
	// Path is the resolved executable path.
	Path string

	// Args are command-line arguments.
	Args []string

	// Env is the complete child environment (not additions to it).
	Env []string

	// Dir is the working directory. Empty means inherit.
	Dir string
}

// Launcher spawns a child process and hands back its handle. The supervisor
// depends on this interface so tests can substitute a fake.
type Launcher interface {
	Launch(spec LaunchSpec) (Handle, error)
}

// ExecLauncher launches real OS processes via os/exec.
type ExecLauncher struct{}

// Launch starts the executable with the given spec. The returned handle's
// event stream carries one EventOutput per line of stdout/stderr, an
// EventSourceError for any read failure, and a final EventExited once the
// process has terminated and both pipes are drained.
func (ExecLauncher) Launch(spec LaunchSpec) (Handle, error) {
	cmd := exec.Command(spec.Path, spec.Args...)
	cmd.Env = spec.Env
	cmd.Dir = spec.Dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdout.Close()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		stdout.Close()
		stderr.Close()
		return nil, err
	}

	p := &process{
		cmd:    cmd,
		events: make(chan Event, 64),
	}

	var pumps sync.WaitGroup
	pumps.Add(2)
	go p.pump(stdout, StreamStdout, &pumps)
	go p.pump(stderr, StreamStderr, &pumps)
	go p.wait(&pumps)

	return p, nil
}

// process is the real Handle implementation over an exec.Cmd.
type process struct {
	cmd    *exec.Cmd
	events chan Event
}

func (p *process) PID() int {
	return p.cmd.Process.Pid
}

func (p *process) Kill() error {
	return p.cmd.Process.Kill()
}

func (p *process) Events() <-chan Event {
	return p.events
}

// pump reads one output pipe line by line and emits output events.
func (p *process) pump(r io.Reader, stream Stream, pumps *sync.WaitGroup) {
	defer pumps.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		p.events <- Event{Kind: EventOutput, Stream: stream, Text: scanner.Text()}
	}

	// A closed pipe at process exit is normal EOF; anything else is a
	// source error the relay should see but survive.
	if err := scanner.Err(); err != nil {
		p.events <- Event{Kind: EventSourceError, Stream: stream, Err: err}
	}
}

// wait reaps the process after both pumps have drained, emits the terminal
// event, and closes the stream. EventExited is therefore always last.
func (p *process) wait(pumps *sync.WaitGroup) {
	pumps.Wait()

	err := p.cmd.Wait()

	ev := Event{Kind: EventExited}
	if err == nil {
		ev.ExitCodeKnown = true
	} else {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			ev.ExitCode = exitErr.ExitCode()
			ev.ExitCodeKnown = true
		}
	}

	p.events <- ev
	close(p.events)
}
