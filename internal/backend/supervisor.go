package backend

import (
	"context"
	"os"
	"sync"
	"time"
)

// StartOutcome reports what a start request did.
type StartOutcome int

const (
	// OutcomeFailed means the spawn attempt failed; the accompanying
	// error says why.
	OutcomeFailed StartOutcome = iota
	// OutcomeSpawned means a new child was launched.
	OutcomeSpawned
	// OutcomeAlreadySpawned means the slot was occupied; nothing was
	// launched.
	OutcomeAlreadySpawned
	// OutcomeAlreadyServing means something is already listening on the
	// endpoint; nothing was launched and the slot was not touched.
	OutcomeAlreadyServing
)

// String returns a human-readable outcome name.
func (o StartOutcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeSpawned:
		return "spawned"
	case OutcomeAlreadySpawned:
		return "already spawned"
	case OutcomeAlreadyServing:
		return "already serving"
	default:
		return "unknown"
	}
}

// Config describes the backend the supervisor manages.
type Config struct {
	// Command is the logical executable name handed to the resolver.
	Command string

	// Args are command-line arguments for the backend.
	Args []string

	// Endpoint is the host:port the backend is expected to bind. The
	// liveness probe targets it; keeping it in sync with the port the
	// backend actually uses is an external configuration agreement.
	Endpoint string

	// ProbeTimeout bounds the liveness probe. Zero means
	// DefaultProbeTimeout.
	ProbeTimeout time.Duration

	// WorkDir is the child's working directory. Empty means inherit.
	WorkDir string
}

// Supervisor owns the single child-process slot. It is the only component
// allowed to spawn or kill the backend; all slot access is serialized
// through its mutex, and the lock is held across the occupancy check and
// the store so concurrent start requests cannot both spawn.
type Supervisor struct {
	mu        sync.Mutex
	child     Handle
	relayDone <-chan struct{}

	cfg      Config
	sink     Sink
	probe    *Probe
	launcher Launcher
	resolver Resolver
	environ  func() []string
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithLauncher overrides the process launcher.
func WithLauncher(l Launcher) Option {
	return func(s *Supervisor) { s.launcher = l }
}

// WithProbe overrides the liveness probe.
func WithProbe(p *Probe) Option {
	return func(s *Supervisor) { s.probe = p }
}

// WithResolver overrides the executable resolver.
func WithResolver(r Resolver) Option {
	return func(s *Supervisor) { s.resolver = r }
}

// WithEnviron overrides the base-environment source.
func WithEnviron(fn func() []string) Option {
	return func(s *Supervisor) { s.environ = fn }
}

// NewSupervisor creates a supervisor for the configured backend. Relayed
// child output goes to sink.
func NewSupervisor(cfg Config, sink Sink, opts ...Option) *Supervisor {
	s := &Supervisor{
		cfg:      cfg,
		sink:     sink,
		probe:    &Probe{Timeout: cfg.ProbeTimeout},
		launcher: ExecLauncher{},
		environ:  os.Environ,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the backend unless one is already running. It is
// idempotent: a second call while the slot is occupied reports
// OutcomeAlreadySpawned without spawning, and an endpoint that is already
// serving reports OutcomeAlreadyServing without touching the slot. Both
// guards are evaluated before any spawn attempt, so a failed or raced
// start never leaves an unaccounted child behind.
//
// A spawn failure is fatal for this attempt only; the caller logs it and
// the host keeps running with no backend.
func (s *Supervisor) Start(ctx context.Context) (StartOutcome, error) {
	if s.probe.IsListening(ctx, s.cfg.Endpoint) {
		return OutcomeAlreadyServing, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.child != nil {
		return OutcomeAlreadySpawned, nil
	}

	path, err := s.resolver.Resolve(s.cfg.Command)
	if err != nil {
		return OutcomeFailed, &SpawnError{Command: s.cfg.Command, Err: err}
	}

	handle, err := s.launcher.Launch(LaunchSpec{
		Path: path,
		Args: s.cfg.Args,
		Env:  RepairPath(s.environ()),
		Dir:  s.cfg.WorkDir,
	})
	if err != nil {
		return OutcomeFailed, &SpawnError{Command: path, Err: err}
	}

	s.child = handle

	relay := NewRelay(s.sink)
	go relay.Run(handle.Events())
	s.relayDone = relay.Done()

	return OutcomeSpawned, nil
}

// Stop takes the child out of the slot and requests its termination. It is
// idempotent and always safe, including when nothing is running. The kill
// is fire-and-forget: the host is shutting down and has no use for the
// outcome. The relay is not cancelled; it exits on its own once it
// observes the termination event.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	child := s.child
	s.child = nil
	s.mu.Unlock()

	if child != nil {
		_ = child.Kill()
	}
}

// Running reports whether the slot is occupied. The slot is cleared only
// by Stop: a child that exits on its own leaves the slot marked occupied,
// so a later Start reports OutcomeAlreadySpawned rather than respawning.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.child != nil
}

// PID returns the current child's process identifier, or 0 when the slot
// is empty.
func (s *Supervisor) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.child == nil {
		return 0
	}
	return s.child.PID()
}

// RelayDone returns the done channel of the most recent child's relay, or
// nil if nothing was ever spawned. Shutdown paths may join on it; they are
// equally free to abandon it.
func (s *Supervisor) RelayDone() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.relayDone
}

// Endpoint returns the probe target.
func (s *Supervisor) Endpoint() string {
	return s.cfg.Endpoint
}
