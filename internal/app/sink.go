package app

import (
	"fmt"

	"murmur/internal/backend"
	"murmur/internal/hooks"
	"murmur/internal/ui"
)

// outputSink receives relayed backend output. Lines go to the host log
// and the window tail; the termination event additionally reaches the
// lifecycle hooks.
type outputSink struct {
	log   *Logger
	tail  *ui.Tail
	hooks *hooks.Runner
}

func newOutputSink(log *Logger, tail *ui.Tail, hooks *hooks.Runner) *outputSink {
	return &outputSink{
		log:   log.WithComponent("backend"),
		tail:  tail,
		hooks: hooks,
	}
}

func (s *outputSink) Line(stream backend.Stream, text string) {
	s.tail.Append(text)

	if stream == backend.StreamStderr {
		s.log.Warn("%s", text)
		return
	}
	s.log.Info("%s", text)
}

func (s *outputSink) SourceError(err error) {
	s.log.Warn("output stream error: %v", err)
}

func (s *outputSink) Exited(code int, known bool) {
	if known {
		s.tail.Append(fmt.Sprintf("[backend exited with code %d]", code))
		if code == 0 {
			s.log.Info("backend exited cleanly")
		} else {
			s.log.Warn("backend exited with code %d", code)
		}
	} else {
		s.tail.Append("[backend terminated]")
		s.log.Warn("backend terminated without an exit code")
	}

	if err := s.hooks.OnBackendExit(code, known); err != nil {
		s.log.Warn("exit hook failed: %v", err)
	}
}
