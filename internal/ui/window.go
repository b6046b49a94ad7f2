package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

// redrawInterval paces the periodic refresh of the status line and tail.
const redrawInterval = 200 * time.Millisecond

// Status is a snapshot of what the window displays above the tail.
type Status struct {
	// Endpoint is the backend's probe target.
	Endpoint string

	// Running reports whether the backend slot is occupied.
	Running bool

	// PID is the backend's process identifier, 0 when not running.
	PID int
}

// Window is the terminal host window. It renders a status line and the
// backend output tail, and turns a quit key into a close request.
type Window struct {
	screen tcell.Screen
	tail   *Tail
	status func() Status
	title  string
}

// NewWindow creates the host window. status is polled on every redraw.
func NewWindow(tail *Tail, status func() Status) (*Window, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &Window{
		screen: screen,
		tail:   tail,
		status: status,
		title:  "murmur",
	}, nil
}

// Run drives the window until done is closed. Pressing q, Escape or Ctrl-C
// calls onClose once; the window keeps running until done closes, so the
// caller controls the actual teardown order. Run restores the terminal
// before returning.
func (w *Window) Run(done <-chan struct{}, onClose func()) {
	defer w.screen.Fini()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := w.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	closeRequested := false
	requestClose := func() {
		if !closeRequested {
			closeRequested = true
			onClose()
		}
	}

	w.draw()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			w.draw()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				w.screen.Sync()
				w.draw()
			case *tcell.EventKey:
				if isQuitKey(ev) {
					requestClose()
				}
			}
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

func (w *Window) draw() {
	w.screen.Clear()
	width, height := w.screen.Size()

	titleStyle := tcell.StyleDefault.Bold(true)
	drawText(w.screen, 0, 0, width, titleStyle, w.title)

	st := w.status()
	line := fmt.Sprintf("backend %s  %s", st.Endpoint, statusText(st))
	drawText(w.screen, 0, 1, width, tcell.StyleDefault, line)

	// Tail fills the rest of the window, newest line at the bottom.
	lines := w.tail.Lines()
	rows := height - 3
	if rows < 0 {
		rows = 0
	}
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i, line := range lines {
		drawText(w.screen, 0, 3+i, width, dim, line)
	}

	w.screen.Show()
}

func statusText(st Status) string {
	if st.Running {
		return fmt.Sprintf("running (pid %d)", st.PID)
	}
	return "not running"
}

func drawText(s tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		if col >= x+maxWidth {
			break
		}
		s.SetContent(col, y, r, nil, style)
		col++
	}
}
