package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner animates a status line on stderr while a render runs. Only its
// own goroutine writes to w, so no locking is needed around the frames.
type Spinner struct {
	message string
	style   spinner.Spinner
	w       io.Writer

	parent   context.Context
	ctx      context.Context
	stop     context.CancelFunc
	finished chan struct{}
	byCaller atomic.Bool
	once     sync.Once
}

// newSpinnerWithContext returns a spinner that also stops when ctx ends.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	inner, stop := context.WithCancel(ctx)
	return &Spinner{
		message:  message,
		style:    spinner.MiniDot,
		w:        os.Stderr,
		parent:   ctx,
		ctx:      inner,
		stop:     stop,
		finished: make(chan struct{}),
	}
}

// Start draws frames until Stop or cancellation.
func (s *Spinner) Start() { go s.run() }

func (s *Spinner) run() {
	defer close(s.finished)
	tick := time.NewTicker(s.style.FPS)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
			return
		case <-tick.C:
			glyph := s.style.Frames[frame%len(s.style.Frames)]
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.message))
		}
	}
}

// Stop halts the animation and waits for the line to be cleared. Calling it
// again is a no-op. It must follow Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.byCaller.Store(true)
		s.stop()
		<-s.finished
	})
}

// StopWithSuccess stops and prints a success status line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops and prints an error status line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended before Stop was called.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil && !s.byCaller.Load()
}
