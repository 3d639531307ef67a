package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Stderr receives spinner frames.
var Stderr io.Writer = os.Stderr

// Interactive reports whether stderr is a terminal. Spinners only animate
// there, so CI logs and redirected output stay free of control codes.
var Interactive = func() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Spinner animates a message on stderr while a long operation runs.
type Spinner struct {
	message  string
	interval time.Duration
	done     chan struct{}
	stopped  chan struct{}
	once     sync.Once
	mu       sync.Mutex
	started  bool
}

// NewSpinner returns a stopped spinner showing message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message:  message,
		interval: 100 * time.Millisecond,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start animates the spinner until Stop. Extra calls are ignored, and
// nothing is drawn in JSON mode or off a terminal.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	if JSONMode || !Interactive() {
		close(s.stopped)
		return
	}
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.stopped)
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	if NoColor() {
		frames = []string{"|", "/", "-", "\\"}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		fmt.Fprintf(Stderr, "\r%s %s", frames[i%len(frames)], s.message)
		select {
		case <-s.done:
			fmt.Fprint(Stderr, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

// Stop ends the animation and clears its line before returning. It is safe
// to call more than once, and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
	})
}

// StopWithSuccess stops the spinner and logs msg as a success.
func (s *Spinner) StopWithSuccess(msg string) {
	s.Stop()
	Success(msg)
}

// StopWithError stops the spinner and logs msg as a failure.
func (s *Spinner) StopWithError(msg string) {
	s.Stop()
	Fail(msg)
}

// WithSpinner runs fn behind a spinner labelled message and returns its
// error.
func WithSpinner(message string, fn func() error) error {
	sp := NewSpinner(message)
	sp.Start()
	err := fn()
	if err != nil {
		sp.StopWithError(message + " failed")
	} else {
		sp.StopWithSuccess(message)
	}
	return err
}
