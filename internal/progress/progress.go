// Package progress wraps a terminal spinner and a signal-flush discipline:
// SIGINT/SIGTERM must flush the in-progress line before the process exits
// with the conventional code.
package progress

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
)

// Bar wraps a spinner.Spinner, tracking whether it is currently running so
// Stop is idempotent and safe to call from a signal handler.
type Bar struct {
	mu      sync.Mutex
	s       *spinner.Spinner
	running bool
}

// New creates a stopped Bar with suffix as its running message.
func New(suffix string) *Bar {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	return &Bar{s: s}
}

// Start begins the spinner, unless quiet is set (the non-verbose summary
// posture still wants a spinner; quiet suppresses all progress output,
// e.g. when invoked by the shell hook).
func (b *Bar) Start(quiet bool) {
	if quiet {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return
	}
	b.s.Start()
	b.running = true
}

// Stop halts the spinner if running. Safe to call more than once and from
// a signal handler.
func (b *Bar) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return
	}
	b.s.Stop()
	b.running = false
}

// Fail stops the spinner and sets a final failure message.
func (b *Bar) Fail(msg string) {
	b.mu.Lock()
	b.s.FinalMSG = msg + "\n"
	b.mu.Unlock()
	b.Stop()
}

// WatchSignals stops bar and exits with the conventional code (130 for
// SIGINT, 143 for SIGTERM) on receipt of either signal, so terminals are
// never left with a spinner frame mid-render. It returns a stop function
// the caller should defer to cancel watching cleanly on normal exit.
func WatchSignals(bars ...*Bar) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			for _, b := range bars {
				b.Stop()
			}
			code := 130
			if sig == syscall.SIGTERM {
				code = 143
			}
			os.Exit(code)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
