// Package cleanup provides a process-wide registry of release functions
// that are guaranteed to run on normal exit and on termination signals.
//
// Components that hold transient resources (scratch capture files, a hidden
// terminal cursor, cached sudo credentials) register a function here and
// deregister it once they have released the resource themselves. On SIGINT
// or SIGTERM every still-registered function runs, most recent first, before
// the process exits.
package cleanup

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/arthur-debert/franklin/pkg/logging"
)

var (
	mu        sync.Mutex
	stack     []*entry
	installed bool
)

type entry struct {
	fn   func()
	done bool
}

// Register adds fn to the cleanup stack and returns a release function.
// The release function runs fn immediately (at most once) and removes it
// from the stack; callers typically defer it.
func Register(fn func()) func() {
	e := &entry{fn: fn}

	mu.Lock()
	stack = append(stack, e)
	mu.Unlock()

	return func() {
		mu.Lock()
		ran := e.done
		e.done = true
		for i, cur := range stack {
			if cur == e {
				stack = append(stack[:i], stack[i+1:]...)
				break
			}
		}
		mu.Unlock()

		if !ran {
			fn()
		}
	}
}

// Run executes every still-registered cleanup function, most recent first.
// It is safe to call more than once; each function runs at most once.
func Run() {
	mu.Lock()
	pending := make([]*entry, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		e := stack[i]
		if !e.done {
			e.done = true
			pending = append(pending, e)
		}
	}
	stack = nil
	mu.Unlock()

	for _, e := range pending {
		e.fn()
	}
}

// InstallSignalHandler arranges for Run to execute when the process receives
// SIGINT or SIGTERM, then exits with the conventional 128+signal code.
// Calling it more than once installs a single handler.
func InstallSignalHandler() {
	mu.Lock()
	if installed {
		mu.Unlock()
		return
	}
	installed = true
	mu.Unlock()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-ch
		logger := logging.GetLogger("cleanup")
		logger.Warn().Str("signal", sig.String()).Msg("Termination signal received, running cleanup")

		Run()

		code := 1
		if s, ok := sig.(syscall.Signal); ok {
			code = 128 + int(s)
		}
		os.Exit(code)
	}()
}
