// Package capture routes the combined output of a running operation to a
// scratch file so the terminal line stays free for progress rendering, and
// exposes the tail of that output for failure diagnostics.
package capture

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/arthur-debert/franklin/pkg/cleanup"
	"github.com/arthur-debert/franklin/pkg/errors"
	"github.com/arthur-debert/franklin/pkg/logging"
)

// TailIndent prefixes every replayed line so diagnostics sit under the
// failure badge they belong to.
const TailIndent = "    "

// Buffer is the scratch destination for one operation's combined output.
// It is exclusively owned by the single in-flight operation and removed
// unconditionally when Release is called, including on termination signals
// via the cleanup registry.
type Buffer struct {
	mu       sync.Mutex
	file     *os.File
	path     string
	released bool
	unhook   func()
}

// NewBuffer creates a scratch file for one operation run and registers its
// removal with the cleanup registry so an external interruption cannot leak it.
func NewBuffer() (*Buffer, error) {
	file, err := os.CreateTemp("", "franklin-run-*.log")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCaptureCreate, "failed to create scratch output file")
	}

	b := &Buffer{file: file, path: file.Name()}
	b.unhook = cleanup.Register(b.remove)

	logger := logging.GetLogger("capture")
	logger.Trace().Str("path", b.path).Msg("Scratch buffer created")

	return b, nil
}

// Write implements io.Writer so the buffer can be handed directly to an
// operation as its combined output stream.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released || b.file == nil {
		// Output after release is dropped rather than failing the writer.
		return len(p), nil
	}
	return b.file.Write(p)
}

// Path returns the scratch file location, for log messages.
func (b *Buffer) Path() string {
	return b.path
}

// Lines returns every captured line, unprefixed, for full replay in
// verbose mode.
func (b *Buffer) Lines() []string {
	return b.read(0, "")
}

// Tail returns the last n captured lines, each prefixed for indentation
// under a failure badge.
func (b *Buffer) Tail(n int) []string {
	return b.read(n, TailIndent)
}

func (b *Buffer) read(last int, prefix string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return nil
	}

	file, err := os.Open(b.path)
	if err != nil {
		return nil
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		lines = append(lines, prefix+line)
	}

	if last > 0 && len(lines) > last {
		lines = lines[len(lines)-last:]
	}
	return lines
}

// Release closes and removes the scratch file. It is idempotent and must be
// called on every exit path; NewBuffer additionally guarantees removal on
// termination signals.
func (b *Buffer) Release() {
	if b.unhook != nil {
		b.unhook()
	} else {
		b.remove()
	}
}

func (b *Buffer) remove() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return
	}
	b.released = true

	if b.file != nil {
		_ = b.file.Close()
		b.file = nil
	}
	if err := os.Remove(b.path); err != nil && !os.IsNotExist(err) {
		logger := logging.GetLogger("capture")
		logger.Warn().Err(err).Str("path", b.path).Msg("Failed to remove scratch buffer")
	}
}

// Released reports whether the scratch storage has been removed.
func (b *Buffer) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}
