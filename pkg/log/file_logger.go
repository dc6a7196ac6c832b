package log

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends events to an .rlog file. Each Log call writes one
// complete CBOR item, so a trace cut short by a crash is still readable up
// to the last event. Safe for concurrent use.
type FileLogger struct {
	mu      sync.Mutex
	f       *os.File // nil once closed
	enc     *cbor.Encoder
	dropped uint64
}

// NewFileLogger opens path for appending, creating it with mode 0644. The
// parent directory must exist.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{f: f, enc: newEventEncoder(f)}, nil
}

// Log appends event. A failed write is counted, never reported, so the
// register access being traced is not affected.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return
	}
	if err := l.enc.Encode(event); err != nil {
		l.dropped++
	}
}

// Dropped returns how many events could not be written.
func (l *FileLogger) Dropped() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Close closes the file. It is idempotent and later events are discarded.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil
	return f.Close()
}

var _ Logger = (*FileLogger)(nil)
