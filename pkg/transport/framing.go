package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/t1s-tools/lan865x-go/pkg/log"
)

const (
	// LengthPrefixSize is the size of the big-endian length prefix.
	LengthPrefixSize = 4

	// DefaultMaxMessageSize bounds a control message. Register requests are
	// a few dozen bytes; the largest payload is the debug status block.
	DefaultMaxMessageSize = 16 * 1024

	// MaxLogFrameDataSize is how much of a frame is copied into a log event.
	MaxLogFrameDataSize = 512
)

// Framing errors.
var (
	ErrMessageTooLarge = errors.New("message too large")
	ErrMessageEmpty    = errors.New("message is empty")
	ErrFrameTruncated  = errors.New("frame truncated")
)

// frameLog emits frame events for one side of a connection.
type frameLog struct {
	logger    log.Logger
	sessionID string
	role      log.Role
}

func (fl *frameLog) emit(data []byte, dir log.Direction) {
	if fl.logger == nil {
		return
	}
	ev := &log.FrameEvent{Size: LengthPrefixSize + len(data), Data: data}
	if len(data) > MaxLogFrameDataSize {
		ev.Data = data[:MaxLogFrameDataSize]
		ev.Truncated = true
	}
	fl.logger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: fl.sessionID,
		Direction: dir,
		Layer:     log.LayerControl,
		Category:  log.CategoryFrame,
		LocalRole: fl.role,
		Frame:     ev,
	})
}

// FrameWriter writes length-prefixed frames. It is safe for concurrent use.
type FrameWriter struct {
	w       io.Writer
	maxSize uint32
	mu      sync.Mutex
	log     frameLog
}

// NewFrameWriter creates a frame writer with the default size limit.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w, maxSize: DefaultMaxMessageSize}
}

// SetLogger configures frame logging. Pass nil to disable it.
func (fw *FrameWriter) SetLogger(logger log.Logger, sessionID string, role log.Role) {
	fw.log = frameLog{logger: logger, sessionID: sessionID, role: role}
}

// WriteFrame writes data behind a 4-byte length prefix in a single write.
func (fw *FrameWriter) WriteFrame(data []byte) error {
	if len(data) == 0 {
		return ErrMessageEmpty
	}
	if uint32(len(data)) > fw.maxSize {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(data), fw.maxSize)
	}

	frame := make([]byte, LengthPrefixSize+len(data))
	binary.BigEndian.PutUint32(frame, uint32(len(data)))
	copy(frame[LengthPrefixSize:], data)

	fw.mu.Lock()
	defer fw.mu.Unlock()
	if _, err := fw.w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	fw.log.emit(data, log.DirectionOut)
	return nil
}

// FrameReader reads length-prefixed frames.
type FrameReader struct {
	r         io.Reader
	maxSize   uint32
	lengthBuf [LengthPrefixSize]byte
	log       frameLog
}

// NewFrameReader creates a frame reader with the default size limit.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r, maxSize: DefaultMaxMessageSize}
}

// SetLogger configures frame logging. Pass nil to disable it.
func (fr *FrameReader) SetLogger(logger log.Logger, sessionID string, role log.Role) {
	fr.log = frameLog{logger: logger, sessionID: sessionID, role: role}
}

// ReadFrame returns the next frame payload. A clean end of stream before the
// prefix returns io.EOF.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	if _, err := io.ReadFull(fr.r, fr.lengthBuf[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("read length prefix: %w", err)
	}

	length := binary.BigEndian.Uint32(fr.lengthBuf[:])
	if length == 0 {
		return nil, ErrMessageEmpty
	}
	if length > fr.maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, length, fr.maxSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return nil, ErrFrameTruncated
		}
		return nil, fmt.Errorf("read payload: %w", err)
	}

	fr.log.emit(payload, log.DirectionIn)
	return payload, nil
}

// Framer combines frame reading and writing over one stream.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer creates a framer. A maxSize of 0 selects DefaultMaxMessageSize.
func NewFramer(rw io.ReadWriter, maxSize uint32) *Framer {
	f := &Framer{FrameReader: NewFrameReader(rw), FrameWriter: NewFrameWriter(rw)}
	if maxSize > 0 {
		f.FrameReader.maxSize = maxSize
		f.FrameWriter.maxSize = maxSize
	}
	return f
}

// SetLogger configures logging for both directions.
func (f *Framer) SetLogger(logger log.Logger, sessionID string, role log.Role) {
	f.FrameReader.SetLogger(logger, sessionID, role)
	f.FrameWriter.SetLogger(logger, sessionID, role)
}
