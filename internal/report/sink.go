package report

import (
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Sink receives complete report blocks. Blocks from different runs may
// arrive from different goroutines.
type Sink interface {
	WriteBlock(run int, text string) error
}

// WriterSink writes blocks to an io.Writer, one block at a time
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// WriteBlock writes text as a single unit
func (s *WriterSink) WriteBlock(_ int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, text)
	return err
}

// LoggerSink logs each block as one record
type LoggerSink struct {
	log *slog.Logger
}

// NewLoggerSink creates a sink logging at info level
func NewLoggerSink(log *slog.Logger) *LoggerSink {
	return &LoggerSink{log: log}
}

func (s *LoggerSink) WriteBlock(run int, text string) error {
	text = strings.TrimSpace(text)
	if run > 0 {
		s.log.Info("run report", "run", run, "report", text)
		return nil
	}
	s.log.Info("simulation report", "report", text)
	return nil
}
