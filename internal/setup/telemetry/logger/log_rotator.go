package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// LogRotator writes log output to a file and keeps it bounded to the most recent lines.
// The file is compacted once twice the line limit has been written since the last compaction.
type LogRotator struct {
	mu       sync.Mutex
	file     io.WriteCloser
	path     string
	recent   *Ring[string]
	written  int
	maxLines int
}

// NewLogRotator creates a LogRotator over an already opened file.
func NewLogRotator(file io.WriteCloser, maxLines int, path string) *LogRotator {
	return &LogRotator{
		file:     file,
		path:     path,
		recent:   NewRing[string](maxLines),
		maxLines: max(maxLines, 1),
	}
}

// Write implements io.Writer.
func (w *LogRotator) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}

	for line := range bytes.SplitSeq(bytes.TrimRight(p, "\n"), []byte("\n")) {
		if len(line) == 0 {
			continue
		}

		w.recent.Push(string(line))
		w.written++

		if w.written >= w.maxLines*2 {
			if err := w.compact(); err != nil {
				return n, fmt.Errorf("failed to rotate log file: %w", err)
			}
			w.written = w.recent.Len()
		}
	}

	return n, nil
}

// compact replaces the file with only the retained lines and reopens it for appending.
func (w *LogRotator) compact() error {
	var buf bytes.Buffer
	for _, line := range w.recent.Items() {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	temp, err := os.CreateTemp(filepath.Dir(w.path), "temp-log-")
	if err != nil {
		return err
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return err
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return err
	}

	_ = w.file.Close()

	// Windows refuses to rename over an existing file
	_ = os.Remove(w.path)
	if err := os.Rename(tempPath, w.path); err != nil {
		return err
	}

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.file = file

	return nil
}
