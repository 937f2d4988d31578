// Package activitylog is the append-only, human readable audit trail of IPN traffic.
package activitylog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Mirror receives every formatted entry after it was written to the file.
type Mirror interface {
	Publish(line string)
}

// FileLog appends "[timestamp] message" lines to a single file opened for the process lifetime.
type FileLog struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	mirrors []Mirror
	logger  *slog.Logger
	now     func() time.Time
}

func Open(path string, logger *slog.Logger, mirrors ...Mirror) (*FileLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open activity log %s: %w", path, err)
	}

	return &FileLog{
		path:    path,
		file:    f,
		mirrors: mirrors,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Record appends one entry. Write failures go to the process logger only.
func (l *FileLog) Record(message string) {
	line := fmt.Sprintf("[%s] %s\n", l.now().UTC().Format(timestampLayout), message)

	l.mu.Lock()
	_, err := l.file.WriteString(line)
	if err == nil {
		err = l.file.Sync()
	}
	l.mu.Unlock()

	if err != nil {
		l.logger.Error("failed to append activity log entry", "path", l.path, "error", err)
	}

	for _, m := range l.mirrors {
		m.Publish(line)
	}
}

func (l *FileLog) Read() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read activity log: %w", err)
	}
	return data, nil
}

// Clear truncates the log and records the clear action itself.
func (l *FileLog) Clear() error {
	l.mu.Lock()
	err := l.file.Truncate(0)
	l.mu.Unlock()

	if err != nil {
		return fmt.Errorf("truncate activity log: %w", err)
	}

	l.Record("activity log cleared")
	return nil
}

func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
