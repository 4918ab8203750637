package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"fanctl/internal/fancontrol"
)

// DefaultFilename is the log file name used when no path is configured.
const DefaultFilename = "fan_controller.log"

// TimestampLayout matches a local wall clock with microseconds.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// FileRecorder appends observations to a text file. The file is opened per
// record, so it can be rotated externally between cycles.
type FileRecorder struct {
	// path is the log file location.
	path string
	// mu serializes appends from the same process.
	mu sync.Mutex
}

// NewFileRecorder returns a recorder for path.
func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: filepath.Clean(path)}
}

// Path returns the log file location.
func (r *FileRecorder) Path() string {
	return r.path
}

// Record appends one line for d.
func (r *FileRecorder) Record(d fancontrol.AppliedDuty, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	if _, err := f.WriteString(FormatLine(d, at)); err != nil {
		_ = f.Close()
		return fmt.Errorf("append history: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	return nil
}

// FormatLine renders d as a single newline-terminated log line.
func FormatLine(d fancontrol.AppliedDuty, at time.Time) string {
	return fmt.Sprintf("%s - Temperature: %sC - fanPWM: %d\n",
		at.Format(TimestampLayout), FormatTemperature(d.TemperatureC), d.AppliedLevel)
}

// FormatTemperature prints the shortest exact decimal, always with a
// fractional part ("55.0", "52.345").
func FormatTemperature(c float64) string {
	s := strconv.FormatFloat(c, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// DefaultPath places DefaultFilename next to the running executable,
// falling back to the working directory.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultFilename
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultFilename)
}
