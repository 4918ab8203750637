package fancontrol

import (
	"errors"
	"sync"
	"time"
)

type fakeSource struct {
	temp  float64
	err   error
	reads int
}

func (f *fakeSource) ReadTemperature() (float64, error) {
	f.reads++
	return f.temp, f.err
}

type fakeSink struct {
	mu     sync.Mutex
	levels []int
	err    error
}

func (f *fakeSink) WriteLevel(level int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.levels = append(f.levels, level)
	return nil
}

func (f *fakeSink) written() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.levels...)
}

type recordCall struct {
	duty AppliedDuty
	at   time.Time
}

type fakeRecorder struct {
	calls []recordCall
	err   error
}

func (f *fakeRecorder) Record(d AppliedDuty, at time.Time) error {
	f.calls = append(f.calls, recordCall{duty: d, at: at})
	return f.err
}

var errBoom = errors.New("boom")

func intPtr(v int) *int { return &v }
