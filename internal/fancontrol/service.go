package fancontrol

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var newTicker = func(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Snapshot is the latest state observed by a Service.
type Snapshot struct {
	Running bool `json:"running"`
	Cycles  int  `json:"cycles"`

	TemperatureC   float64 `json:"temperature_c"`
	RequestedLevel int     `json:"requested_level"`
	AppliedLevel   int     `json:"applied_level"`

	LastUpdateAt time.Time `json:"last_update_utc,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
}

// CycleFunc observes the result of every cycle run by a Service.
type CycleFunc func(d AppliedDuty, err error)

// Service runs Controller cycles on a fixed interval from a single goroutine,
// so cycles never overlap. A failed cycle is reported and the next tick runs
// normally; no fallback level is written.
type Service struct {
	ctl      *Controller
	interval time.Duration
	onCycle  CycleFunc

	mu   sync.RWMutex
	snap Snapshot

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewService(ctl *Controller, interval time.Duration, onCycle CycleFunc) (*Service, error) {
	if ctl == nil {
		return nil, fmt.Errorf("fancontrol: controller is nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("fancontrol: invalid interval %s", interval)
	}
	return &Service{ctl: ctl, interval: interval, onCycle: onCycle, stopCh: make(chan struct{})}, nil
}

func (s *Service) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Start runs the first cycle immediately, then one per interval until ctx is
// done or Close is called. It does not block.
func (s *Service) Start(ctx context.Context) {
	s.setState(func(sn *Snapshot) { sn.Running = true })

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.setState(func(sn *Snapshot) { sn.Running = false })
		s.runLoop(ctx)
	}()
}

// Wait blocks until the loop has exited.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close stops the loop and waits for an in-flight cycle to finish.
func (s *Service) Close() {
	if s == nil {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *Service) setState(update func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(&s.snap)
	s.snap.LastUpdateAt = time.Now().UTC()
}

func (s *Service) runLoop(ctx context.Context) {
	tick, stop := newTicker(s.interval)
	defer stop()

	for {
		s.cycle(ctx)

		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-tick:
		}
	}
}

func (s *Service) cycle(ctx context.Context) {
	d, err := s.ctl.RunOnce(ctx)
	s.setState(func(sn *Snapshot) {
		sn.Cycles++
		if err != nil {
			sn.LastError = err.Error()
		} else {
			sn.LastError = ""
		}
		// A record failure still carries the applied duty.
		if err == nil || errors.Is(err, ErrRecord) {
			sn.TemperatureC = d.TemperatureC
			sn.RequestedLevel = d.RequestedLevel
			sn.AppliedLevel = d.AppliedLevel
		}
	})
	if s.onCycle != nil {
		s.onCycle(d, err)
	}
}
