package fancontrol

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// manualTicker replaces the service ticker so tests decide when cycles run.
func manualTicker(t *testing.T) chan time.Time {
	t.Helper()
	ch := make(chan time.Time)
	old := newTicker
	newTicker = func(time.Duration) (<-chan time.Time, func()) { return ch, func() {} }
	t.Cleanup(func() { newTicker = old })
	return ch
}

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(nil, time.Second, nil)
	require.Error(t, err)

	c, err := NewController(defaultSettings(), &fakeSource{}, &fakeSink{})
	require.NoError(t, err)
	_, err = NewService(c, 0, nil)
	require.Error(t, err)
}

func TestService_RunsCyclesSerially(t *testing.T) {
	tick := manualTicker(t)
	sink := &fakeSink{}
	src := &fakeSource{temp: 55}
	c, err := NewController(defaultSettings(), src, sink)
	require.NoError(t, err)

	type result struct {
		duty AppliedDuty
		err  error
	}
	cycles := make(chan result, 4)
	svc, err := NewService(c, time.Second, func(d AppliedDuty, err error) {
		cycles <- result{duty: d, err: err}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	// First cycle runs immediately.
	select {
	case r := <-cycles:
		require.NoError(t, r.err)
		require.Equal(t, 191, r.duty.AppliedLevel)
	case <-time.After(time.Second):
		t.Fatalf("expected an immediate cycle")
	}

	tick <- time.Now()
	select {
	case r := <-cycles:
		require.NoError(t, r.err)
	case <-time.After(time.Second):
		t.Fatalf("expected a cycle per tick")
	}

	svc.Close()
	snap := svc.Snapshot()
	require.False(t, snap.Running)
	require.Equal(t, 2, snap.Cycles)
	require.Equal(t, 55.0, snap.TemperatureC)
	require.Equal(t, 191, snap.AppliedLevel)
	require.Empty(t, snap.LastError)
	require.Equal(t, []int{191, 191}, sink.written())
}

func TestService_ErrorDoesNotWriteFallback(t *testing.T) {
	manualTicker(t)
	sink := &fakeSink{}
	c, err := NewController(defaultSettings(), &fakeSource{err: ErrSensorUnavailable}, sink)
	require.NoError(t, err)

	errs := make(chan error, 1)
	svc, err := NewService(c, time.Second, func(_ AppliedDuty, err error) { errs <- err })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)

	select {
	case err := <-errs:
		require.ErrorIs(t, err, ErrSensorUnavailable)
	case <-time.After(time.Second):
		t.Fatalf("expected a failed cycle")
	}

	cancel()
	svc.Wait()
	require.Empty(t, sink.written())
	require.Contains(t, svc.Snapshot().LastError, "sensor unavailable")
}
