package service

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"tamper_monitor"
	"tamper_monitor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestClassify_Thresholds(t *testing.T) {
	cases := []struct {
		r    float64
		want string
	}{
		{0, tamper_monitor.StatusOK},
		{0.6499, tamper_monitor.StatusOK},
		{0.65, tamper_monitor.StatusWarn},
		{0.8999, tamper_monitor.StatusWarn},
		{0.9, tamper_monitor.StatusTamper},
		{0.9999, tamper_monitor.StatusTamper},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, classify(c.r), "r=%v", c.r)
	}
}

func TestClassify_Distribution(t *testing.T) {
	const draws = 100000
	rng := rand.New(rand.NewPCG(42, 7))
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		counts[classify(rng.Float64())]++
	}

	assert.InDelta(t, 0.65, float64(counts[tamper_monitor.StatusOK])/draws, 0.01)
	assert.InDelta(t, 0.25, float64(counts[tamper_monitor.StatusWarn])/draws, 0.01)
	assert.InDelta(t, 0.10, float64(counts[tamper_monitor.StatusTamper])/draws, 0.01)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "12.3", formatValue(12.34))
	assert.Equal(t, "0.0", formatValue(0))
	assert.Equal(t, "199.9", formatValue(199.94))
}

func TestGenerateOne_StoresAndNotifies(t *testing.T) {
	f := newFixture(t, 0.95, 0.5) // status draw, then value draw
	sim := NewSimulatorService(f.history, f.notifier, f.opts)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sim.now = func() time.Time { return fixed }

	ev, err := sim.GenerateOne(context.Background())
	require.NoError(t, err)

	assert.Equal(t, tamper_monitor.StatusTamper, ev.Status)
	assert.Equal(t, "100.0", ev.Value)
	assert.Equal(t, tamper_monitor.TamperNote, ev.Note)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", ev.Ts)
	assert.False(t, ev.Resolved)
	assert.Regexp(t, `^ev_[0-9a-f-]{36}$`, ev.ID)

	stored := f.history.Load(context.Background())
	require.Len(t, stored, 1)
	assert.Equal(t, ev, stored[0])
	assert.Equal(t, []string{HistoryChanged}, f.rec.types())
}

func TestGenerateOne_NonTamperHasEmptyNote(t *testing.T) {
	f := newFixture(t, 0.1, 0.25)
	sim := NewSimulatorService(f.history, f.notifier, f.opts)

	ev, err := sim.GenerateOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tamper_monitor.StatusOK, ev.Status)
	assert.Equal(t, "50.0", ev.Value)
	assert.Empty(t, ev.Note)
}

func TestSimulator_StartIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newFixture(t, 0.1)
	sim := NewSimulatorService(f.history, f.notifier, f.opts)

	require.True(t, sim.Start(time.Hour))
	require.False(t, sim.Start(time.Hour), "second Start must be a no-op")
	assert.True(t, sim.Running())

	// one immediate event from the first Start only
	assert.Len(t, f.history.Load(context.Background()), 1)

	require.True(t, sim.Stop())
	assert.False(t, sim.Running())
}

func TestSimulator_StopLeavesNoPendingTick(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newFixture(t, 0.1)
	sim := NewSimulatorService(f.history, f.notifier, f.opts)

	require.True(t, sim.Start(5*time.Millisecond))
	require.Eventually(t, func() bool {
		return len(f.history.Load(context.Background())) >= 3
	}, 2*time.Second, 5*time.Millisecond)

	require.True(t, sim.Stop())
	after := len(f.history.Load(context.Background()))
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, len(f.history.Load(context.Background())), "no ticks after Stop")
}

func TestSimulator_StopWhenIdleIsNoop(t *testing.T) {
	f := newFixture(t, 0.1)
	sim := NewSimulatorService(f.history, f.notifier, f.opts)

	assert.False(t, sim.Stop())
	assert.Empty(t, f.rec.types())
}

func TestSimulator_PublishesRunningState(t *testing.T) {
	f := newFixture(t, 0.1)
	sim := NewSimulatorService(f.history, f.notifier, f.opts)

	sim.Start(time.Hour)
	sim.Stop()

	assert.Equal(t, []SimulationState{{Running: true}, {Running: false}}, f.rec.states())
}

func TestSimulator_StopDuringFirstTickPublishesInOrder(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newFixture(t, 0.1)
	kv := newSlowKV(50 * time.Millisecond)
	f.history = repository.NewHistoryKV(kv, "test", nil)
	sim := NewSimulatorService(f.history, f.notifier, f.opts)

	started := make(chan bool, 1)
	go func() { started <- sim.Start(time.Hour) }()

	<-kv.entered
	stopped := sim.Stop()

	require.True(t, <-started)
	require.True(t, stopped)
	assert.False(t, sim.Running())

	states := f.rec.states()
	assert.Equal(t, []SimulationState{{Running: true}, {Running: false}}, states)
	assert.Equal(t, sim.Running(), states[len(states)-1].Running, "last published state matches Running()")
}

func TestSimulator_ZeroIntervalUsesConfiguredDefault(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newFixture(t, 0.1)
	f.opts.Interval = 5 * time.Millisecond
	sim := NewSimulatorService(f.history, f.notifier, f.opts)

	require.True(t, sim.Start(0))
	require.Eventually(t, func() bool {
		return len(f.history.Load(context.Background())) >= 3
	}, 2*time.Second, 5*time.Millisecond, "ticks follow the configured interval, not the 4s default")
	require.True(t, sim.Stop())
}

func TestSimulator_RestartAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newFixture(t, 0.1)
	sim := NewSimulatorService(f.history, f.notifier, f.opts)

	require.True(t, sim.Start(time.Hour))
	require.True(t, sim.Stop())
	require.True(t, sim.Start(time.Hour))
	require.True(t, sim.Stop())
	assert.Len(t, f.history.Load(context.Background()), 2)
}
