package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"tamper_monitor/internal/models"
	"tamper_monitor/internal/repository"

	"github.com/stretchr/testify/require"
)

// recorder collects published notifications.
type recorder struct {
	mu  sync.Mutex
	got []Notification
}

func (r *recorder) listen(n Notification) {
	r.mu.Lock()
	r.got = append(r.got, n)
	r.mu.Unlock()
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.got))
	for i, n := range r.got {
		out[i] = n.Type
	}
	return out
}

// states returns the payloads of simulation_changed, in publish order.
func (r *recorder) states() []SimulationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []SimulationState
	for _, n := range r.got {
		if n.Type == SimulationChanged {
			out = append(out, n.Data.(SimulationState))
		}
	}
	return out
}

// slowKV delays every write and signals the first one.
type slowKV struct {
	*repository.KVMemory
	delay   time.Duration
	entered chan struct{}
	once    sync.Once
}

func newSlowKV(delay time.Duration) *slowKV {
	return &slowKV{KVMemory: repository.NewKVMemory(), delay: delay, entered: make(chan struct{})}
}

func (s *slowKV) Set(ctx context.Context, key, value string) error {
	s.once.Do(func() { close(s.entered) })
	time.Sleep(s.delay)
	return s.KVMemory.Set(ctx, key, value)
}

type fixture struct {
	history  *repository.HistoryKV
	notifier *Notifier
	rec      *recorder
	opts     Options
}

func newFixture(t *testing.T, draws ...float64) *fixture {
	t.Helper()
	f := &fixture{
		history:  repository.NewHistoryKV(repository.NewKVMemory(), "test", nil),
		notifier: NewNotifier(),
		rec:      &recorder{},
	}
	f.notifier.Subscribe(f.rec.listen)
	f.opts = Options{Location: time.UTC}
	if len(draws) > 0 {
		f.opts.Rand = sequence(draws...)
	}
	return f
}

// seed stores events so that the first argument ends up newest.
func (f *fixture) seed(t *testing.T, events ...models.Event) {
	t.Helper()
	for i := len(events) - 1; i >= 0; i-- {
		require.NoError(t, f.history.Add(context.Background(), events[i]))
	}
}

// sequence returns a Rand that cycles through draws.
func sequence(draws ...float64) func() float64 {
	var mu sync.Mutex
	i := 0
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		v := draws[i%len(draws)]
		i++
		return v
	}
}
