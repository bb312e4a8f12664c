package service

import "sync"

// Notification kinds.
const (
	HistoryChanged    = "history_changed"
	SimulationChanged = "simulation_changed"
)

// Notification is delivered to every subscriber.
type Notification struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// SimulationState is the payload of simulation_changed.
type SimulationState struct {
	Running bool `json:"running"`
}

// Notifier fans notifications out to registered listeners. Listeners run
// synchronously on the publishing goroutine, so they must not block.
type Notifier struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Notification)
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Notification))}
}

var _ Notifications = (*Notifier)(nil)

// Subscribe registers fn and returns a func that removes it again.
func (n *Notifier) Subscribe(fn func(Notification)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Publish delivers msg to a snapshot of the current listeners.
func (n *Notifier) Publish(msg Notification) {
	n.mu.RLock()
	listeners := make([]func(Notification), 0, len(n.subs))
	for _, fn := range n.subs {
		listeners = append(listeners, fn)
	}
	n.mu.RUnlock()

	for _, fn := range listeners {
		fn(msg)
	}
}

func (n *Notifier) historyChanged() {
	n.Publish(Notification{Type: HistoryChanged})
}

func (n *Notifier) simulationChanged(running bool) {
	n.Publish(Notification{Type: SimulationChanged, Data: SimulationState{Running: running}})
}
