package manager

import "task-tracker-api/internal/models"

// Op names the kind of change a mutation made.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
	OpCleared Op = "cleared"
	OpLoaded  Op = "loaded"
)

// Event describes one successful mutation. ID is zero for bulk operations.
type Event struct {
	Op   Op
	Kind models.Kind
	ID   int
}

// Listener is notified after a mutation has been applied and the store lock released.
type Listener interface {
	OnChange(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnChange(e Event) { f(e) }

// Subscribe registers l. Listeners run synchronously, in registration order.
func (m *Manager) Subscribe(l Listener) {
	if l == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// mutate runs fn under the store lock and delivers the resulting events once the lock is
// released, so listeners may call back into the manager.
func (m *Manager) mutate(fn func() ([]Event, error)) error {
	m.mu.Lock()
	events, err := fn()
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()

	if err != nil {
		return err
	}
	for _, ev := range events {
		for _, l := range listeners {
			l.OnChange(ev)
		}
	}
	return nil
}
