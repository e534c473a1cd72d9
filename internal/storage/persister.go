package storage

import (
	"log"
	"sync"

	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/models"
)

// Exporter is the read side of the store that the persister snapshots.
type Exporter interface {
	Export() []models.Item
}

// Persister writes a full snapshot to its backend after every store change. Save failures are
// logged and reported through LastError; the in-memory state is never rolled back.
// Saves are serialized and each one exports the store as it is at that moment.
type Persister struct {
	mu      sync.Mutex
	backend Backend
	source  Exporter
	lastErr error
}

func NewPersister(backend Backend, source Exporter) *Persister {
	return &Persister{backend: backend, source: source}
}

// OnChange implements manager.Listener.
func (p *Persister) OnChange(ev manager.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.backend.Save(p.source.Export()); err != nil {
		p.lastErr = err
		log.Printf("persist after %s %s %d failed: %v", ev.Op, ev.Kind, ev.ID, err)
		return
	}
	p.lastErr = nil
}

// LastError returns the error of the most recent save, or nil if it succeeded.
func (p *Persister) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

var _ manager.Listener = (*Persister)(nil)
