package manager

import (
	"fmt"

	"task-tracker-api/internal/models"
	"task-tracker-api/internal/schedule"
)

// Export returns every stored item in a stable order: tasks by id, then each epic by id
// immediately followed by its subtasks by id. Epics carry their derived fields.
func (m *Manager) Export() []models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Item, 0, len(m.tasks)+len(m.epics)+len(m.owners))
	for _, id := range sortedKeys(m.tasks) {
		out = append(out, m.tasks[id].Clone())
	}
	for _, id := range sortedKeys(m.epics) {
		e := m.epics[id]
		out = append(out, e.Clone())
		for _, s := range e.Subtasks() {
			out = append(out, s.Clone())
		}
	}
	return out
}

// Load replaces the whole store with items, which already carry their ids. Overlap checks are
// skipped; the id counter continues after the largest id seen and history starts empty.
// On error the store is left untouched.
func (m *Manager) Load(items []models.Item) error {
	return m.mutate(func() ([]Event, error) {
		tasks := make(map[int]*models.Task)
		epics := make(map[int]*models.Epic)
		owners := make(map[int]int)
		seen := make(map[int]struct{})
		maxID := 0

		claim := func(id int) error {
			if id <= 0 {
				return fmt.Errorf("load: %w: %d", ErrInvalidID, id)
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("load: %w: %d", ErrDuplicateID, id)
			}
			seen[id] = struct{}{}
			if id > maxID {
				maxID = id
			}
			return nil
		}

		// Epics first so subtasks may precede their epic in the input.
		for _, it := range items {
			e, ok := it.(*models.Epic)
			if !ok || e == nil {
				continue
			}
			if err := claim(e.ID); err != nil {
				return nil, err
			}
			fresh := models.NewEpic(e.Name, e.Description)
			fresh.ID = e.ID
			epics[e.ID] = fresh
		}

		idx := schedule.New()
		for _, it := range items {
			switch v := it.(type) {
			case *models.Task:
				if v == nil {
					continue
				}
				if err := claim(v.ID); err != nil {
					return nil, err
				}
				t, err := normalizeTask(v)
				if err != nil {
					return nil, fmt.Errorf("load task %d: %w", v.ID, err)
				}
				tasks[t.ID] = t
				idx.Put(t)
			case *models.Subtask:
				if v == nil {
					continue
				}
				if err := claim(v.ID); err != nil {
					return nil, err
				}
				epic, ok := epics[v.EpicID()]
				if !ok {
					return nil, fmt.Errorf("load subtask %d: epic %d: %w", v.ID, v.EpicID(), ErrReferentialIntegrity)
				}
				s, err := bindSubtask(v, epic.ID)
				if err != nil {
					return nil, fmt.Errorf("load subtask %d: %w", v.ID, err)
				}
				epic.PutSubtask(s)
				owners[s.ID] = epic.ID
				idx.Put(s)
			}
		}

		m.tasks = tasks
		m.epics = epics
		m.owners = owners
		m.index = idx
		m.history.Clear()
		m.nextID = maxID + 1
		return []Event{{Op: OpLoaded}}, nil
	})
}
