package manager

import (
	"fmt"
	"sort"
	"sync"

	"task-tracker-api/internal/history"
	"task-tracker-api/internal/models"
	"task-tracker-api/internal/schedule"
)

// Manager is the in-memory task store. It owns the task and epic maps, allocates ids and keeps
// the scheduling index and the view history in step with every mutation.
//
// All methods are safe for concurrent use. Items handed in are copied and items handed out are
// copies, so callers never hold a pointer into the store.
type Manager struct {
	mu sync.Mutex

	tasks  map[int]*models.Task
	epics  map[int]*models.Epic
	owners map[int]int // subtask id -> epic id

	index   *schedule.Index
	history *history.Tracker
	nextID  int

	listeners []Listener
}

// New returns an empty store. h receives an entry on every get-by-id; a nil h gets an
// unbounded tracker.
func New(h *history.Tracker) *Manager {
	if h == nil {
		h = history.New(history.Options{})
	}
	return &Manager{
		tasks:   make(map[int]*models.Task),
		epics:   make(map[int]*models.Epic),
		owners:  make(map[int]int),
		index:   schedule.New(),
		history: h,
		nextID:  1,
	}
}

func (m *Manager) allocID() int {
	id := m.nextID
	m.nextID++
	return id
}

// normalizeTask returns a validated private copy of t.
func normalizeTask(t *models.Task) (*models.Task, error) {
	out := t.Clone()
	if out.Status == "" {
		out.Status = models.StatusNew
	}
	if err := out.SetStatus(out.Status); err != nil {
		return nil, err
	}
	if err := out.Schedule.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// bindSubtask copies s under the given epic id.
func bindSubtask(s *models.Subtask, epicID int) (*models.Subtask, error) {
	task, err := normalizeTask(&s.Task)
	if err != nil {
		return nil, err
	}
	out := models.NewSubtask(s.Name, s.Description, epicID)
	out.Task = *task
	return out, nil
}

// CreateTask stores a copy of t under a fresh id, which is also written back to t.
// A nil t is ignored.
func (m *Manager) CreateTask(t *models.Task) (*models.Task, error) {
	if t == nil {
		return nil, nil
	}
	var created *models.Task
	err := m.mutate(func() ([]Event, error) {
		stored, err := normalizeTask(t)
		if err != nil {
			return nil, err
		}
		stored.ID = 0
		if m.index.Overlaps(stored) {
			return nil, fmt.Errorf("create task %q: %w", t.Name, ErrOverlapConflict)
		}
		stored.ID = m.allocID()
		m.tasks[stored.ID] = stored
		m.index.Put(stored)

		t.ID = stored.ID
		created = stored.Clone()
		return []Event{{Op: OpCreated, Kind: models.KindTask, ID: stored.ID}}, nil
	})
	return created, err
}

// CreateEpic stores a copy of e (name and description only) under a fresh id.
func (m *Manager) CreateEpic(e *models.Epic) (*models.Epic, error) {
	if e == nil {
		return nil, nil
	}
	var created *models.Epic
	err := m.mutate(func() ([]Event, error) {
		stored := models.NewEpic(e.Name, e.Description)
		stored.ID = m.allocID()
		m.epics[stored.ID] = stored

		e.ID = stored.ID
		created = stored.Clone()
		return []Event{{Op: OpCreated, Kind: models.KindEpic, ID: stored.ID}}, nil
	})
	return created, err
}

// CreateSubtask stores a copy of s inside its epic and refreshes the epic's derived fields.
func (m *Manager) CreateSubtask(s *models.Subtask) (*models.Subtask, error) {
	if s == nil {
		return nil, nil
	}
	var created *models.Subtask
	err := m.mutate(func() ([]Event, error) {
		epic, ok := m.epics[s.EpicID()]
		if !ok {
			return nil, fmt.Errorf("create subtask %q: epic %d: %w", s.Name, s.EpicID(), ErrReferentialIntegrity)
		}
		stored, err := bindSubtask(s, epic.ID)
		if err != nil {
			return nil, err
		}
		stored.ID = 0
		if m.index.Overlaps(stored) {
			return nil, fmt.Errorf("create subtask %q: %w", s.Name, ErrOverlapConflict)
		}
		stored.ID = m.allocID()
		epic.PutSubtask(stored)
		m.owners[stored.ID] = epic.ID
		m.index.Put(stored)

		s.ID = stored.ID
		created = stored.Clone()
		return []Event{{Op: OpCreated, Kind: models.KindSubtask, ID: stored.ID}}, nil
	})
	return created, err
}

// GetTaskByID returns a copy of the task and records the view in history.
func (m *Manager) GetTaskByID(id int) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	m.history.Record(t)
	return t.Clone(), nil
}

// GetEpicByID returns a copy of the epic and records the view in history.
func (m *Manager) GetEpicByID(id int) (*models.Epic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.epics[id]
	if !ok {
		return nil, fmt.Errorf("epic %d: %w", id, ErrNotFound)
	}
	m.history.Record(e)
	return e.Clone(), nil
}

// GetSubtaskByID returns a copy of the subtask and records the view in history.
func (m *Manager) GetSubtaskByID(id int) (*models.Subtask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subtask(id)
	if !ok {
		return nil, fmt.Errorf("subtask %d: %w", id, ErrNotFound)
	}
	m.history.Record(s)
	return s.Clone(), nil
}

func (m *Manager) subtask(id int) (*models.Subtask, bool) {
	epicID, ok := m.owners[id]
	if !ok {
		return nil, false
	}
	return m.epics[epicID].Subtask(id)
}

// UpdateTask replaces the stored task with the same id. Unknown ids are ignored and yield a nil
// task.
func (m *Manager) UpdateTask(t *models.Task) (*models.Task, error) {
	if t == nil {
		return nil, nil
	}
	var updated *models.Task
	err := m.mutate(func() ([]Event, error) {
		if _, ok := m.tasks[t.ID]; !ok {
			return nil, nil
		}
		stored, err := normalizeTask(t)
		if err != nil {
			return nil, err
		}
		if m.index.Overlaps(stored) {
			return nil, fmt.Errorf("update task %d: %w", t.ID, ErrOverlapConflict)
		}
		m.index.Remove(stored.ID)
		m.tasks[stored.ID] = stored
		m.index.Put(stored)

		updated = stored.Clone()
		return []Event{{Op: OpUpdated, Kind: models.KindTask, ID: stored.ID}}, nil
	})
	return updated, err
}

// UpdateEpic replaces the name and description of the stored epic. Status and schedule stay
// derived from the subtasks.
func (m *Manager) UpdateEpic(e *models.Epic) (*models.Epic, error) {
	if e == nil {
		return nil, nil
	}
	var updated *models.Epic
	err := m.mutate(func() ([]Event, error) {
		stored, ok := m.epics[e.ID]
		if !ok {
			return nil, nil
		}
		stored.Name = e.Name
		stored.Description = e.Description

		updated = stored.Clone()
		return []Event{{Op: OpUpdated, Kind: models.KindEpic, ID: stored.ID}}, nil
	})
	return updated, err
}

// UpdateSubtask replaces the stored subtask with the same id. The subtask stays with the epic
// it was created under.
func (m *Manager) UpdateSubtask(s *models.Subtask) (*models.Subtask, error) {
	if s == nil {
		return nil, nil
	}
	var updated *models.Subtask
	err := m.mutate(func() ([]Event, error) {
		epicID, ok := m.owners[s.ID]
		if !ok {
			return nil, nil
		}
		stored, err := bindSubtask(s, epicID)
		if err != nil {
			return nil, err
		}
		if m.index.Overlaps(stored) {
			return nil, fmt.Errorf("update subtask %d: %w", s.ID, ErrOverlapConflict)
		}
		m.index.Remove(stored.ID)
		m.epics[epicID].PutSubtask(stored)
		m.index.Put(stored)

		updated = stored.Clone()
		return []Event{{Op: OpUpdated, Kind: models.KindSubtask, ID: stored.ID}}, nil
	})
	return updated, err
}

// DeleteTaskByID removes the task from the store, the schedule and history.
func (m *Manager) DeleteTaskByID(id int) {
	_ = m.mutate(func() ([]Event, error) {
		if _, ok := m.tasks[id]; !ok {
			return nil, nil
		}
		m.dropTask(id)
		return []Event{{Op: OpDeleted, Kind: models.KindTask, ID: id}}, nil
	})
}

// DeleteEpicByID removes the epic and every one of its subtasks.
func (m *Manager) DeleteEpicByID(id int) {
	_ = m.mutate(func() ([]Event, error) {
		if _, ok := m.epics[id]; !ok {
			return nil, nil
		}
		m.dropEpic(id)
		return []Event{{Op: OpDeleted, Kind: models.KindEpic, ID: id}}, nil
	})
}

// DeleteSubtaskByID removes the subtask and refreshes its epic's derived fields.
func (m *Manager) DeleteSubtaskByID(id int) {
	_ = m.mutate(func() ([]Event, error) {
		epicID, ok := m.owners[id]
		if !ok {
			return nil, nil
		}
		m.epics[epicID].RemoveSubtask(id)
		m.forgetSubtask(id)
		return []Event{{Op: OpDeleted, Kind: models.KindSubtask, ID: id}}, nil
	})
}

// ClearTasks removes every task from the store, the schedule and history.
func (m *Manager) ClearTasks() {
	_ = m.mutate(func() ([]Event, error) {
		for id := range m.tasks {
			m.dropTask(id)
		}
		return []Event{{Op: OpCleared, Kind: models.KindTask}}, nil
	})
}

// ClearEpics removes every epic together with all subtasks.
func (m *Manager) ClearEpics() {
	_ = m.mutate(func() ([]Event, error) {
		for id := range m.epics {
			m.dropEpic(id)
		}
		return []Event{{Op: OpCleared, Kind: models.KindEpic}}, nil
	})
}

// ClearSubtasks removes every subtask; each epic returns to NEW with no schedule.
func (m *Manager) ClearSubtasks() {
	_ = m.mutate(func() ([]Event, error) {
		for id := range m.owners {
			m.forgetSubtask(id)
		}
		for _, e := range m.epics {
			e.ClearSubtasks()
		}
		return []Event{{Op: OpCleared, Kind: models.KindSubtask}}, nil
	})
}

func (m *Manager) dropTask(id int) {
	m.index.Remove(id)
	m.history.Remove(id)
	delete(m.tasks, id)
}

func (m *Manager) dropEpic(id int) {
	for _, s := range m.epics[id].Subtasks() {
		m.forgetSubtask(s.ID)
	}
	m.history.Remove(id)
	delete(m.epics, id)
}

// forgetSubtask clears the index, history and owner entries of a subtask. The caller updates
// the epic itself.
func (m *Manager) forgetSubtask(id int) {
	m.index.Remove(id)
	m.history.Remove(id)
	delete(m.owners, id)
}

// GetTasks returns copies of all tasks ordered by id.
func (m *Manager) GetTasks() []*models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Task, 0, len(m.tasks))
	for _, id := range sortedKeys(m.tasks) {
		out = append(out, m.tasks[id].Clone())
	}
	return out
}

// GetEpics returns copies of all epics ordered by id.
func (m *Manager) GetEpics() []*models.Epic {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Epic, 0, len(m.epics))
	for _, id := range sortedKeys(m.epics) {
		out = append(out, m.epics[id].Clone())
	}
	return out
}

// GetSubtasks returns copies of all subtasks ordered by id.
func (m *Manager) GetSubtasks() []*models.Subtask {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Subtask, 0, len(m.owners))
	for _, id := range sortedKeys(m.owners) {
		s, _ := m.subtask(id)
		out = append(out, s.Clone())
	}
	return out
}

// GetSubtasksOfEpic returns copies of the epic's subtasks ordered by id.
func (m *Manager) GetSubtasksOfEpic(epicID int) ([]*models.Subtask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.epics[epicID]
	if !ok {
		return nil, fmt.Errorf("epic %d: %w", epicID, ErrNotFound)
	}
	subs := e.Subtasks()
	out := make([]*models.Subtask, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.Clone())
	}
	return out, nil
}

// GetPrioritizedTasks returns the scheduled tasks and subtasks, earliest start first.
func (m *Manager) GetPrioritizedTasks() []models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.index.Ascend()
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		out = append(out, it.Snapshot())
	}
	return out
}

// GetHistory returns the viewed items, most recent first.
func (m *Manager) GetHistory() []models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.List()
}

func sortedKeys[V any](in map[int]V) []int {
	keys := make([]int, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
