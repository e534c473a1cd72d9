package models

// Subtask is a task owned by exactly one epic. The owning epic id is fixed at construction.
type Subtask struct {
	Task
	epicID int
}

func NewSubtask(name, description string, epicID int) *Subtask {
	return &Subtask{
		Task:   *NewTask(name, description),
		epicID: epicID,
	}
}

func (s *Subtask) EpicID() int { return s.epicID }
func (s *Subtask) Kind() Kind  { return KindSubtask }

func (s *Subtask) Clone() *Subtask {
	return &Subtask{
		Task:   *s.Task.Clone(),
		epicID: s.epicID,
	}
}

func (s *Subtask) Snapshot() Item { return s.Clone() }
