package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTask_Defaults(t *testing.T) {
	task := NewTask("name", "desc")
	require.Equal(t, StatusNew, task.State())
	require.False(t, task.Timing().Scheduled())
	_, ok := task.EndTime()
	require.False(t, ok)
}

func TestTask_SetStatus(t *testing.T) {
	task := NewTask("name", "desc")
	require.NoError(t, task.SetStatus(StatusInProgress))
	require.Equal(t, StatusInProgress, task.Status)
	require.ErrorIs(t, task.SetStatus("PAUSED"), ErrInvalidStatus)
	require.Equal(t, StatusInProgress, task.Status)
}

func TestTask_SetScheduleRejectsNegativeDuration(t *testing.T) {
	task := NewTask("name", "desc")
	require.ErrorIs(t, task.SetSchedule(NewSchedule(base, -time.Minute)), ErrInvalidDuration)
	require.NoError(t, task.SetSchedule(NewSchedule(base, 90*time.Minute)))
	end, ok := task.EndTime()
	require.True(t, ok)
	require.True(t, end.Equal(base.Add(90*time.Minute)))
}

func TestTask_CloneIsIndependent(t *testing.T) {
	task := NewTask("name", "desc")
	task.ID = 7
	require.NoError(t, task.SetSchedule(NewSchedule(base, time.Hour)))

	c := task.Clone()
	*task.Schedule.Start = base.Add(time.Hour)
	task.Status = StatusDone

	require.True(t, c.Schedule.Start.Equal(base))
	require.Equal(t, StatusNew, c.Status)
	require.True(t, SameItem(task, c))
}

func TestSubtask_KeepsEpicAndKind(t *testing.T) {
	s := NewSubtask("sub", "desc", 3)
	s.ID = 4
	snap := s.Snapshot()
	require.Equal(t, KindSubtask, snap.Kind())
	clone, ok := snap.(*Subtask)
	require.True(t, ok)
	require.Equal(t, 3, clone.EpicID())
}

func TestSameItem_ComparesIdentityOnly(t *testing.T) {
	a := NewTask("a", "first")
	a.ID = 1
	b := NewTask("b", "second")
	b.ID = 1
	b.Status = StatusDone
	require.True(t, SameItem(a, b))

	b.ID = 2
	require.False(t, SameItem(a, b))
}

func TestParseStatusAndKind(t *testing.T) {
	s, err := ParseStatus("in_progress")
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, s)

	k, err := ParseKind("Epic")
	require.NoError(t, err)
	require.Equal(t, KindEpic, k)

	_, err = ParseKind("story")
	require.ErrorIs(t, err, ErrInvalidKind)
}
