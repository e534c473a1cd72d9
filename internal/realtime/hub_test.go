package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"task-tracker-api/internal/history"
	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/models"
)

type fakeClient struct {
	mu     sync.Mutex
	msgs   [][]byte
	full   bool
	closed bool
}

func (f *fakeClient) Send(message []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full || f.closed {
		return false
	}
	f.msgs = append(f.msgs, message)
	return true
}

func (f *fakeClient) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeClient) messages(t *testing.T) []Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, 0, len(f.msgs))
	for _, raw := range f.msgs {
		var m Message
		require.NoError(t, json.Unmarshal(raw, &m))
		out = append(out, m)
	}
	return out
}

func TestHub_RegisterBroadcastUnregister(t *testing.T) {
	h := NewHub()
	a, b := &fakeClient{}, &fakeClient{}
	h.Register(a)
	h.Register(b)
	require.Equal(t, 2, h.Len())

	h.Broadcast([]byte(`{}`))
	h.Unregister(b)
	h.Broadcast([]byte(`{}`))

	require.Len(t, a.msgs, 2)
	require.Len(t, b.msgs, 1)
	require.Equal(t, 1, h.Len())
}

func TestHub_ListensToManager(t *testing.T) {
	h := NewHub()
	h.newID = func() string { return "fixed" }
	c := &fakeClient{}
	h.Register(c)

	m := manager.New(history.New(history.Options{}))
	m.Subscribe(h)

	task, err := m.CreateTask(models.NewTask("write", ""))
	require.NoError(t, err)
	m.DeleteTaskByID(task.ID)
	require.NoError(t, m.Load(nil))

	got := c.messages(t)
	require.Equal(t, []Message{
		{ID: "fixed", Type: "task_created", Kind: "TASK", ItemID: task.ID, Version: 1},
		{ID: "fixed", Type: "task_deleted", Kind: "TASK", ItemID: task.ID, Version: 1},
		{ID: "fixed", Type: "store_loaded", Version: 1},
	}, got)
}

func TestMessageFor_UniqueIDs(t *testing.T) {
	h := NewHub()
	ev := manager.Event{Op: manager.OpUpdated, Kind: models.KindEpic, ID: 3}
	first, second := h.MessageFor(ev), h.MessageFor(ev)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, "epic_updated", first.Type)
}

func TestHub_DropsClientsThatCannotKeepUp(t *testing.T) {
	h := NewHub()
	healthy, stalled := &fakeClient{}, &fakeClient{full: true}
	h.Register(healthy)
	h.Register(stalled)

	h.Broadcast([]byte(`{}`))
	require.Equal(t, 1, h.Len())
	require.True(t, stalled.closed)
	require.False(t, healthy.closed)

	h.Broadcast([]byte(`{}`))
	require.Len(t, healthy.msgs, 2)
	require.Empty(t, stalled.msgs)
}
