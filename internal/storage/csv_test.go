package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/models"

	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, time.July, 15, 21, 21, 0, 0, time.UTC)

func sampleStore(t *testing.T) *manager.Manager {
	t.Helper()
	m := manager.New(nil)
	task := models.NewTask("write report", "quarterly, draft")
	task.Schedule = models.NewSchedule(base, 90*time.Minute)
	_, err := m.CreateTask(task)
	require.NoError(t, err)
	_, err = m.CreateTask(models.NewTask("plain", ""))
	require.NoError(t, err)

	epic, err := m.CreateEpic(models.NewEpic("release", "v2"))
	require.NoError(t, err)
	sub := models.NewSubtask("tag", "git tag", epic.ID)
	sub.Status = models.StatusDone
	sub.Schedule = models.NewSchedule(base.Add(24*time.Hour), time.Hour)
	_, err = m.CreateSubtask(sub)
	require.NoError(t, err)
	return m
}

func utcFile(path string) *CSVFile {
	f := NewCSVFile(path)
	f.Location = time.UTC
	return f
}

func TestCSVFile_Encode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, utcFile("").Encode(&buf, sampleStore(t).Export()))

	want := strings.Join([]string{
		"id,type,name,status,description,start time,duration,epic",
		`1,TASK,write report,NEW,"quarterly, draft",15.07.2024 21:21,90`,
		"2,TASK,plain,NEW,,null,null",
		"3,EPIC,release,DONE,v2,16.07.2024 21:21,60",
		"4,SUBTASK,tag,DONE,git tag,16.07.2024 21:21,60,3",
		"",
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestCSVFile_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kanban_backup.csv")
	f := utcFile(path)
	src := sampleStore(t)
	require.NoError(t, f.Save(src.Export()))

	items, err := f.Load()
	require.NoError(t, err)

	dst := manager.New(nil)
	require.NoError(t, dst.Load(items))

	var want, got bytes.Buffer
	require.NoError(t, f.Encode(&want, src.Export()))
	require.NoError(t, f.Encode(&got, dst.Export()))
	require.Equal(t, want.String(), got.String())

	next, err := dst.CreateEpic(models.NewEpic("next", ""))
	require.NoError(t, err)
	require.Equal(t, 5, next.ID)
}

func TestCSVFile_MissingFileIsEmpty(t *testing.T) {
	items, err := utcFile(filepath.Join(t.TempDir(), "absent.csv")).Load()
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCSVFile_MalformedRows(t *testing.T) {
	cases := map[string]string{
		"bad id":       "x,TASK,a,NEW,,null,null\n",
		"bad kind":     "1,STORY,a,NEW,,null,null\n",
		"bad status":   "1,TASK,a,LATER,,null,null\n",
		"bad time":     "1,TASK,a,NEW,,2024-07-15,null\n",
		"short row":    "1,TASK,a\n",
		"orphan epic":  "1,SUBTASK,a,NEW,,null,null\n",
		"bad duration": "1,TASK,a,NEW,,null,soon\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			content := strings.Join(CSVHeader, ",") + "\n" + body
			_, err := utcFile("").Decode(strings.NewReader(content))
			require.Error(t, err)
			require.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestCSVFile_SaveFailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	f := utcFile(path)
	require.NoError(t, f.Save(sampleStore(t).Export()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// a directory in place of the target makes the rename fail
	blocked := utcFile(filepath.Join(dir, "blocked"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blocked", "child"), 0o755))
	require.Error(t, blocked.Save(nil))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, before, after)
}
