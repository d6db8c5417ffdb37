package store

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/studyplan-go/internal/task"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func bufferLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

func TestLoadMissingFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing.csv")

	tasks, err := Load(path, bufferLogger(&buf))
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.Contains(t, buf.String(), "Task file not found")
}

func TestLoadSkipsWrongFieldCount(t *testing.T) {
	path := writeFile(t, "Essay,History,2024-06-01,HIGH,False\nBroken,Row,2024-06-01\n")

	tasks, err := Load(path, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Essay", tasks[0].Name)
}

func TestLoadSkipsBadDate(t *testing.T) {
	var buf bytes.Buffer
	path := writeFile(t, strings.Join([]string{
		"Essay,History,2024-06-01,HIGH,False",
		"Late,History,June 1st,HIGH,False",
		"Quiz,Math,2024-05-20,LOW,True",
	}, "\n")+"\n")

	tasks, err := Load(path, bufferLogger(&buf))
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Essay", tasks[0].Name)
	assert.Equal(t, "Quiz", tasks[1].Name)
	assert.True(t, tasks[1].Completed)
	assert.Contains(t, buf.String(), "Skipping task")
	assert.Contains(t, buf.String(), "Late")
}

func TestLoadUnpaddedDates(t *testing.T) {
	path := writeFile(t, "Quiz,Math,2024-5-1,HIGH,False\n")

	s, err := Open(path, nil)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "2024-05-01", s.Tasks()[0].DueString())

	require.NoError(t, s.Save())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Quiz,Math,2024-05-01,HIGH,False\n", string(data))
}

func TestLoadKeepsFileOrder(t *testing.T) {
	path := writeFile(t, "c,s,2024-01-03,LOW,False\r\na,s,2024-01-01,HIGH,False\r\n\r\nb,s,2024-01-02,MEDIUM,True\r\n")

	tasks, err := Load(path, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "c", tasks[0].Name)
	assert.Equal(t, "a", tasks[1].Name)
	assert.Equal(t, "b", tasks[2].Name)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.csv")

	essay, err := task.New("Essay, part 1", "History", "2024-06-01", "high")
	require.NoError(t, err)
	quiz, err := task.New("Quiz", "Math", "2024-05-20", "LOW")
	require.NoError(t, err)
	quiz.Completed = true

	require.NoError(t, Save(path, []task.Task{essay, quiz}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\"Essay, part 1\",History,2024-06-01,HIGH,False\nQuiz,Math,2024-05-20,LOW,True\n", string(data))

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, task.Encode(essay), task.Encode(loaded[0]))
	assert.Equal(t, task.Encode(quiz), task.Encode(loaded[1]))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestSaveOverwrites(t *testing.T) {
	path := writeFile(t, "Old,Row,2024-01-01,LOW,False\nOther,Row,2024-01-01,LOW,False\n")

	fresh, err := task.New("New", "Row", "2024-02-02", "MEDIUM")
	require.NoError(t, err)
	require.NoError(t, Save(path, []task.Task{fresh}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "New,Row,2024-02-02,MEDIUM,False\n", string(data))
}

func TestSaveKeepsFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}

	tasks := []task.Task{}
	fresh := filepath.Join(t.TempDir(), "new.csv")
	require.NoError(t, Save(fresh, tasks))
	info, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	private := writeFile(t, "Old,Row,2024-01-01,LOW,False\n")
	require.NoError(t, os.Chmod(private, 0600))
	require.NoError(t, Save(private, tasks))
	info, err = os.Stat(private)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStoreComplete(t *testing.T) {
	path := writeFile(t, "Essay,History,2024-06-01,HIGH,False\nEssay,History,2024-06-01,HIGH,False\n")

	s, err := Open(path, nil)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	pending := s.Pending()
	require.Len(t, pending, 2)
	require.NotEqual(t, pending[0].ID, pending[1].ID)

	done, err := s.Complete(pending[1].ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	all := s.Tasks()
	assert.False(t, all[0].Completed, "value-equal task must not be completed")
	assert.True(t, all[1].Completed)

	_, err = s.Complete(pending[1].ID)
	assert.ErrorIs(t, err, ErrAlreadyComplete)

	_, err = s.Complete("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save())

	reloaded, err := Open(path, nil)
	require.NoError(t, err)
	rows := reloaded.Tasks()
	require.Len(t, rows, 2)
	assert.Equal(t, "False", task.Encode(rows[0])[4])
	assert.Equal(t, "True", task.Encode(rows[1])[4])
	assert.Len(t, reloaded.Pending(), 1)
}

func TestStoreAdd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	s, err := Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	added := s.Add(task.Task{Name: "Lab", Subject: "Physics", Priority: task.PriorityLow})
	assert.NotEmpty(t, added.ID)

	got, ok := s.Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, "Lab", got.Name)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "Add must not write the task file")
}

func TestStoreTasksReturnsCopy(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "tasks.csv"), nil)
	added := s.Add(task.Task{Name: "Lab", Priority: task.PriorityLow})

	tasks := s.Tasks()
	tasks[0].Completed = true

	got, ok := s.Get(added.ID)
	require.True(t, ok)
	assert.False(t, got.Completed)
}

func TestStoreOrdered(t *testing.T) {
	path := writeFile(t, "Essay,History,2024-06-01,HIGH,False\nQuiz,Math,2024-05-20,HIGH,False\nDone,Math,2024-01-01,HIGH,True\n")

	s, err := Open(path, nil)
	require.NoError(t, err)

	ordered := s.Ordered()
	require.Len(t, ordered, 2)
	assert.Equal(t, "Quiz", ordered[0].Name)
	assert.Equal(t, "Essay", ordered[1].Name)
}
