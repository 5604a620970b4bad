package bus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/ensemble/model/event"
)

func TestLoadReplay_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	service, err := New(WithLogDir(dir))
	require.NoError(t, err)

	service.Emit(event.TypeOrchestrationStarted, map[string]interface{}{"agent": "Orchestrator", "pattern": "chain"})
	service.Emit(event.TypeAgentStarted, map[string]interface{}{"agent": "Writer", "run_id": "abc12345"})
	service.Emit(event.TypeAgentCompleted, map[string]interface{}{"agent": "Writer", "run_id": "abc12345", "output": "done"})
	snapshot := service.Snapshot()
	require.NoError(t, service.Close())

	replayed, err := LoadReplay(context.Background(), service.LogPath())
	require.NoError(t, err)
	require.Len(t, replayed, len(snapshot))
	for i, anEvent := range replayed {
		assert.Equal(t, snapshot[i].Type, anEvent.Type)
		assert.Equal(t, snapshot[i].Seq, anEvent.Seq)
		assert.Equal(t, snapshot[i].Timestamp, anEvent.Timestamp)
		assert.Equal(t, snapshot[i].Agent(), anEvent.Agent())
		assert.Equal(t, snapshot[i].RunID(), anEvent.RunID())
	}
}

func TestLoadReplay_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	content := "\n{\"type\":\"agent_started\",\"data\":{\"agent\":\"a\"},\"seq\":0,\"timestamp\":1.5}\n\n" +
		"{\"type\":\"agent_completed\",\"data\":{\"agent\":\"a\"},\"seq\":1,\"timestamp\":2.5}\n\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	events, err := LoadReplay(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 0, events[0].Seq)
	assert.Equal(t, 1, events[1].Seq)
}

func TestLoadReplay_MalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	content := "{\"type\":\"agent_started\",\"data\":{},\"seq\":0,\"timestamp\":1}\nnot json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadReplay(context.Background(), path)
	require.Error(t, err)
	var formatErr *ReplayFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 2, formatErr.Line)
}

func TestLoadReplay_MissingFile(t *testing.T) {
	_, err := LoadReplay(context.Background(), filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)
}
