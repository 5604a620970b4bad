package bus

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/ensemble/model/event"
)

type recordingClient struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
}

func (c *recordingClient) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return fmt.Errorf("peer closed connection")
	}
	c.frames = append(c.frames, data)
	return nil
}

func (c *recordingClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

func TestService_EmitSequencing(t *testing.T) {
	service, err := New()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		service.Emit(event.TypeAgentMessage, map[string]interface{}{"agent": fmt.Sprintf("a%d", i)})
	}
	events := service.Snapshot()
	require.Len(t, events, 5)
	for i, anEvent := range events {
		assert.Equal(t, i, anEvent.Seq)
		assert.Equal(t, string(event.TypeAgentMessage), anEvent.Type)
	}
}

func TestService_EmitConcurrentSeqUnique(t *testing.T) {
	service, err := New()
	require.NoError(t, err)

	concurrency := 20
	perProducer := 25
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				service.Emit(event.TypeAgentMessage, map[string]interface{}{"agent": fmt.Sprintf("p%d", id)})
			}
		}(i)
	}
	wg.Wait()

	events := service.Snapshot()
	require.Len(t, events, concurrency*perProducer)
	seen := map[int]bool{}
	for _, anEvent := range events {
		assert.False(t, seen[anEvent.Seq], "seq %d assigned twice", anEvent.Seq)
		seen[anEvent.Seq] = true
	}
	for i := 0; i < len(events); i++ {
		assert.True(t, seen[i], "seq %d missing", i)
	}
}

func TestService_SnapshotIsolation(t *testing.T) {
	service, err := New()
	require.NoError(t, err)

	service.Emit(event.TypeAgentStarted, map[string]interface{}{"agent": "a"})
	before := service.Snapshot()
	service.Emit(event.TypeAgentCompleted, map[string]interface{}{"agent": "a"})

	assert.Len(t, before, 1)
	assert.Len(t, service.Snapshot(), 2)
}

func TestService_TimestampFromData(t *testing.T) {
	service, err := New()
	require.NoError(t, err)

	anEvent := service.Emit(event.TypeAgentStarted, map[string]interface{}{"agent": "a", "timestamp": 42.5})
	assert.Equal(t, 42.5, anEvent.Timestamp)
}

func TestService_SubscriberPanicIsolated(t *testing.T) {
	service, err := New()
	require.NoError(t, err)

	var order []string
	service.Subscribe(func(e *event.Event) { order = append(order, "first") })
	service.Subscribe(func(e *event.Event) { panic("boom") })
	service.Subscribe(func(e *event.Event) { order = append(order, "third") })
	client := &recordingClient{}
	service.RegisterLive(client)

	assert.NotPanics(t, func() {
		service.Emit(event.TypeAgentMessage, map[string]interface{}{"agent": "a"})
	})
	assert.Equal(t, []string{"first", "third"}, order)
	assert.Equal(t, 1, client.count())
}

func TestService_Unsubscribe(t *testing.T) {
	service, err := New()
	require.NoError(t, err)

	calls := 0
	id := service.Subscribe(func(e *event.Event) { calls++ })
	service.Emit(event.TypeAgentMessage, map[string]interface{}{"agent": "a"})
	service.Unsubscribe(id)
	service.Unsubscribe(id) // unknown token is a no-op
	service.Emit(event.TypeAgentMessage, map[string]interface{}{"agent": "a"})
	assert.Equal(t, 1, calls)
}

func TestService_LiveClientDroppedOnFailure(t *testing.T) {
	service, err := New()
	require.NoError(t, err)

	healthy := &recordingClient{}
	broken := &recordingClient{fail: true}
	service.RegisterLive(healthy)
	service.RegisterLive(broken)

	service.Emit(event.TypeAgentMessage, map[string]interface{}{"agent": "a"})
	service.Emit(event.TypeAgentMessage, map[string]interface{}{"agent": "b"})

	assert.Equal(t, 2, healthy.count())
	// the broken client was dropped after the first failed push
	service.mu.Lock()
	_, stillRegistered := service.live[broken]
	service.mu.Unlock()
	assert.False(t, stillRegistered)
}

func TestService_LateLiveClientMissesHistory(t *testing.T) {
	service, err := New()
	require.NoError(t, err)

	service.Emit(event.TypeAgentStarted, map[string]interface{}{"agent": "a"})
	client := &recordingClient{}
	service.RegisterLive(client)
	service.Emit(event.TypeAgentCompleted, map[string]interface{}{"agent": "a"})

	assert.Equal(t, 1, client.count())
}

func TestService_Clear(t *testing.T) {
	service, err := New(WithLogDir(t.TempDir()))
	require.NoError(t, err)
	defer service.Close()

	service.Emit(event.TypeAgentStarted, map[string]interface{}{"agent": "a"})
	logPath := service.LogPath()
	service.Clear()

	assert.Empty(t, service.Snapshot())
	assert.Equal(t, logPath, service.LogPath())
	// clearing starts a fresh in-memory run: seq restarts from zero
	anEvent := service.Emit(event.TypeAgentStarted, map[string]interface{}{"agent": "b"})
	assert.Equal(t, 0, anEvent.Seq)
}
