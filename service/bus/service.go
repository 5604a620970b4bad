// Package bus implements the per-run event hub: ordered emission, JSONL log
// persistence, in-process subscriber callbacks and best-effort fan-out to live
// subscribers. One Service instance covers exactly one run; a new run either
// clears the instance or replaces it.
package bus

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/viant/ensemble/internal/clock"
	"github.com/viant/ensemble/model/event"
)

// Callback observes every emitted event in-process. A panicking callback is
// isolated; it never affects emission or other subscribers.
type Callback func(*event.Event)

// LiveClient receives every emitted event as one serialized JSON frame. A
// client whose Send fails is silently dropped from the fan-out set.
type LiveClient interface {
	Send(data []byte) error
}

// Service is the per-run event bus.
type Service struct {
	mu          sync.Mutex
	events      []*event.Event
	subscribers []subscription
	live        map[LiveClient]bool
	nextID      int
	logPath     string
	logFile     *os.File
}

type subscription struct {
	id       int
	callback Callback
}

// Option customises a bus instance.
type Option func(s *Service) error

// WithLogDir enables JSONL logging for this bus instance. The run log is
// created eagerly under dir with a timestamp-based name.
func WithLogDir(dir string) Option {
	return func(s *Service) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log dir %s: %w", dir, err)
		}
		name := fmt.Sprintf("run_%s.jsonl", clock.Now().Format("20060102_150405"))
		logPath := filepath.Join(dir, name)
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open run log %s: %w", logPath, err)
		}
		s.logPath = logPath
		s.logFile = file
		return nil
	}
}

// New creates a bus. Without options the bus keeps events in memory only.
func New(options ...Option) (*Service, error) {
	s := &Service{live: make(map[LiveClient]bool)}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Emit sequences and publishes an event. Seq assignment, in-memory append and
// the log line write happen atomically; subscriber callbacks and live fan-out
// run afterwards on the emitting goroutine.
func (s *Service) Emit(eventType event.Type, data map[string]interface{}) *event.Event {
	anEvent := event.New(eventType, data)

	s.mu.Lock()
	anEvent.Seq = len(s.events)
	s.events = append(s.events, anEvent)
	serialized, err := json.Marshal(anEvent)
	if err == nil && s.logFile != nil {
		if _, wErr := s.logFile.Write(append(serialized, '\n')); wErr != nil {
			log.Printf("failed to append run log line: %v", wErr)
		}
	}
	subscribers := make([]subscription, len(s.subscribers))
	copy(subscribers, s.subscribers)
	clients := make([]LiveClient, 0, len(s.live))
	for client := range s.live {
		clients = append(clients, client)
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("failed to serialize event seq %d: %v", anEvent.Seq, err)
	}

	for _, sub := range subscribers {
		s.notify(sub.callback, anEvent)
	}

	if len(clients) > 0 && serialized != nil {
		for _, client := range clients {
			if sendErr := client.Send(serialized); sendErr != nil {
				s.UnregisterLive(client)
			}
		}
	}
	return anEvent
}

// notify invokes a single callback, swallowing panics so one misbehaving
// subscriber cannot abort emission.
func (s *Service) notify(callback Callback, anEvent *event.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event subscriber panicked: %v", r)
		}
	}()
	callback(anEvent)
}

// Subscribe registers an in-process callback and returns a token for
// Unsubscribe. Callbacks run in registration order.
func (s *Service) Subscribe(callback Callback) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.subscribers = append(s.subscribers, subscription{id: s.nextID, callback: callback})
	return s.nextID
}

// Unsubscribe removes a previously registered callback; an unknown token is a
// no-op.
func (s *Service) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub.id == id {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// RegisterLive adds a live subscriber. It receives events from the next Emit
// onward; historical events have to be fetched with Snapshot separately.
func (s *Service) RegisterLive(client LiveClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[client] = true
}

// UnregisterLive removes a live subscriber.
func (s *Service) UnregisterLive(client LiveClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, client)
}

// LiveCount returns the number of attached live subscribers.
func (s *Service) LiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Snapshot returns a copy of all events emitted so far in seq order. Later
// emissions do not mutate a returned snapshot.
func (s *Service) Snapshot() []*event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*event.Event, len(s.events))
	copy(result, s.events)
	return result
}

// Clear empties the in-memory event list. The log file and the live
// subscriber set are unaffected.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

// LogPath returns the run log location, or empty string when logging is
// disabled.
func (s *Service) LogPath() string {
	return s.logPath
}

// Close releases the run log file handle, if any.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logFile == nil {
		return nil
	}
	err := s.logFile.Close()
	s.logFile = nil
	return err
}
