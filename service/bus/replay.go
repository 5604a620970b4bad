package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viant/afs"

	"github.com/viant/ensemble/model/event"
)

// ReplayFormatError reports a malformed run log line. It is fatal to the
// replay call; replay never silently drops lines.
type ReplayFormatError struct {
	URL  string
	Line int
	Err  error
}

func (e *ReplayFormatError) Error() string {
	return fmt.Sprintf("malformed event at %s:%d: %v", e.URL, e.Line, e.Err)
}

func (e *ReplayFormatError) Unwrap() error { return e.Err }

// LoadReplay reads a run log and returns its events in file order, which by
// construction equals the original seq order. Blank lines are skipped.
func LoadReplay(ctx context.Context, URL string) ([]*event.Event, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read run log %s: %w", URL, err)
	}
	var events []*event.Event
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		anEvent := &event.Event{}
		if err := json.Unmarshal([]byte(line), anEvent); err != nil {
			return nil, &ReplayFormatError{URL: URL, Line: i + 1, Err: err}
		}
		events = append(events, anEvent)
	}
	return events, nil
}
