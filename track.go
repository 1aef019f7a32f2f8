package smf

import (
	"github.com/pkg/errors"
)

// An event paired with the number of ticks since the previous event in the
// same track (or since the start of the track, for the first event).
type TimedEvent struct {
	Delta uint32
	Event Event
}

// This holds the content of a single MIDI track chunk.
type Track struct {
	// The track's events, in the order they appear.
	Events []TimedEvent
}

// Reads events until the cursor ends cleanly, requiring an explicit status
// byte on every event.
func ReadTrack(c *Cursor) (*Track, error) {
	var r EventReader
	return r.ReadTrack(c)
}

// Reads (delta-time, event) pairs until the cursor ends cleanly where a
// delta-time would start. Once a delta-time has been read, failing to read
// the event that follows is an error. Clears the running status first.
func (r *EventReader) ReadTrack(c *Cursor) (*Track, error) {
	r.Reset()
	// Guess roughly 4 bytes per event when the length is known.
	events := make([]TimedEvent, 0, trackCapacityHint(c))
	for {
		delta, ok, e := c.TryReadVarLen()
		if e != nil {
			return nil, errors.Wrapf(e, "Failed reading time delta for "+
				"event %d", len(events))
		}
		if !ok {
			break
		}
		event, e := r.ReadEvent(c)
		if e != nil {
			return nil, errors.Wrapf(e, "Failed reading event %d",
				len(events))
		}
		events = append(events, TimedEvent{
			Delta: delta,
			Event: event,
		})
	}
	return &Track{
		Events: events,
	}, nil
}

func trackCapacityHint(c *Cursor) int {
	n := c.Remaining() / 4
	if n <= 0 {
		return 0
	}
	if n > maxPrealloc {
		return maxPrealloc
	}
	return int(n)
}

// Returns the sum of all delta-times in the track, in ticks.
func (t *Track) Duration() uint64 {
	var toReturn uint64
	for _, e := range t.Events {
		toReturn += uint64(e.Delta)
	}
	return toReturn
}
