package smf

// This file contains the Event types and the code for reading a single event
// from a track.

import (
	"fmt"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
)

// An event read from an SMF track. The concrete type is always one of
// *BasicEvent, *SysexEvent or *MetaEvent.
type Event interface {
	// A string representation of the event.
	String() string
	// The leading byte of the event: the channel status byte for a
	// *BasicEvent, 0xf0 or 0xf7 for a *SysexEvent, or 0xff for a *MetaEvent.
	StatusByte() byte
	isEvent()
}

// A channel voice or channel mode message.
type BasicEvent struct {
	// The high nibble of the status byte, e.g. 0x90 for note-on. Not checked
	// against the known message types.
	Type uint8
	// The low nibble of the status byte.
	Channel uint8
	Data1   uint8
	// Always 0 for one-byte messages read with ExactDataLengths set.
	Data2 uint8
}

func (e *BasicEvent) isEvent() {}

func (e *BasicEvent) StatusByte() byte {
	return e.Type | e.Channel
}

// Returns the number of data bytes that a channel message of this type
// carries in a standard MIDI stream.
func (e *BasicEvent) DataLength() int {
	switch e.Type {
	case 0xc0, 0xd0:
		return 1
	}
	return 2
}

// Returns the event's bytes as a gomidi message, omitting Data2 for types
// that only take one data byte.
func (e *BasicEvent) Message() midi.Message {
	if e.DataLength() == 1 {
		return midi.Message{e.StatusByte(), e.Data1}
	}
	return midi.Message{e.StatusByte(), e.Data1, e.Data2}
}

func (e *BasicEvent) String() string {
	if (e.Type < 0x80) || (e.Type == 0xf0) {
		return fmt.Sprintf("Channel %d: unknown type 0x%02x, data % x",
			e.Channel, e.Type, []byte{e.Data1, e.Data2})
	}
	return e.Message().String()
}

// A system exclusive message, or a continuation packet of one.
type SysexEvent struct {
	// Either 0xf0 or 0xf7.
	Type uint8
	// The bytes following the length, unmodified. For a complete 0xf0
	// message this includes the trailing 0xf7.
	Data []byte
}

func (e *SysexEvent) isEvent() {}

func (e *SysexEvent) StatusByte() byte {
	return e.Type
}

func (e *SysexEvent) String() string {
	kind := "System exclusive message"
	if e.Type == 0xf7 {
		kind = "System exclusive continuation"
	}
	return fmt.Sprintf("%s. %d bytes: % x", kind, len(e.Data), e.Data)
}

// A meta-event, which is only valid in SMF track data.
type MetaEvent struct {
	Type uint8
	Data []byte
}

func (e *MetaEvent) isEvent() {}

func (e *MetaEvent) StatusByte() byte {
	return 0xff
}

var metaEventNames = map[uint8]string{
	0x00: "Sequence number",
	0x01: "Text",
	0x02: "Copyright notice",
	0x03: "Track/sequence name",
	0x04: "Instrument name",
	0x05: "Lyric",
	0x06: "Marker",
	0x07: "Cue point",
	0x20: "Channel prefix",
	0x21: "Port prefix",
	0x2f: "End of track",
	0x51: "Set tempo",
	0x54: "SMPTE offset",
	0x58: "Time signature",
	0x59: "Key signature",
	0x7f: "Sequencer-specific",
}

func (e *MetaEvent) String() string {
	name, ok := metaEventNames[e.Type]
	if !ok {
		name = fmt.Sprintf("Unknown meta-event 0x%02x", e.Type)
	}
	// Text-type events are more useful printed as text.
	if (e.Type >= 0x01) && (e.Type <= 0x0f) {
		return fmt.Sprintf("%s: %q", name, e.Data)
	}
	return fmt.Sprintf("%s. %d bytes: % x", name, len(e.Data), e.Data)
}

// Reads events from a cursor. The zero value requires every event to carry
// its own status byte, and reads exactly two data bytes for every channel
// message. An EventReader holds running status, so use one per track, or call
// Reset between tracks.
type EventReader struct {
	// If set, a data byte where a status byte was expected reuses the status
	// of the previous channel message.
	RunningStatus bool
	// If set, program-change and channel-pressure messages read a single
	// data byte, and system common or real-time status bytes are rejected.
	ExactDataLengths bool
	status           byte
}

// Clears the running status.
func (r *EventReader) Reset() {
	r.status = 0
}

// Reads a single event, requiring an explicit status byte and two data bytes
// for channel messages.
func ReadEvent(c *Cursor) (Event, error) {
	var r EventReader
	return r.ReadEvent(c)
}

// Reads the event at the cursor's position, leaving the cursor immediately
// after the event's last byte.
func (r *EventReader) ReadEvent(c *Cursor) (Event, error) {
	start := c.Offset()
	firstByte, e := c.NextByte()
	if e != nil {
		return nil, errors.Wrap(e, "Failed reading event status byte")
	}
	switch firstByte {
	case 0xf0, 0xf7:
		// Sysex and meta events cancel running status.
		r.status = 0
		return readSysexEvent(c, firstByte)
	case 0xff:
		r.status = 0
		return readMetaEvent(c)
	}
	return r.readBasicEvent(c, start, firstByte)
}

// Reads the length and data of a sysex event whose first byte was already
// consumed.
func readSysexEvent(c *Cursor, firstByte byte) (Event, error) {
	length, e := c.ReadVarLen()
	if e != nil {
		return nil, errors.Wrap(e, "Failed reading sysex length")
	}
	data, e := c.ReadBytes(length)
	if e != nil {
		return nil, errors.Wrap(e, "Failed reading sysex data")
	}
	return &SysexEvent{
		Type: firstByte,
		Data: data,
	}, nil
}

// Reads a meta-event whose 0xff byte was already consumed.
func readMetaEvent(c *Cursor) (Event, error) {
	eventType, e := c.NextByte()
	if e != nil {
		return nil, errors.Wrap(e, "Failed reading meta-event type")
	}
	length, e := c.ReadVarLen()
	if e != nil {
		return nil, errors.Wrapf(e, "Failed reading length of meta-event "+
			"0x%02x", eventType)
	}
	data, e := c.ReadBytes(length)
	if e != nil {
		return nil, errors.Wrapf(e, "Failed reading data of meta-event 0x%02x",
			eventType)
	}
	return &MetaEvent{
		Type: eventType,
		Data: data,
	}, nil
}

func (r *EventReader) readBasicEvent(c *Cursor, start int64,
	firstByte byte) (Event, error) {
	status := firstByte
	usingRunningStatus := false
	if r.RunningStatus {
		if (firstByte & 0x80) == 0 {
			if r.status == 0 {
				return nil, brokenFormat(start, "data byte 0x%02x without a "+
					"running status", firstByte)
			}
			status = r.status
			usingRunningStatus = true
		} else if firstByte < 0xf0 {
			r.status = firstByte
		} else {
			r.status = 0
		}
	}
	if r.ExactDataLengths && (status >= 0xf0) {
		return nil, errors.Wrapf(ErrNotImplemented, "offset %d: status byte "+
			"0x%02x", start, status)
	}
	toReturn := &BasicEvent{
		Type:    status & 0xf0,
		Channel: status & 0x0f,
	}
	var e error
	if usingRunningStatus {
		toReturn.Data1 = firstByte
	} else {
		toReturn.Data1, e = c.NextByte()
		if e != nil {
			return nil, errors.Wrapf(e, "Failed reading first data byte of "+
				"status 0x%02x", status)
		}
	}
	if r.ExactDataLengths && (toReturn.DataLength() == 1) {
		return toReturn, nil
	}
	toReturn.Data2, e = c.NextByte()
	if e != nil {
		return nil, errors.Wrapf(e, "Failed reading second data byte of "+
			"status 0x%02x", status)
	}
	return toReturn, nil
}
