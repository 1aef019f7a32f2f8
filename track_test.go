package smf

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
)

var trackTestData = []byte{
	// dt 0x00: note on; key: 0x40, vel: 0x50
	0x00, 0x90, 0x40, 0x50,
	// dt 0x10: note off; key: 0x40, vel: 0x00
	0x10, 0x80, 0x40, 0x00,
	// dt 0x3FFF: 0xF0 sysex; data: "hello"
	0xFF, 0x7F, 0xF0, 0x05, 0x68, 0x65, 0x6C, 0x6C, 0x6F,
}

func TestReadTrack(t *testing.T) {
	track, e := ReadTrack(NewBytesCursor(trackTestData))
	if e != nil {
		t.Fatalf("Failed reading track: %s", e)
	}
	if len(track.Events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(track.Events))
	}
	expectedDeltas := []uint32{0x00, 0x10, 0x3FFF}
	for i, want := range expectedDeltas {
		if track.Events[i].Delta != want {
			t.Errorf("Event %d: expected delta 0x%x, got 0x%x", i, want,
				track.Events[i].Delta)
		}
		t.Logf("  %d. Time-delta %d: %s\n", i+1, track.Events[i].Delta,
			track.Events[i].Event)
	}
	expectedBasic := []BasicEvent{
		{Type: 0x90, Channel: 0x00, Data1: 0x40, Data2: 0x50},
		{Type: 0x80, Channel: 0x00, Data1: 0x40, Data2: 0x00},
	}
	for i, want := range expectedBasic {
		basic, ok := track.Events[i].Event.(*BasicEvent)
		if !ok {
			t.Fatalf("Event %d: expected a *BasicEvent, got %T", i,
				track.Events[i].Event)
		}
		if *basic != want {
			t.Errorf("Event %d: expected %+v, got %+v", i, want, *basic)
		}
	}
	sysex, ok := track.Events[2].Event.(*SysexEvent)
	if !ok {
		t.Fatalf("Event 2: expected a *SysexEvent, got %T",
			track.Events[2].Event)
	}
	if (sysex.Type != 0xF0) || !bytes.Equal(sysex.Data, []byte("hello")) {
		t.Fatalf("Event 2: got wrong sysex event: %s", sysex)
	}
	if track.Duration() != 0x10+0x3FFF {
		t.Fatalf("Got wrong track duration: %d", track.Duration())
	}
}

func TestReadEmptyTrack(t *testing.T) {
	track, e := ReadTrack(NewBytesCursor(nil))
	if e != nil {
		t.Fatalf("Failed reading empty track: %s", e)
	}
	if len(track.Events) != 0 {
		t.Fatalf("Expected no events, got %d", len(track.Events))
	}
}

func TestTruncatedTrack(t *testing.T) {
	// Every prefix ending inside a delta-time or event must fail; prefixes
	// ending exactly between events must succeed.
	boundaries := map[int]int{0: 0, 4: 1, 8: 2, len(trackTestData): 3}
	for n := 0; n <= len(trackTestData); n++ {
		track, e := ReadTrack(NewBytesCursor(trackTestData[:n]))
		count, isBoundary := boundaries[n]
		if isBoundary {
			if e != nil {
				t.Fatalf("Failed reading %d-byte track prefix: %s", n, e)
			}
			if len(track.Events) != count {
				t.Fatalf("Expected %d events in %d-byte prefix, got %d",
					count, n, len(track.Events))
			}
			continue
		}
		if !errors.Is(e, ErrBrokenFormat) {
			t.Fatalf("%d-byte track prefix didn't fail: %v", n, e)
		}
	}
}

func TestEventReaderResetsBetweenTracks(t *testing.T) {
	r := &EventReader{
		RunningStatus: true,
	}
	_, e := r.ReadTrack(NewBytesCursor([]byte{0x00, 0x90, 0x40, 0x50}))
	if e != nil {
		t.Fatalf("Failed reading first track: %s", e)
	}
	// The second track can't inherit the first track's running status.
	_, e = r.ReadTrack(NewBytesCursor([]byte{0x00, 0x40, 0x00}))
	if !errors.Is(e, ErrBrokenFormat) {
		t.Fatalf("Expected ErrBrokenFormat, got %v", e)
	}
}
