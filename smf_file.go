package smf

// This file contains code used for reading .mid SMF-format files.

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// This corresponds to the division field of the MThd chunk.
type TimeDivision uint16

// Returns the number of ticks per quarter note, or 0 if the time division
// doesn't specify a number of ticks per quarter note.
func (d TimeDivision) TicksPerQuarterNote() uint16 {
	if (d & 0x8000) != 0 {
		return 0
	}
	return uint16(d)
}

// Returns the SMPTE frames per second followed by the number of ticks per
// frame. Returns 0, 0 if the division specifies ticks per quarter note
// instead.
func (d TimeDivision) SMPTETimeCode() (uint8, uint8) {
	if (d & 0x8000) == 0 {
		return 0, 0
	}
	// The frames per second is stored as a negative 8-bit integer.
	fps := uint8(-int8(d >> 8))
	ticksPerFrame := uint8(d & 0xff)
	return fps, ticksPerFrame
}

func (d TimeDivision) String() string {
	if (d & 0x7fff) == 0 {
		return fmt.Sprintf("Invalid TimeDivision value: 0x%04x", uint16(d))
	}
	qnTicks := d.TicksPerQuarterNote()
	if qnTicks != 0 {
		return fmt.Sprintf("%d ticks per quarter note", qnTicks)
	}
	fps, ticksPerFrame := d.SMPTETimeCode()
	return fmt.Sprintf("%d frames per second, %d ticks per frame", fps,
		ticksPerFrame)
}

// The fields of the MThd chunk.
type Header struct {
	// The chunk length given in the file. Normally 6; any bytes past the
	// first 6 are skipped.
	Length uint32
	// 0, 1 or 2. Not checked.
	Format uint16
	// The number of chunks that follow the header, as declared in the file.
	TrackCount uint16
	Division   TimeDivision
}

func (h *Header) String() string {
	return fmt.Sprintf("Format %d, with %d track(s), %s", h.Format,
		h.TrackCount, h.Division.String())
}

// Options controlling how strictly an SMF file is decoded. The zero value
// requires an explicit status byte and two data bytes on every channel
// message, and tolerates a track count that doesn't match the header.
type DecodeOptions struct {
	// See EventReader.RunningStatus.
	RunningStatus bool
	// See EventReader.ExactDataLengths.
	ExactDataLengths bool
	// If set, decoding fails when the number of MTrk chunks differs from the
	// header's track count. Otherwise the mismatch is only logged.
	StrictTrackCount bool
}

// Options able to decode the files produced by typical MIDI software.
var StandardOptions = DecodeOptions{
	RunningStatus:    true,
	ExactDataLengths: true,
}

// A decoded SMF file.
type File struct {
	Header
	// The decoded MTrk chunks, in file order.
	Tracks []*Track
	// The chunk types of any non-MTrk chunks that were skipped.
	SkippedChunks []string
}

// Returns true if the number of decoded tracks differs from the header's
// track count, which happens when some of the counted chunks weren't MTrk
// chunks.
func (f *File) TrackCountMismatch() bool {
	return len(f.Tracks) != int(f.TrackCount)
}

// Parses the given SMF file using the zero DecodeOptions. Equivalent to
// DecodeFile(NewCursor(file), DecodeOptions{}).
func ParseFile(file io.Reader) (*File, error) {
	return DecodeFile(NewCursor(file), DecodeOptions{})
}

// Reads the MThd chunk, checking the chunk type before anything else.
func readHeader(c *Cursor) (*Header, error) {
	start := c.Offset()
	tag, e := c.ReadTag()
	if e != nil {
		return nil, errors.Wrap(e, "Failed reading SMF header chunk type")
	}
	if tag != "MThd" {
		return nil, brokenFormat(start, "bad chunk type for header: %q", tag)
	}
	var h Header
	h.Length, e = c.NextU32()
	if e != nil {
		return nil, errors.Wrap(e, "Failed reading SMF header length")
	}
	if h.Length < 6 {
		return nil, brokenFormat(c.Offset(), "SMF header length %d is "+
			"under 6 bytes", h.Length)
	}
	h.Format, e = c.NextU16()
	if e != nil {
		return nil, errors.Wrap(e, "Failed reading SMF format")
	}
	h.TrackCount, e = c.NextU16()
	if e != nil {
		return nil, errors.Wrap(e, "Failed reading SMF track count")
	}
	division, e := c.NextU16()
	if e != nil {
		return nil, errors.Wrap(e, "Failed reading SMF time division")
	}
	h.Division = TimeDivision(division)
	e = c.Skip(h.Length - 6)
	if e != nil {
		return nil, errors.Wrap(e, "Failed skipping extra SMF header bytes")
	}
	return &h, nil
}

// Decodes an entire SMF file from c. Reads the header and then as many chunks
// as the header's track count; MTrk chunks are decoded as tracks and any
// other chunk is skipped. The header and each chunk are logged at debug level
// to the logger set by SetLogger.
func DecodeFile(c *Cursor, opts DecodeOptions) (*File, error) {
	header, e := readHeader(c)
	if e != nil {
		return nil, e
	}
	log.Debug().
		Uint16("format", header.Format).
		Uint16("tracks", header.TrackCount).
		Stringer("division", header.Division).
		Uint32("header_length", header.Length).
		Msg("Read SMF header")
	toReturn := &File{
		Header: *header,
		Tracks: make([]*Track, 0, header.TrackCount),
	}
	reader := &EventReader{
		RunningStatus:    opts.RunningStatus,
		ExactDataLengths: opts.ExactDataLengths,
	}
	for i := 0; i < int(header.TrackCount); i++ {
		tag, e := c.ReadTag()
		if e != nil {
			return nil, errors.Wrapf(e, "Failed reading chunk type of chunk "+
				"%d", i)
		}
		length, e := c.NextU32()
		if e != nil {
			return nil, errors.Wrapf(e, "Failed reading length of chunk %d", i)
		}
		if tag != "MTrk" {
			log.Debug().Str("type", tag).Uint32("length", length).
				Msg("Skipping non-track chunk")
			e = c.Skip(length)
			if e != nil {
				return nil, errors.Wrapf(e, "Failed skipping %q chunk %d",
					tag, i)
			}
			toReturn.SkippedChunks = append(toReturn.SkippedChunks, tag)
			continue
		}
		track, e := reader.ReadTrack(c.Limit(length))
		if e != nil {
			return nil, errors.Wrapf(e, "Failed parsing SMF track %d",
				len(toReturn.Tracks))
		}
		log.Debug().Int("track", len(toReturn.Tracks)).
			Uint32("length", length).Int("events", len(track.Events)).
			Msg("Decoded track")
		toReturn.Tracks = append(toReturn.Tracks, track)
	}
	if toReturn.TrackCountMismatch() {
		if opts.StrictTrackCount {
			return nil, brokenFormat(c.Offset(), "header declares %d "+
				"tracks, but found %d", header.TrackCount,
				len(toReturn.Tracks))
		}
		log.Warn().Uint16("declared", header.TrackCount).
			Int("decoded", len(toReturn.Tracks)).
			Msg("Track count doesn't match the SMF header")
	}
	return toReturn, nil
}
