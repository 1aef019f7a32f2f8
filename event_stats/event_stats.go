// This defines a command-line utility for gathering information about the
// kinds of events used by a directory of MIDI files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/yalue/smf"
)

var sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)

// Keeps track of our accumulated event counts across files.
type eventStats struct {
	// One entry per channel message type, indexed by the status byte's high
	// nibble.
	basicCounts [16]uint64
	// Indexed by meta-event type.
	metaCounts [256]uint64
	// Index 0 counts 0xf0 events, index 1 counts 0xf7 events.
	sysexCounts [2]uint64
	// The chunk types of skipped non-track chunks, and how often they occur.
	skippedChunks map[string]uint64
	files         uint64
	tracks        uint64
}

var basicTypeNames = map[int]string{
	0x8: "Note off",
	0x9: "Note on",
	0xa: "Aftertouch",
	0xb: "Control change",
	0xc: "Program change",
	0xd: "Channel pressure",
	0xe: "Pitch bend",
}

// Dumps the totals to stdout.
func (s *eventStats) printInfo() {
	fmt.Printf("Scanned %d files, %d tracks.\n", s.files, s.tracks)
	fmt.Println(sectionStyle.Render("Channel messages"))
	for i, count := range s.basicCounts {
		if count == 0 {
			continue
		}
		name, ok := basicTypeNames[i]
		if !ok {
			name = fmt.Sprintf("Unknown type 0x%x0", i)
		}
		fmt.Printf("%s: %d events.\n", name, count)
	}
	fmt.Println(sectionStyle.Render("Meta-events"))
	for i, count := range s.metaCounts {
		if count == 0 {
			continue
		}
		fmt.Printf("Meta-event 0x%02x: %d events.\n", i, count)
	}
	fmt.Println(sectionStyle.Render("System exclusive"))
	fmt.Printf("0xf0 messages: %d events.\n", s.sysexCounts[0])
	fmt.Printf("0xf7 packets: %d events.\n", s.sysexCounts[1])
	if len(s.skippedChunks) == 0 {
		return
	}
	fmt.Println(sectionStyle.Render("Skipped chunks"))
	tags := make([]string, 0, len(s.skippedChunks))
	for tag := range s.skippedChunks {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		fmt.Printf("%q: %d chunks.\n", tag, s.skippedChunks[tag])
	}
}

// Adds the events in the named MIDI file to the running totals. Returns an
// error if one occurs.
func (s *eventStats) addFile(name string, opts smf.DecodeOptions) error {
	f, e := os.Open(name)
	if e != nil {
		return errors.Wrapf(e, "Failed opening %s", name)
	}
	defer f.Close()
	file, e := smf.DecodeFile(smf.NewCursor(f), opts)
	if e != nil {
		return errors.Wrapf(e, "Failed parsing %s", name)
	}
	s.files++
	s.tracks += uint64(len(file.Tracks))
	for _, tag := range file.SkippedChunks {
		s.skippedChunks[tag]++
	}
	for _, track := range file.Tracks {
		for _, timed := range track.Events {
			switch event := timed.Event.(type) {
			case *smf.BasicEvent:
				s.basicCounts[event.Type>>4]++
			case *smf.MetaEvent:
				s.metaCounts[event.Type]++
			case *smf.SysexEvent:
				if event.Type == 0xf7 {
					s.sysexCounts[1]++
				} else {
					s.sysexCounts[0]++
				}
			}
		}
	}
	return nil
}

func run() int {
	var baseDir string
	var verbose bool
	flag.StringVar(&baseDir, "dir", "", "The directory to scan for .mid files")
	flag.BoolVar(&verbose, "verbose", false, "Log each file as it's scanned.")
	flag.Parse()
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).
		With().Timestamp().Logger()
	if baseDir == "" {
		log.Error().Msg("A base directory must be specified. " +
			"Run with -help for usage.")
		return 1
	}
	filenames, e := filepath.Glob(baseDir + "/*.mid")
	if e != nil {
		log.Error().Err(e).Str("dir", baseDir).
			Msg("Failed looking up MIDI files")
		return 1
	}
	if len(filenames) <= 0 {
		log.Error().Str("dir", baseDir).
			Msg("Didn't find any MIDI (.mid) files")
		return 1
	}
	stats := &eventStats{
		skippedChunks: make(map[string]uint64),
	}
	for i, name := range filenames {
		log.Debug().Int("index", i+1).Int("total", len(filenames)).
			Str("file", name).Msg("Scanning file")
		e = stats.addFile(name, smf.StandardOptions)
		if e != nil {
			log.Warn().Err(e).Str("file", name).Msg("Failed analyzing file")
		}
		runtime.GC()
	}
	stats.printInfo()
	return 0
}

func main() {
	os.Exit(run())
}
