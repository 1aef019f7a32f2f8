// This defines a command-line utility for decoding standard MIDI files (SMF,
// usually with a ".mid" extension) and printing their contents.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/yalue/smf"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	trackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Returns a logger writing human-readable lines to stderr.
func newLogger(level string) (zerolog.Logger, error) {
	l, e := zerolog.ParseLevel(level)
	if e != nil {
		return zerolog.Nop(), errors.Wrapf(e, "Bad log level %q", level)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(l).
		With().Timestamp().Logger(), nil
}

func printTrack(i int, t *smf.Track) {
	fmt.Println(trackStyle.Render(fmt.Sprintf("Track %d (%d events, %d "+
		"ticks):", i, len(t.Events), t.Duration())))
	for j, event := range t.Events {
		fmt.Printf("  %s Time %d: %s\n", dimStyle.Render(fmt.Sprintf("%d.",
			j)), event.Delta, event.Event)
	}
}

func run() int {
	var filename, logLevel string
	var dumpEvents, runningStatus, strict bool
	flag.StringVar(&filename, "input_file", "", "The .mid file to open.")
	flag.BoolVar(&dumpEvents, "dump_events", false, "If set, print a list of "+
		"all events in the file to stdout.")
	flag.BoolVar(&runningStatus, "running_status", true, "If set, decode "+
		"running status and one-byte channel messages. Otherwise every event "+
		"must have its own status byte and two data bytes.")
	flag.BoolVar(&strict, "strict", false, "If set, fail if the number of "+
		"tracks doesn't match the header.")
	flag.StringVar(&logLevel, "log_level", "warn", "The minimum level of log "+
		"messages to print to stderr.")
	flag.Parse()
	if filename == "" {
		fmt.Printf("Invalid arguments. Run with -help for more information.\n")
		return 1
	}
	log, e := newLogger(logLevel)
	if e != nil {
		fmt.Printf("%s\n", e)
		return 1
	}
	smf.SetLogger(log)
	opts := smf.DecodeOptions{
		StrictTrackCount: strict,
	}
	if runningStatus {
		opts.RunningStatus = true
		opts.ExactDataLengths = true
	}
	inputFile, e := os.Open(filename)
	if e != nil {
		log.Error().Err(e).Str("file", filename).Msg("Couldn't open file")
		return 1
	}
	defer inputFile.Close()
	f, e := smf.DecodeFile(smf.NewCursor(inputFile), opts)
	if e != nil {
		log.Error().Err(e).Str("file", filename).Msg("Couldn't parse file")
		return 1
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("Parsed %s OK. %s.", filename,
		&f.Header)))
	fmt.Printf("Decoded %d tracks.\n", len(f.Tracks))
	for _, tag := range f.SkippedChunks {
		fmt.Printf("Skipped %q chunk.\n", tag)
	}
	if dumpEvents {
		for i, t := range f.Tracks {
			printTrack(i, t)
		}
	}
	return 0
}

func main() {
	os.Exit(run())
}
