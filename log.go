package smf

import (
	"github.com/rs/zerolog"
)

var log = zerolog.Nop()

// Sets the logger used by DecodeFile. Nothing is logged by default.
func SetLogger(l zerolog.Logger) {
	log = l
}
