package smf

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// Wrapped by every error caused by structurally invalid SMF data,
	// including data that ends before a required byte.
	ErrBrokenFormat = errors.New("broken SMF data")
	// Wrapped by errors for input that is valid SMF, but that this package
	// doesn't decode.
	ErrNotImplemented = errors.New("not implemented")
)

// Returned when the underlying byte source fails. Err holds the source's
// error, unmodified.
type IOError struct {
	// The number of bytes successfully read from the source before the
	// failure.
	Offset int64
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("I/O error at offset %d: %s", e.Offset, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Returns an error wrapping ErrBrokenFormat, prefixed with the offset where
// the problem was detected.
func brokenFormat(offset int64, format string, args ...interface{}) error {
	return errors.Wrapf(ErrBrokenFormat, "offset %d: %s", offset,
		fmt.Sprintf(format, args...))
}

func unexpectedEnd(offset int64) error {
	return brokenFormat(offset, "unexpected end of data")
}
