package pgen

import (
	"errors"
	"fmt"
	"strings"
)

// FormatFault names the preamble field that failed validation.
type FormatFault uint8

const (
	BadMagic FormatFault = iota
	UnsupportedStorageMode
	UnsupportedFlags
	Truncated
)

func (f FormatFault) String() string {
	switch f {
	case BadMagic:
		return "BadMagic"
	case UnsupportedStorageMode:
		return "UnsupportedStorageMode"
	case UnsupportedFlags:
		return "UnsupportedFlags"
	case Truncated:
		return "Truncated"

	default:
		return "Illegal selection"
	}
}

// FormatError reports a malformed or unsupported .pgen preamble. Value holds
// the offending bytes (or, for Truncated, the number of bytes that could be
// read).
type FormatError struct {
	Fault FormatFault
	Value []byte
}

func (e *FormatError) Error() string {
	switch e.Fault {
	case BadMagic:
		return fmt.Sprintf("pgen: bad magic number %#v, expected %#v", e.Value, MagicNumber[:])
	case UnsupportedStorageMode:
		return fmt.Sprintf("pgen: storage mode %#v is not supported (only fixed-width 2-bit mode %#x)", e.Value, byte(StorageModeFixedWidth2Bit))
	case UnsupportedFlags:
		return fmt.Sprintf("pgen: header flags %#v are not supported (expected %#x)", e.Value, SupportedFlags)
	case Truncated:
		return fmt.Sprintf("pgen: header truncated after %d of %d bytes", len(e.Value), HeaderSize)
	}
	return fmt.Sprintf("pgen: invalid header (%s)", e.Fault)
}

// ConsistencyError reports that a metadata file does not agree with the
// container or with the requested ids.
type ConsistencyError struct {
	File     string
	Reason   string
	Expected int
	Observed int
	Missing  []string
}

// maxReportedIDs bounds how many missing ids are spelled out in Error.
const maxReportedIDs = 10

func (e *ConsistencyError) Error() string {
	msg := fmt.Sprintf("pgen: %s: %s", e.File, e.Reason)
	if e.Expected != 0 || e.Observed != 0 {
		msg += fmt.Sprintf(": expected %d, observed %d", e.Expected, e.Observed)
	}
	if len(e.Missing) > 0 {
		ids := e.Missing
		if len(ids) > maxReportedIDs {
			ids = ids[:maxReportedIDs]
		}
		msg += fmt.Sprintf(" (missing ids: %s", strings.Join(ids, ", "))
		if len(e.Missing) > maxReportedIDs {
			msg += fmt.Sprintf(" and %d more", len(e.Missing)-maxReportedIDs)
		}
		msg += ")"
	}
	return msg
}

// IOError reports a failed read, write or seek. Err is the underlying cause.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("pgen: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pgen: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ErrOutOfRange is wrapped by an IOError when a row index lies outside the
// container's declared dimensions.
var ErrOutOfRange = errors.New("row index out of range")

// IsFormatError reports whether err (or anything it wraps) is a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsConsistencyError reports whether err (or anything it wraps) is a
// ConsistencyError.
func IsConsistencyError(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}
