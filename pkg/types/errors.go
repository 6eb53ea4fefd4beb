package types

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindMissingArgument   ErrKind = iota // a required argument was not supplied
	ErrKindTooManyArguments                 // arguments left over after the command consumed its own
	ErrKindUnknownCommand                   // command name not recognized
	ErrKindFileNotFound                     // configuration file does not exist
	ErrKindNotYetLoaded                     // save attempted before any load
	ErrKindEmptyBuffer                      // save attempted with no lines
	ErrKindInvalidEncoding                  // transport payload could not be decoded
	ErrKindSectionNotFound                  // no section matches the query
	ErrKindSectionAmbiguous                 // more than one section matches the query
	ErrKindKeyNotFound                      // key absent from the resolved section
	ErrKindKeyAmbiguous                     // more than one active key with that name
	ErrKindMultiLineExpected                // operation needs a multi-line key, found single-line
	ErrKindSingleLineExpected               // operation needs a single-line key, found multi-line
	ErrKindInvalidRange                     // explicit line anchor out of bounds
	ErrKindFormat                           // unclassifiable material in the file
)

// Code returns the short wire code reported by the command protocol.
func (k ErrKind) Code() string {
	switch k {
	case ErrKindMissingArgument:
		return "ARG"
	case ErrKindTooManyArguments:
		return "ARG+"
	case ErrKindUnknownCommand:
		return "FN"
	case ErrKindFileNotFound:
		return "FILE"
	case ErrKindNotYetLoaded:
		return "READ"
	case ErrKindEmptyBuffer:
		return "EMPTY"
	case ErrKindInvalidEncoding:
		return "ENC"
	case ErrKindSectionNotFound:
		return "SEC"
	case ErrKindSectionAmbiguous:
		return "SEC+"
	case ErrKindKeyNotFound:
		return "KEY"
	case ErrKindKeyAmbiguous:
		return "KEY+"
	case ErrKindMultiLineExpected:
		return "SL"
	case ErrKindSingleLineExpected:
		return "ML"
	case ErrKindInvalidRange:
		return "RANGE"
	case ErrKindFormat:
		return "FMT"
	default:
		return fmt.Sprintf("E%d", int(k))
	}
}

// Error is a typed error with an optional line location and underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Line int   // 1-based line the error refers to; 0 when not tied to a line
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind, so that
// errors.Is works against the sentinels even for located copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// At returns a copy of e located at the given 1-based line.
func (e *Error) At(line int) *Error {
	c := *e
	c.Line = line
	return &c
}

// Wrap returns a copy of e carrying cause as its underlying error.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

// Errorf returns a copy of e with a more specific message.
func (e *Error) Errorf(format string, args ...any) *Error {
	c := *e
	c.Msg = fmt.Sprintf(format, args...)
	return &c
}

// Sentinels returned by the editor and the command protocol.
var (
	ErrMissingArgument    = &Error{Kind: ErrKindMissingArgument, Msg: "missing argument"}
	ErrTooManyArguments   = &Error{Kind: ErrKindTooManyArguments, Msg: "too many arguments"}
	ErrUnknownCommand     = &Error{Kind: ErrKindUnknownCommand, Msg: "unknown command"}
	ErrFileNotFound       = &Error{Kind: ErrKindFileNotFound, Msg: "configuration file not found"}
	ErrNotYetLoaded       = &Error{Kind: ErrKindNotYetLoaded, Msg: "configuration not loaded"}
	ErrEmptyBuffer        = &Error{Kind: ErrKindEmptyBuffer, Msg: "no lines to write"}
	ErrInvalidEncoding    = &Error{Kind: ErrKindInvalidEncoding, Msg: "invalid transport encoding"}
	ErrSectionNotFound    = &Error{Kind: ErrKindSectionNotFound, Msg: "section not found"}
	ErrSectionAmbiguous   = &Error{Kind: ErrKindSectionAmbiguous, Msg: "more than one section matches"}
	ErrKeyNotFound        = &Error{Kind: ErrKindKeyNotFound, Msg: "key not found"}
	ErrKeyAmbiguous       = &Error{Kind: ErrKindKeyAmbiguous, Msg: "more than one active key with that name"}
	ErrMultiLineExpected  = &Error{Kind: ErrKindMultiLineExpected, Msg: "key holds a single-line value"}
	ErrSingleLineExpected = &Error{Kind: ErrKindSingleLineExpected, Msg: "key holds a multi-line value"}
	ErrInvalidRange       = &Error{Kind: ErrKindInvalidRange, Msg: "line out of range"}
	ErrFormat             = &Error{Kind: ErrKindFormat, Msg: "invalid configuration format"}
)

// KindOf extracts the ErrKind of err, reporting false when err is not typed.
func KindOf(err error) (ErrKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
