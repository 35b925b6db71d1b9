package stl

import (
	"errors"
	"fmt"
	"strconv"
)

// STL read and write errors.
var (
	ErrNotFound        = errors.New("stl file not found")
	ErrIO              = errors.New("stl i/o failure")
	ErrTooSmall        = errors.New("stl file too small")
	ErrMalformedASCII  = errors.New("malformed ASCII STL")
	ErrMalformedBinary = errors.New("malformed binary STL")
	ErrInvalidGeometry = errors.New("invalid STL geometry")
)

// SyntaxError reports an ASCII grammar violation. It matches
// ErrMalformedASCII with errors.Is.
type SyntaxError struct {
	State    State
	Expected string
	Got      string
	Line     int
	Err      error // number conversion failure, if any
}

func (e *SyntaxError) Error() string {
	got := "end of input"
	if e.Got != "" {
		got = strconv.Quote(e.Got)
	}
	msg := fmt.Sprintf("%v: line %d: state %s: expected %s, got %s", ErrMalformedASCII, e.Line, e.State, e.Expected, got)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes SyntaxError match ErrMalformedASCII.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformedASCII
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
