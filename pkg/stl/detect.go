package stl

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Format is an STL encoding.
type Format int

// Supported encodings.
const (
	FormatASCII Format = iota
	FormatBinary
)

// String returns "ascii" or "binary".
func (f Format) String() string {
	switch f {
	case FormatASCII:
		return "ascii"
	case FormatBinary:
		return "binary"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// DetectStrategy selects how Read tells the encodings apart.
type DetectStrategy int

const (
	// DetectSize classifies input as binary when its length equals
	// 84 + 50 * the triangle count stored at offset 80.
	DetectSize DetectStrategy = iota
	// DetectToken classifies input as ASCII when it starts with "solid"
	// followed by a name line and a "facet" token. It only needs a prefix of
	// the input and is meant for streams of unknown length.
	DetectToken
)

// String returns the strategy name used in configuration.
func (s DetectStrategy) String() string {
	switch s {
	case DetectSize:
		return "size"
	case DetectToken:
		return "token"
	default:
		return fmt.Sprintf("DetectStrategy(%d)", int(s))
	}
}

// ParseDetectStrategy parses "size" or "token".
func ParseDetectStrategy(s string) (DetectStrategy, error) {
	switch strings.ToLower(s) {
	case "size", "":
		return DetectSize, nil
	case "token":
		return DetectToken, nil
	}
	return DetectSize, fmt.Errorf("unknown detection strategy %q", s)
}

// SniffLen is how much input DetectByToken needs at most.
const SniffLen = 512

// DetectFormat classifies data by size: binary when the length matches the
// binary layout for the stored triangle count, ASCII otherwise. Data shorter
// than 84 bytes is never binary.
func DetectFormat(data []byte) Format {
	if len(data) < MinBinarySize {
		return FormatASCII
	}
	count := binary.LittleEndian.Uint32(data[HeaderSize:])
	if int64(len(data)) == BinarySize(count) {
		return FormatBinary
	}
	return FormatASCII
}

// DetectByToken classifies a prefix of the input: ASCII when the first token
// is "solid" and a "facet" or "endsolid" token follows the name line, binary
// otherwise.
func DetectByToken(prefix []byte) Format {
	if len(prefix) > SniffLen {
		prefix = prefix[:SniffLen]
	}
	t := newTokenizer(prefix)
	if t.Next() != "solid" {
		return FormatBinary
	}
	if next := t.Peek(); next == "facet" || next == "endsolid" {
		return FormatASCII
	}
	t.ReadLine()
	if next := t.Next(); next == "facet" || next == "endsolid" {
		return FormatASCII
	}
	return FormatBinary
}

// Detect applies the strategy to data.
func (s DetectStrategy) Detect(data []byte) Format {
	if s == DetectToken {
		return DetectByToken(data)
	}
	return DetectFormat(data)
}
