// Package encoding provides text helpers for the fixed-width and free-form
// labels carried by STL files.
//
// STL headers and solid names are conventionally ASCII, but files written by
// older CAD packages routinely contain ISO-8859-1 bytes. Text is decoded as
// UTF-8 when valid and as Latin-1 otherwise.
package encoding

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Latin1ToUTF8 converts ISO-8859-1 encoded bytes to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func Latin1ToUTF8(data []byte) string {
	decoder := charmap.ISO8859_1.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToLatin1 converts a UTF-8 string to ISO-8859-1 bytes.
// Returns the original bytes if the string holds runes Latin-1 cannot represent.
func UTF8ToLatin1(s string) []byte {
	encoder := charmap.ISO8859_1.NewEncoder()
	result, _, err := transform.Bytes(encoder, []byte(s))
	if err != nil {
		return []byte(s)
	}
	return result
}

// DecodeLabel returns data as UTF-8, decoding it as Latin-1 when it is not
// already valid UTF-8.
func DecodeLabel(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return Latin1ToUTF8(data)
}

// FixedStringToUTF8 converts a fixed-size label such as the 80-byte binary
// header to a UTF-8 string. Text ends at the first null byte; trailing
// spaces are dropped.
func FixedStringToUTF8(data []byte) string {
	if nullIdx := bytes.IndexByte(data, 0); nullIdx >= 0 {
		data = data[:nullIdx]
	}
	return DecodeLabel(bytes.TrimRight(data, " "))
}

// UTF8ToFixedString converts a UTF-8 string to a fixed-size Latin-1 byte
// array, truncating or padding with null bytes to fill size.
func UTF8ToFixedString(s string, size int) []byte {
	result := make([]byte, size)
	copy(result, UTF8ToLatin1(s))
	return result
}
