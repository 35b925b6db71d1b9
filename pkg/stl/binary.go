package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	gomath "math"

	"go.uber.org/zap"
)

// The attribute word carries a legacy 4-bit-per-channel color:
//
//	bits 12-15 red, 8-11 green, 4-7 blue, bit 0 valid
//
// Third-party tools disagree on this layout (VisCAM and Materialise use
// 5-bit channels with bit 15 as the flag), so colors only round-trip
// reliably between files written by this package.
const (
	colorMax   = 15
	redShift   = 12
	greenShift = 8
	blueShift  = 4
)

// BinarySize returns the exact size of a binary STL holding count triangles.
func BinarySize(count uint32) int64 {
	return MinBinarySize + TriangleSize*int64(count)
}

// DecodeBinary parses a binary STL image into m. The data length must match
// the triangle count exactly. m is replaced only on success.
func (c *Codec) DecodeBinary(m *Mesh, data []byte) error {
	if len(data) < MinBinarySize {
		return fmt.Errorf("%w: %d bytes, binary STL needs at least %d", ErrTooSmall, len(data), MinBinarySize)
	}

	count := binary.LittleEndian.Uint32(data[HeaderSize:])
	if want := BinarySize(count); int64(len(data)) != want {
		c.log().Warn("binary STL size mismatch",
			zap.Uint32("triangles", count),
			zap.Int64("expected", want),
			zap.Int("actual", len(data)),
		)
		if int64(len(data)) < want {
			return fmt.Errorf("%w: truncated: %d triangles need %d bytes, got %d", ErrMalformedBinary, count, want, len(data))
		}
		return fmt.Errorf("%w: oversized: %d triangles need %d bytes, got %d", ErrMalformedBinary, count, want, len(data))
	}

	vertices := make([]float32, 0, floatsPerFacet*int(count))
	normals := make([]float32, 0, floatsPerNormal*int(count))
	var colors []float32
	colored := 0

	offset := MinBinarySize
	for i := 0; i < int(count); i++ {
		rec := data[offset : offset+TriangleSize]
		for k := 0; k < floatsPerNormal; k++ {
			normals = append(normals, readFloat32LE(rec[4*k:]))
		}
		for k := floatsPerNormal; k < floatsPerNormal+floatsPerFacet; k++ {
			vertices = append(vertices, readFloat32LE(rec[4*k:]))
		}

		attr := binary.LittleEndian.Uint16(rec[48:])
		if attr&attributeColored != 0 {
			// Facets before the first colored one have no color.
			for len(colors) < floatsPerColor*i {
				colors = appendNoColor(colors)
			}
			colors = append(colors, unpackColor(attr)...)
			colored++
		} else if colors != nil {
			colors = appendNoColor(colors)
		}
		offset += TriangleSize
	}

	m.Reset()
	copy(m.Header[:], data[:HeaderSize])
	m.Vertices = vertices
	m.Normals = normals
	m.Colors = colors
	m.TriangleCount = count

	c.log().Debug("decoded binary STL", zap.Uint32("triangles", count), zap.Int("colored", colored))
	return nil
}

// EncodeBinary writes m as binary STL. Missing normals are written as zero.
func (c *Codec) EncodeBinary(w io.Writer, m *Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	var head [MinBinarySize]byte
	copy(head[:], m.Header[:])
	binary.LittleEndian.PutUint32(head[HeaderSize:], m.TriangleCount)
	if _, err := bw.Write(head[:]); err != nil {
		return err
	}

	var rec [TriangleSize]byte
	for i := 0; i < int(m.TriangleCount); i++ {
		clear(rec[:])
		if len(m.Normals) > 0 {
			for k := 0; k < floatsPerNormal; k++ {
				putFloat32LE(rec[4*k:], m.Normals[i*floatsPerNormal+k])
			}
		}
		for k := 0; k < floatsPerFacet; k++ {
			putFloat32LE(rec[4*(floatsPerNormal+k):], m.Vertices[i*floatsPerFacet+k])
		}
		if r, g, b, ok := m.Color(i); ok {
			binary.LittleEndian.PutUint16(rec[48:], packColor(r, g, b))
		}
		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// readFloat32LE reads a little-endian float32 from a byte slice.
func readFloat32LE(data []byte) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(data))
}

func putFloat32LE(data []byte, f float32) {
	binary.LittleEndian.PutUint32(data, gomath.Float32bits(f))
}

// packColor quantizes each channel to 4 bits and sets the valid bit.
func packColor(r, g, b float32) uint16 {
	return quantize(r)<<redShift | quantize(g)<<greenShift | quantize(b)<<blueShift | attributeColored
}

func unpackColor(attr uint16) []float32 {
	return []float32{
		float32(attr>>redShift&colorMax) / colorMax,
		float32(attr>>greenShift&colorMax) / colorMax,
		float32(attr>>blueShift&colorMax) / colorMax,
	}
}

func quantize(channel float32) uint16 {
	q := gomath.Round(float64(channel) * colorMax)
	switch {
	case q < 0:
		return 0
	case q > colorMax:
		return colorMax
	}
	return uint16(q)
}
