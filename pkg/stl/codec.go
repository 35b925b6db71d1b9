package stl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Codec holds read and write options. The zero value detects by size,
// writes shortest round-trip decimals and does not log.
type Codec struct {
	// Detection selects the ASCII/binary classifier used by Read and Decode.
	Detection DetectStrategy
	// Precision is the number of significant digits in ASCII output.
	// Values below 1 write the shortest decimal that parses back exactly.
	Precision int
	// SolidName is written after solid/endsolid. WriteASCII falls back to
	// the output file name without extension when it is empty.
	SolidName string
	Logger    *zap.Logger
}

// NewCodec returns a Codec with default options logging to log.
func NewCodec(log *zap.Logger) *Codec {
	return &Codec{Logger: log}
}

func (c *Codec) log() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Decode classifies data and parses it into m. m is replaced only on success.
func (c *Codec) Decode(m *Mesh, data []byte) (Format, error) {
	if len(data) < MinBinarySize && !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return FormatASCII, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(data))
	}

	format := c.Detection.Detect(data)
	c.log().Debug("detected STL format", zap.Stringer("format", format), zap.Stringer("strategy", c.Detection))

	if format == FormatBinary {
		return format, c.DecodeBinary(m, data)
	}
	return format, c.DecodeASCII(m, data)
}

// Read replaces m with the contents of the STL file at path.
func (c *Codec) Read(m *Mesh, path string) error {
	_, err := c.ReadFormat(m, path)
	return err
}

// ReadFormat is Read that also reports which encoding the file used.
func (c *Codec) ReadFormat(m *Mesh, path string) (Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FormatASCII, ioError("reading", err)
	}

	var next Mesh
	format, err := c.Decode(&next, data)
	if err != nil {
		return format, fmt.Errorf("%s: %w", path, err)
	}
	*m = next

	c.log().Debug("read STL",
		zap.String("path", path),
		zap.Stringer("format", format),
		zap.Uint32("triangles", m.TriangleCount),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("normals", len(m.Normals)),
		zap.Int("colors", len(m.Colors)),
	)
	return format, nil
}

// WriteBinary writes m to path as binary STL.
func (c *Codec) WriteBinary(m *Mesh, path string) error {
	return c.writeFile(m, path, FormatBinary, func(w io.Writer) error {
		return c.EncodeBinary(w, m)
	})
}

// WriteASCII writes m to path as ASCII STL.
func (c *Codec) WriteASCII(m *Mesh, path string) error {
	name := c.SolidName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c.writeFile(m, path, FormatASCII, func(w io.Writer) error {
		return c.encodeASCII(w, m, name)
	})
}

// Write writes m to path in the given encoding.
func (c *Codec) Write(m *Mesh, path string, format Format) error {
	if format == FormatASCII {
		return c.WriteASCII(m, path)
	}
	return c.WriteBinary(m, path)
}

// writeFile validates m before touching the destination, then writes to a
// temporary file in the same directory and renames it over path, so a
// failed write never leaves a truncated file behind.
func (c *Codec) writeFile(m *Mesh, path string, format Format, encode func(io.Writer) error) error {
	if err := m.Validate(); err != nil {
		c.log().Warn("refusing to write invalid mesh", zap.String("path", path), zap.Error(err))
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return ioError("creating", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err = encode(f); err != nil {
		return ioError("writing", err)
	}
	if err = f.Chmod(0644); err != nil {
		return ioError("writing", err)
	}
	if err = f.Close(); err != nil {
		return ioError("closing", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return ioError("renaming", err)
	}

	c.log().Debug("wrote STL",
		zap.String("path", path),
		zap.Stringer("format", format),
		zap.Uint32("triangles", m.TriangleCount),
	)
	return nil
}

func ioError(op string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrNotFound, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

// Read replaces m with the STL file at path using default options.
func (m *Mesh) Read(path string) error {
	return NewCodec(nil).Read(m, path)
}

// WriteBinary writes m to path as binary STL using default options.
func (m *Mesh) WriteBinary(path string) error {
	return NewCodec(nil).WriteBinary(m, path)
}

// WriteASCII writes m to path as ASCII STL using default options.
func (m *Mesh) WriteASCII(path string) error {
	return NewCodec(nil).WriteASCII(m, path)
}
