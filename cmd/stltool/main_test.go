package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/stlkit/pkg/stl"
)

// workdir isolates a test from any stltool.yaml on the machine.
func workdir(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	testChdir(t, dir)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPyramid(t *testing.T) {
	dir := workdir(t)

	out, err := run(t, "pyramid", dir)
	if err != nil {
		t.Fatalf("pyramid failed: %v", err)
	}

	if n := strings.Count(out, "triangles 4  vertices 36  normals 12  colors 0"); n != 2 {
		t.Errorf("expected two summary lines, got:\n%s", out)
	}

	var m stl.Mesh
	if err := m.Read(filepath.Join(dir, "pyramid_bin.stl")); err != nil {
		t.Fatalf("reading binary pyramid failed: %v", err)
	}
	if m.HeaderText() != "Pauls Pyramid" {
		t.Errorf("header = %q", m.HeaderText())
	}

	// apex (0,-1,0), base corners at y = 0, centroid of the vertices at y = -0.25
	for i := 0; i < int(m.TriangleCount); i++ {
		tri := m.Triangle(i)
		var out float32
		for _, v := range tri.Vertex {
			out += tri.Normal.X*v.X + tri.Normal.Y*(v.Y+0.25) + tri.Normal.Z*v.Z
		}
		if out <= 0 {
			t.Errorf("facet %d normal %v points into the pyramid", i, tri.Normal)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "pyramid_ascii.stl"))
	if err != nil {
		t.Fatalf("reading ascii pyramid failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "solid pyramid_ascii\n") {
		t.Errorf("unexpected ascii prologue %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestConvertAndInfo(t *testing.T) {
	dir := workdir(t)
	if _, err := run(t, "pyramid", dir); err != nil {
		t.Fatalf("pyramid failed: %v", err)
	}

	dst := filepath.Join(dir, "converted.stl")
	if _, err := run(t, "convert", "--format", "ascii", filepath.Join(dir, "pyramid_bin.stl"), dst); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	out, err := run(t, "info", dst)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	for _, want := range []string{"Format: ascii", "Triangles: 4", "Degenerate: 0", "Min: (-1.000000, -1.000000, -1.000000)"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestConvertHeader(t *testing.T) {
	dir := workdir(t)
	if _, err := run(t, "pyramid", dir); err != nil {
		t.Fatalf("pyramid failed: %v", err)
	}

	dst := filepath.Join(dir, "relabeled.stl")
	if _, err := run(t, "convert", "--header", "bracket v2", filepath.Join(dir, "pyramid_ascii.stl"), dst); err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	out, err := run(t, "info", dst)
	if err != nil {
		t.Fatalf("info failed: %v", err)
	}
	if !strings.Contains(out, "Format: binary") || !strings.Contains(out, `Header: "bracket v2"`) {
		t.Errorf("unexpected info output:\n%s", out)
	}
}

func TestNormalsInPlace(t *testing.T) {
	dir := workdir(t)
	path := filepath.Join(dir, "flat.stl")

	m := stl.Mesh{
		Vertices:      []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:       []float32{0, 0, 0},
		TriangleCount: 1,
	}
	if err := m.WriteASCII(path); err != nil {
		t.Fatalf("WriteASCII failed: %v", err)
	}

	if _, err := run(t, "normals", path); err != nil {
		t.Fatalf("normals failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "solid") {
		t.Error("normals changed the file encoding")
	}

	var got stl.Mesh
	if err := got.Read(path); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Normals[2] != 1 {
		t.Errorf("expected normal z = 1, got %v", got.Normals)
	}
}

func TestDetect(t *testing.T) {
	dir := workdir(t)
	path := filepath.Join(dir, "trap.stl")

	m := stl.Mesh{Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, TriangleCount: 1}
	m.SetHeaderText("solid trap\nfacet normal")
	if err := m.WriteBinary(path); err != nil {
		t.Fatalf("WriteBinary failed: %v", err)
	}

	out, err := run(t, "detect", path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out, "binary (size binary, token ascii)") {
		t.Errorf("unexpected detect output %q", out)
	}

	out, err = run(t, "--detect", "token", "detect", path)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out, "ascii (size binary, token ascii)") {
		t.Errorf("unexpected detect output %q", out)
	}
}

func TestErrors(t *testing.T) {
	dir := workdir(t)

	_, err := run(t, "info", filepath.Join(dir, "missing.stl"))
	if !errors.Is(err, stl.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := run(t, "--detect", "guess", "detect", "x.stl"); err == nil {
		t.Error("expected config validation error")
	}

	if _, err := run(t, "convert", "--format", "obj", "a.stl", "b.stl"); err == nil {
		t.Error("expected unknown format error")
	}

	if _, err := run(t, "convert", "only-one.stl"); err == nil {
		t.Error("expected argument count error")
	}
}

// testChdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, which needs Go 1.24).
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
