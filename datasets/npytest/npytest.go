// Package npytest writes small .npy fixtures for tests.
package npytest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Options tweaks the encoded header.
type Options struct {
	// Float32 stores the payload as '<f4' instead of '<f8'.
	Float32 bool
	// Fortran marks the payload as column-major. The caller is responsible
	// for passing data already laid out column-major.
	Fortran bool
}

// Encode builds a version 1.0 .npy file for the given shape and payload.
func Encode(shape []int, data []float64, opts Options) []byte {
	descr := "<f8"
	if opts.Float32 {
		descr = "<f4"
	}
	fortran := "False"
	if opts.Fortran {
		fortran = "True"
	}
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = fmt.Sprint(d)
	}
	shapeStr := "(" + strings.Join(dims, ", ")
	if len(shape) == 1 {
		shapeStr += ","
	}
	shapeStr += ")"

	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': %s, 'shape': %s, }", descr, fortran, shapeStr)
	// magic(6) + version(2) + header length(2) + header, padded to 64 bytes
	// and terminated by a newline.
	total := 10 + len(header) + 1
	if rem := total % 64; rem != 0 {
		header += strings.Repeat(" ", 64-rem)
	}
	header += "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	for _, v := range data {
		if opts.Float32 {
			_ = binary.Write(&buf, binary.LittleEndian, math.Float32bits(float32(v)))
		} else {
			_ = binary.Write(&buf, binary.LittleEndian, math.Float64bits(v))
		}
	}
	return buf.Bytes()
}

// Write encodes a float64 row-major array into dir/name.
func Write(t testing.TB, dir, name string, shape []int, data []float64) string {
	t.Helper()
	return WriteWith(t, dir, name, shape, data, Options{})
}

// WriteWith is Write with explicit encoding options.
func WriteWith(t testing.TB, dir, name string, shape []int, data []float64, opts Options) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Encode(shape, data, opts), 0o644); err != nil {
		t.Fatalf("failed to write npy %s: %v", path, err)
	}
	return path
}

// Ramp returns n*t*c values where element (i, j, k) equals i*100 + j + k/10,
// which makes any slicing mistake visible in test failures.
func Ramp(n, t, c int) []float64 {
	out := make([]float64, 0, n*t*c)
	for i := 0; i < n; i++ {
		for j := 0; j < t; j++ {
			for k := 0; k < c; k++ {
				out = append(out, float64(i*100+j)+float64(k)/10)
			}
		}
	}
	return out
}
