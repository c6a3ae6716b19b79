package datasets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Noofbiz/seqvis"
	"github.com/sbinet/npyio"
)

// ReadNPY opens and decodes a 3-D .npy file.
func ReadNPY(path string) (*SeriesArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", seqvis.ErrIO, path, err)
	}
	defer f.Close()

	arr, err := DecodeNPY(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return arr, nil
}

// DecodeNPY decodes a NumPy array of rank 3 holding float64 or float32
// values. float32 data is widened; Fortran-ordered data is re-laid out
// row-major.
func DecodeNPY(r io.Reader) (*SeriesArray, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read npy header: %w", seqvis.ErrDecode, err)
	}

	shape := nr.Header.Descr.Shape
	if len(shape) != 3 {
		return nil, fmt.Errorf("%w: expected a 3-dimensional array, got shape %v", seqvis.ErrDecode, shape)
	}
	n := 1
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension in shape %v", seqvis.ErrDecode, shape)
		}
		n *= d
	}

	var data []float64
	typ := nr.Header.Descr.Type
	switch {
	case n == 0 && (strings.HasSuffix(typ, "f8") || strings.HasSuffix(typ, "f4")):
		data = []float64{}
	case strings.HasSuffix(typ, "f8"):
		data = make([]float64, n)
		if err := nr.Read(&data); err != nil {
			return nil, fmt.Errorf("%w: read float64 payload: %w", seqvis.ErrDecode, err)
		}
	case strings.HasSuffix(typ, "f4"):
		raw := make([]float32, n)
		if err := nr.Read(&raw); err != nil {
			return nil, fmt.Errorf("%w: read float32 payload: %w", seqvis.ErrDecode, err)
		}
		data = make([]float64, n)
		for i, v := range raw {
			data[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %q (want f8 or f4)", seqvis.ErrDecode, typ)
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: payload has %d values, shape %v needs %d", seqvis.ErrDecode, len(data), shape, n)
	}

	if nr.Header.Descr.Fortran {
		data = fortranToRowMajor(data, shape[0], shape[1], shape[2])
	}
	return NewSeriesArray(data, shape[0], shape[1], shape[2])
}

// fortranToRowMajor reorders a column-major (i fastest) buffer into the
// row-major layout SeriesArray uses.
func fortranToRowMajor(src []float64, n, t, c int) []float64 {
	dst := make([]float64, len(src))
	for i := 0; i < n; i++ {
		for j := 0; j < t; j++ {
			for k := 0; k < c; k++ {
				dst[(i*t+j)*c+k] = src[i+n*(j+t*k)]
			}
		}
	}
	return dst
}
