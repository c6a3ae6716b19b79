package render

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/Noofbiz/seqvis"
)

// WritePNG encodes img to path through a temporary file in the same
// directory, so readers only ever see the previous image or the complete new
// one. No file is left behind on failure.
func WritePNG(path string, img image.Image) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("%w: create temp image: %w", seqvis.ErrIO, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("%w: encode png: %w", seqvis.ErrIO, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: write %s: %w", seqvis.ErrIO, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", seqvis.ErrIO, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", seqvis.ErrIO, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename to %s: %w", seqvis.ErrIO, path, err)
	}
	return nil
}
