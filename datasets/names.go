package datasets

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Noofbiz/seqvis"
)

// NameListFile is the optional sidecar holding one channel name per line.
const NameListFile = "name_list.txt"

// LoadNameList reads dir/name_list.txt. A missing file is not an error: it
// returns nil and callers fall back to numbered titles.
func LoadNameList(dir string) ([]string, error) {
	path := filepath.Join(dir, NameListFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", seqvis.ErrIO, path, err)
	}
	defer f.Close()

	// ScanLines strips a trailing \r and does not yield an empty final token
	// for a file ending in a newline.
	names := []string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		names = append(names, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", seqvis.ErrIO, path, err)
	}
	return names, nil
}
