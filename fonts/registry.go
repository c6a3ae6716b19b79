package fonts

import (
	"fmt"
	"image/color"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Noofbiz/seqvis"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// sansSerifFont is the face SansSerif maps to.
var sansSerifFont = font.Font{Typeface: "Liberation", Variant: "Sans"}

// Face is a resolved family ready to be used in gonum/plot text styles.
type Face struct {
	Family  string
	Font    font.Font
	Handler text.Handler
}

// Style returns a text style drawing in this face at the given size.
func (f Face) Style(size vg.Length, c color.Color) text.Style {
	fnt := f.Font
	fnt.Size = size
	return text.Style{Color: c, Font: fnt, Handler: f.Handler}
}

type entry struct {
	fnt     font.Font
	regular bool
}

// Registry is a Prober backed by a gonum/plot font cache. It starts out with
// the Liberation faces bundled with gonum/plot and learns more families
// through LoadDir and LoadSystem. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	cache    *font.Cache
	families map[string]entry
}

// NewRegistry returns a registry that only knows the generic sans-serif face.
func NewRegistry() *Registry {
	return &Registry{
		cache:    font.NewCache(liberation.Collection()),
		families: make(map[string]entry),
	}
}

// Available implements Prober.
func (r *Registry) Available(family string) bool {
	if family == SansSerif {
		return true
	}
	r.mu.RLock()
	e, ok := r.families[family]
	r.mu.RUnlock()
	return ok && r.cache.Has(e.fnt)
}

// Families lists the registered family names.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.families))
	for name := range r.families {
		out = append(out, name)
	}
	return out
}

// Face returns the drawable face for family, falling back to sans-serif for
// families the registry does not know.
func (r *Registry) Face(family string) Face {
	hdlr := text.Plain{Fonts: r.cache}
	r.mu.RLock()
	e, ok := r.families[family]
	r.mu.RUnlock()
	if !ok || family == SansSerif {
		return Face{Family: SansSerif, Font: sansSerifFont, Handler: hdlr}
	}
	return Face{Family: family, Font: e.fnt, Handler: hdlr}
}

// Register adds a parsed font under family. A regular face replaces a
// non-regular one already registered for the same family, never the other
// way around. It reports whether the registry changed.
func (r *Registry) Register(family string, f *opentype.Font, regular bool) bool {
	family = strings.TrimSpace(family)
	if family == "" || family == SansSerif || f == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.families[family]; ok && (old.regular || !regular) {
		return false
	}
	fnt := font.Font{Typeface: font.Typeface(family)}
	r.cache.Add(font.Collection{{Font: fnt, Face: f}})
	r.families[family] = entry{fnt: fnt, regular: regular}
	return true
}

// LoadDir walks dir for .ttf, .otf, .ttc and .otc files and registers every
// face under its family name. When want is not empty only those families are
// kept, which avoids holding every installed font in memory. Files that fail
// to parse are skipped. It returns the number of registry changes.
func (r *Registry) LoadDir(dir string, want ...string) (int, error) {
	wanted := make(map[string]bool, len(want))
	for _, w := range want {
		wanted[w] = true
	}

	added := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			slog.Debug("skipping unreadable font path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		faces, err := parseFontFile(path)
		if err != nil {
			slog.Debug("skipping font file", "path", path, "error", err)
			return nil
		}
		for _, f := range faces {
			regular := isRegular(f)
			for _, family := range familyNames(f) {
				if len(wanted) > 0 && !wanted[family] {
					continue
				}
				if r.Register(family, f, regular) {
					added++
				}
			}
		}
		return nil
	})
	if err != nil {
		return added, fmt.Errorf("%w: scan font dir %s: %w", seqvis.ErrIO, dir, err)
	}
	return added, nil
}

// LoadSystem scans the platform font directories plus extraDirs. Missing
// directories are ignored. It returns the number of registry changes.
func (r *Registry) LoadSystem(want []string, extraDirs ...string) int {
	added := 0
	for _, dir := range append(SystemDirs(), extraDirs...) {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		n, err := r.LoadDir(dir, want...)
		if err != nil {
			slog.Warn("font dir scan failed", "dir", dir, "error", err)
		}
		added += n
	}
	slog.Debug("font scan finished", "registered", added)
	return added
}

func parseFontFile(path string) ([]*opentype.Font, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ttf", ".otf", ".ttc", ".otc":
	default:
		return nil, fmt.Errorf("not a font file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if ext == ".ttc" || ext == ".otc" {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		faces := make([]*opentype.Font, 0, coll.NumFonts())
		for i := 0; i < coll.NumFonts(); i++ {
			f, err := coll.Font(i)
			if err != nil {
				return nil, err
			}
			faces = append(faces, f)
		}
		return faces, nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return []*opentype.Font{f}, nil
}

// familyNames returns the distinct family names a face declares: the legacy
// family name and, when present, the typographic family name.
func familyNames(f *opentype.Font) []string {
	var out []string
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDTypographicFamily} {
		name, err := f.Name(nil, id)
		if err != nil || name == "" {
			continue
		}
		if len(out) == 0 || out[0] != name {
			out = append(out, name)
		}
	}
	return out
}

func isRegular(f *opentype.Font) bool {
	sub, err := f.Name(nil, sfnt.NameIDSubfamily)
	if err != nil {
		return false
	}
	switch strings.ToLower(sub) {
	case "regular", "normal", "book", "roman":
		return true
	}
	return false
}
