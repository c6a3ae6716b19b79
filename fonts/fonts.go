// Package fonts picks the typeface used for chart captions.
//
// Channel names are often CJK, which the fonts bundled with gonum/plot cannot
// draw. The resolver walks an ordered preference list of CJK-capable families
// and settles for a generic sans-serif face when none of them is installed.
package fonts

// SansSerif is the generic family returned when no preferred family is
// available. It always resolves to a drawable face.
const SansSerif = "sans-serif"

// DefaultPreferences lists common CJK-capable families, most preferred first.
var DefaultPreferences = []string{
	"LXGW WenKai",
	"Microsoft YaHei",
	"SimHei",
	"WenQuanYi Micro Hei",
	"Noto Sans CJK SC",
	"PingFang SC",
}

// Prober reports whether a font family can be drawn.
type Prober interface {
	Available(family string) bool
}

// Resolve returns the first family in prefs that p reports as available, or
// SansSerif. It never fails.
func Resolve(p Prober, prefs []string) string {
	if p == nil {
		return SansSerif
	}
	for _, family := range prefs {
		if family != "" && p.Available(family) {
			return family
		}
	}
	return SansSerif
}
