package color

import (
	"chatoverlay/internal/app/infrastructure/storage"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	cacheSize = 1000
	maxRounds = 20
	factor    = 0.1
	minYIQ    = 128
)

// Adjuster lightens name colors that would be unreadable on a dark background.
type Adjuster struct {
	cache *storage.Cache[string, string]
}

func NewAdjuster() *Adjuster {
	return &Adjuster{cache: storage.NewCache[string, string](cacheSize, 0)}
}

// Calculate returns color lightened until its perceived brightness reaches minYIQ.
// Anything that is not a #hex color is returned lower-cased and otherwise untouched.
func (a *Adjuster) Calculate(color string) string {
	color = strings.ToLower(color)
	if adjusted, ok := a.cache.Get(color); ok {
		return adjusted
	}

	r, g, b, ok := parseHex(color)
	if !ok {
		return color
	}

	adjusted := color
	for i := 0; i < maxRounds && yiq(r, g, b) < minYIQ; i++ {
		r, g, b = lighten(r, g, b)
		adjusted = fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}

	a.cache.Set(color, adjusted)
	return adjusted
}

func parseHex(color string) (r, g, b int, ok bool) {
	hex, found := strings.CutPrefix(color, "#")
	if !found || hex == "" {
		return 0, 0, 0, false
	}
	for _, c := range hex {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return 0, 0, 0, false
		}
	}

	switch {
	case len(hex) >= 6:
		hex = hex[:6]
	case len(hex) >= 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	default:
		return 0, 0, 0, false
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func yiq(r, g, b int) float64 {
	return float64(r*299+g*587+b*114) / 1000
}

func lighten(r, g, b int) (int, int, int) {
	h, s, l := rgbToHSL(r, g, b)
	l = clamp(1-(1-factor)*(1-l), 0, 1)
	return hslToRGB(h, s, l)
}

func rgbToHSL(r, g, b int) (h, s, l float64) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	hi := math.Max(rf, math.Max(gf, bf))
	lo := math.Min(rf, math.Min(gf, bf))

	l = clamp((hi+lo)/2, 0, 1)
	d := clamp(hi-lo, 0, 1)
	if d == 0 {
		return 0, 0, l
	}

	switch hi {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}
	h = clamp(h, 0, 6) / 6

	if l > 0.5 {
		s = d / (2 * (1 - l))
	} else {
		s = d / (2 * l)
	}
	return h, clamp(s, 0, 1), l
}

func hslToRGB(h, s, l float64) (int, int, int) {
	if s == 0 {
		v := channel(l)
		return v, v, v
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return channel(hueToRGB(p, q, h+1.0/3)), channel(hueToRGB(p, q, h)), channel(hueToRGB(p, q, h-1.0/3))
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func channel(v float64) int {
	return int(math.Round(clamp(255*v, 0, 255)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
