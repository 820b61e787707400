package coverage

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var rgbaPattern = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*([0-9]*\.?[0-9]+)\s*)?\)$`)

// Color is an sRGB colour with a 0..1 alpha.
type Color struct {
	R, G, B uint8
	A       float64
}

// RGB returns an opaque colour.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 1} }

// ParseColor parses "#rgb", "#rrggbb", "rgb(r, g, b)" and "rgba(r, g, b, a)".
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	m := rgbaPattern.FindStringSubmatch(s)
	if m == nil {
		return Color{}, fmt.Errorf("unrecognised colour %q", s)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, _ := strconv.Atoi(m[i+1])
		if v > 255 {
			return Color{}, fmt.Errorf("colour channel %d out of range in %q", v, s)
		}
		ch[i] = uint8(v)
	}
	a := 1.0
	if m[4] != "" {
		a, _ = strconv.ParseFloat(m[4], 64)
		a = math.Min(1, math.Max(0, a))
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: a}, nil
}

func parseHex(h string) (Color, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("bad hex colour #%s", h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("bad hex colour #%s: %w", h, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 1}, nil
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = math.Min(1, math.Max(0, a))
	return c
}

// CSS formats c as an rgba() string.
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

func (c Color) String() string { return c.CSS() }

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.CSS()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
