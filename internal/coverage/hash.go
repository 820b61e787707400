package coverage

import (
	"math"
	"strconv"
	"strings"

	"github.com/cjeanneret/coverplan/internal/logic/geometry"
)

// StateHash serialises every field that changes the drawn coverage of a
// camera at center. Two equal hashes mean a rebuild would draw the same
// shape, as long as the walls have not changed.
func StateHash(center geometry.Point, c *Config) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	round := func(v float64) string { return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64) }

	var b strings.Builder
	for i, part := range []string{
		round(center.X),
		round(center.Y),
		f(c.StartAngle),
		f(c.EndAngle),
		f(c.Radius),
		f(c.MinRange),
		strconv.FormatBool(c.Visible),
		strconv.FormatBool(c.DoriEnabled),
		c.Projection.String(),
		c.EdgeStyle.String(),
		f(c.Opacity),
		c.FillColor.CSS(),
	} {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(part)
	}
	return b.String()
}
