package plan

import (
	"github.com/cjeanneret/coverplan/internal/coverage"
)

// SetIconSize resizes every icon and makes it the default for new
// devices. Every camera is invalidated so its coverage is redrawn around
// the new icon.
func (p *Plan) SetIconSize(size float64) {
	p.Defaults.IconSize = size
	for _, d := range p.devices {
		d.icon().Size = size
		if c, ok := d.(*Camera); ok {
			c.Invalidate()
		}
	}
}

// SetCoverageColor recolours every camera and makes col the default.
func (p *Plan) SetCoverageColor(col coverage.Color) {
	p.Defaults.Coverage.Color = col.WithAlpha(1)
	for _, c := range p.Cameras() {
		if c.Coverage != nil {
			c.Coverage.SetBaseColor(col)
		}
		c.Invalidate()
	}
}

// SetLayerOpacity sets the coverage opacity of every camera and makes it
// the default.
func (p *Plan) SetLayerOpacity(o float64) {
	p.Defaults.Coverage.Opacity = o
	for _, c := range p.Cameras() {
		if c.Coverage != nil {
			c.Coverage.SetOpacity(o)
		}
		c.Invalidate()
	}
}
