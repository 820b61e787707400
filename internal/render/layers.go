package render

import (
	"math"
	"sort"

	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/debug"
	"github.com/cjeanneret/coverplan/internal/logic/optics"
	"github.com/cjeanneret/coverplan/internal/plan"
	"github.com/cjeanneret/coverplan/internal/scene"
)

// band is one DORI layer to draw, radius in pixels.
type band struct {
	zone   optics.Zone
	radius float64
}

func (e *Engine) polygonLayer(cam *plan.Camera, name string, radius float64, fill, stroke coverage.Color) (scene.Layer, bool) {
	cfg := cam.Coverage
	pts := e.caster.Polygon(e.plan.WallSegments(), cam.Pos, cfg.StartAngle, cfg.EndAngle, radius, cfg.MinRange, cfg.Projection)
	if len(pts) < 3 {
		return scene.Layer{}, false
	}
	return scene.Layer{
		Name:   name,
		Points: pts,
		Fill:   fill.CSS(),
		Stroke: stroke.CSS(),
		Dash:   cfg.EdgeStyle.Dash(),
	}, true
}

func (e *Engine) singleLayer(cam *plan.Camera) []scene.Layer {
	cfg := cam.Coverage
	l, ok := e.polygonLayer(cam, "coverage", cfg.Radius, cfg.FillColor, cfg.BaseColor)
	if !ok {
		return nil
	}
	return []scene.Layer{l}
}

// doriLayers builds one layer per DORI band, farthest first. Bands are
// clipped to the camera radius and dropped when they end inside the dead
// zone. Unusable DORI inputs draw nothing.
//
// The radius is the configured max range already limited by physics, so
// a band never reaches past the floor the camera can actually see.
func (e *Engine) doriLayers(cam *plan.Camera) []scene.Layer {
	cfg := cam.Coverage
	d, ok := cfg.Dori()
	if !ok {
		debug.Verbose("camera %s: DORI unavailable for resolution %q", cam.ID, cfg.Resolution)
		return nil
	}
	debug.PrintStruct("DORI "+cam.ID, d)

	bands := bandsFor(d.Zones(), e.plan.PixelsPerMeter, cfg.Radius, cfg.MinRange)
	var layers []scene.Layer
	for _, b := range bands {
		col, err := coverage.ParseColor(b.zone.Color)
		if err != nil {
			continue
		}
		l, ok := e.polygonLayer(cam, b.zone.Name, b.radius, col.WithAlpha(cfg.Opacity), col)
		if ok {
			layers = append(layers, l)
		}
	}
	return layers
}

// bandsFor converts zones to pixel radii, clipped to maxRadius, and
// returns them farthest first.
func bandsFor(zones []optics.Zone, pixelsPerMeter, maxRadius, minRange float64) []band {
	var out []band
	for _, z := range zones {
		if !(z.Distance > 0) {
			continue
		}
		r := math.Min(z.Distance*pixelsPerMeter, maxRadius)
		if r <= minRange {
			continue
		}
		out = append(out, band{zone: z, radius: r})
	}
	orderBands(out)
	return out
}

// orderBands sorts bands by descending radius so nearer bands draw on top.
func orderBands(bands []band) {
	sort.SliceStable(bands, func(i, j int) bool {
		return bands[i].radius > bands[j].radius
	})
}
