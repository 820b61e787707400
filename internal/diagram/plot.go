package diagram

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
)

// Default image size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

var (
	colorGround = color.Black
	colorPole   = color.RGBA{R: 0x75, G: 0x75, B: 0x75, A: 0xff}
	colorBody   = color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
	colorRay    = color.RGBA{R: 0xef, G: 0x6c, B: 0x00, A: 0xff}
	colorCone   = color.RGBA{R: 0x00, G: 0x7a, B: 0xcc, A: 0x40}
)

func rgba(css string) color.Color {
	c, err := coverage.ParseColor(css)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(c.A * 255))}
}

func xys(pts ...geometry.Point) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return out
}

func line(c color.Color, width vg.Length, pts ...geometry.Point) (*plotter.Line, error) {
	l, err := plotter.NewLine(xys(pts...))
	if err != nil {
		return nil, err
	}
	l.Color = c
	l.Width = width
	return l, nil
}

// Plot builds the side view as a gonum plot.
func Plot(l Layout) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Side view: height %.1f m, tilt %.0f°, vertical FOV %.0f°",
		l.Params.HeightM, l.Params.TiltDeg, l.Params.VFovDeg)
	p.X.Label.Text = "distance (m)"
	p.Y.Label.Text = "height (m)"
	p.X.Min, p.X.Max = l.View.MinX, l.View.MaxX
	p.Y.Min, p.Y.Max = l.View.MinY-0.1*l.View.MaxY, l.View.MaxY
	p.Add(plotter.NewGrid())

	cone, err := plotter.NewPolygon(xys(l.Camera, l.Top.To, l.Bottom.To))
	if err != nil {
		return nil, fmt.Errorf("field of view: %w", err)
	}
	cone.Color = colorCone
	cone.LineStyle.Width = 0
	p.Add(cone)

	ground, err := line(colorGround, vg.Points(2),
		geometry.Point{X: l.View.MinX}, geometry.Point{X: l.View.MaxX})
	if err != nil {
		return nil, fmt.Errorf("ground: %w", err)
	}
	pole, err := line(colorPole, vg.Points(4), geometry.Point{}, l.Camera)
	if err != nil {
		return nil, fmt.Errorf("pole: %w", err)
	}
	bodyLen := 0.04 * (l.View.MaxX - l.View.MinX)
	tip := l.Camera.Add(geometry.Point{
		X: bodyLen * math.Cos(rad(l.Params.TiltDeg)),
		Y: -bodyLen * math.Sin(rad(l.Params.TiltDeg)),
	})
	body, err := line(colorBody, vg.Points(7), l.Camera, tip)
	if err != nil {
		return nil, fmt.Errorf("camera body: %w", err)
	}
	p.Add(ground, pole, body)

	for _, r := range []Ray{l.Top, l.Bottom} {
		ray, err := line(colorRay, vg.Points(1.5), r.From, r.To)
		if err != nil {
			return nil, fmt.Errorf("ray: %w", err)
		}
		ray.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(ray)
	}

	if len(l.Callouts) > 0 {
		pts := make([]geometry.Point, len(l.Callouts))
		texts := make([]string, len(l.Callouts))
		for i, c := range l.Callouts {
			pts[i] = c.At
			texts[i] = c.Text
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys(pts...), Labels: texts})
		if err != nil {
			return nil, fmt.Errorf("callouts: %w", err)
		}
		for i, c := range l.Callouts {
			labels.TextStyle[i].Color = rgba(c.Color)
			labels.TextStyle[i].XAlign = text.XCenter
		}
		labels.Offset = vg.Point{Y: vg.Points(6)}
		p.Add(labels)
	}
	return p, nil
}

// Render writes the side view to w. format is any gonum/plot format such
// as "png" or "svg".
func Render(w io.Writer, l Layout, width, height vg.Length, format string) error {
	p, err := Plot(l)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("diagram: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("diagram: write: %w", err)
	}
	return nil
}

// Save writes the side view to path. The format follows the extension.
func Save(path string, l Layout) error {
	p, err := Plot(l)
	if err != nil {
		return err
	}
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("diagram: save %s: %w", path, err)
	}
	return nil
}
