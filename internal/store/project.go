package store

import (
	"github.com/cjeanneret/coverplan/internal/coverage"
	"github.com/cjeanneret/coverplan/internal/logic/geometry"
	"github.com/cjeanneret/coverplan/internal/plan"
)

// Project is the persisted form of a plan.
type Project struct {
	Name           string   `json:"name"`
	PixelsPerMeter float64  `json:"pixels_per_meter"`
	Devices        []Device `json:"devices"`
	Walls          []Wall   `json:"walls"`
}

// Device is one persisted device. Name holds the camera name, sensor
// type or label text. Only cameras carry Coverage.
type Device struct {
	ID       string           `json:"id"`
	Kind     string           `json:"kind"`
	Name     string           `json:"name"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	Coverage *coverage.Record `json:"coverage,omitempty"`
}

// Wall is one persisted wall.
type Wall struct {
	ID string         `json:"id"`
	A  geometry.Point `json:"a"`
	B  geometry.Point `json:"b"`
}

// Snapshot captures p as a project named name.
func Snapshot(name string, p *plan.Plan) Project {
	pr := Project{Name: name, PixelsPerMeter: p.PixelsPerMeter}
	for _, d := range p.Devices() {
		row := Device{ID: d.DeviceID(), Kind: d.Kind().String(), X: d.Position().X, Y: d.Position().Y}
		switch v := d.(type) {
		case *plan.Camera:
			row.Name = v.Name
			switch {
			case v.Coverage != nil:
				rec := v.Coverage.Record()
				row.Coverage = &rec
			case v.Saved != nil:
				row.Coverage = v.Saved
			default:
				row.Coverage = &coverage.Record{}
			}
		case *plan.Sensor:
			row.Name = string(v.Type)
		case *plan.Label:
			row.Name = v.Text
		}
		pr.Devices = append(pr.Devices, row)
	}
	for _, w := range p.Walls() {
		pr.Walls = append(pr.Walls, Wall{ID: w.ID, A: w.Seg.A, B: w.Seg.B})
	}
	return pr
}

// Restore adds the devices and walls of pr to p. Cameras keep their
// record as saved data; the caller initialises and recomputes them.
func Restore(pr Project, p *plan.Plan) {
	if pr.PixelsPerMeter > 0 {
		p.PixelsPerMeter = pr.PixelsPerMeter
	}
	for _, w := range pr.Walls {
		p.AddWall(w.ID, w.A, w.B)
	}
	for _, d := range pr.Devices {
		pos := geometry.Point{X: d.X, Y: d.Y}
		switch d.Kind {
		case plan.KindCamera.String():
			p.AddCamera(d.ID, d.Name, pos, d.Coverage)
		case plan.KindSensor.String():
			p.AddSensor(d.ID, plan.SensorType(d.Name), pos)
		case plan.KindLabel.String():
			p.AddLabel(d.ID, d.Name, pos)
		}
	}
}
