package optics

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Pixel densities (px/m) for the four IEC 62676-4 DORI levels.
const (
	DetectionPxPerM      = 25.0
	ObservationPxPerM    = 62.5
	RecognitionPxPerM    = 125.0
	IdentificationPxPerM = 250.0
)

// minHalfTan is the tangent of the half span under which DORI distances
// are not computed.
const minHalfTan = 0.001

var (
	pixelRes = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*[xX×*]\s*(\d+(?:\.\d+)?)\s*$`)
	mpRes    = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*[mM][pP]\s*$`)
)

// Dori holds the distances in metres at which each DORI level is reached.
type Dori struct {
	Detection      float64 `json:"detection"`
	Observation    float64 `json:"observation"`
	Recognition    float64 `json:"recognition"`
	Identification float64 `json:"identification"`
}

// Zone is one DORI band ready for drawing.
type Zone struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
	Color    string  `json:"color"`
}

// ZoneColors are the default band colours, detection first.
var ZoneColors = [4]string{"#2e7d32", "#f9a825", "#ef6c00", "#c62828"}

// ParseResolution returns the horizontal pixel count that spans the plan
// view angle. "WxH" uses the larger dimension, or the smaller one in
// aspect ratio mode. "NMP" derives the width from a 16:9 frame, or 9:16
// in aspect ratio mode.
func ParseResolution(res string, aspectRatioMode bool) (float64, bool) {
	if m := pixelRes.FindStringSubmatch(res); m != nil {
		w, _ := strconv.ParseFloat(m[1], 64)
		h, _ := strconv.ParseFloat(m[2], 64)
		px := math.Max(w, h)
		if aspectRatioMode {
			px = math.Min(w, h)
		}
		return px, px > 0
	}
	if m := mpRes.FindStringSubmatch(strings.TrimSpace(res)); m != nil {
		mp, _ := strconv.ParseFloat(m[1], 64)
		ratio := 16.0 / 9.0
		if aspectRatioMode {
			ratio = 9.0 / 16.0
		}
		px := math.Sqrt(mp * 1e6 * ratio)
		return px, px > 0
	}
	return 0, false
}

// DoriDistances calculates the distance for each DORI level.
// Formula: distance = width_px / (2 × density × tan(span / 2))
// ok is false for an unparseable resolution or when tan(span/2) <= 0.001.
func DoriDistances(resolution string, aspectRatioMode bool, spanDeg float64) (Dori, bool) {
	px, ok := ParseResolution(resolution, aspectRatioMode)
	if !ok {
		return Dori{}, false
	}
	halfTan := math.Tan(spanDeg / 2 * math.Pi / 180.0)
	if halfTan <= minHalfTan {
		return Dori{}, false
	}
	dist := func(density float64) float64 {
		return px / (2 * density * halfTan)
	}
	return Dori{
		Detection:      dist(DetectionPxPerM),
		Observation:    dist(ObservationPxPerM),
		Recognition:    dist(RecognitionPxPerM),
		Identification: dist(IdentificationPxPerM),
	}, true
}

// Zones returns the four bands in DORI order, detection first.
func (d Dori) Zones() []Zone {
	return []Zone{
		{Name: "detection", Distance: d.Detection, Color: ZoneColors[0]},
		{Name: "observation", Distance: d.Observation, Color: ZoneColors[1]},
		{Name: "recognition", Distance: d.Recognition, Color: ZoneColors[2]},
		{Name: "identification", Distance: d.Identification, Color: ZoneColors[3]},
	}
}
