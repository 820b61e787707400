package optics

import (
	"sort"
	"strings"
)

// Sensor is the physical size of an image sensor in millimetres.
type Sensor struct {
	WidthMm  float64 `json:"width_mm"`
	HeightMm float64 `json:"height_mm"`
}

// sensors maps optical-format labels to active sensor dimensions.
var sensors = map[string]Sensor{
	"1/4.0": {WidthMm: 3.6, HeightMm: 2.7},
	"1/3.6": {WidthMm: 4.0, HeightMm: 3.0},
	"1/3.2": {WidthMm: 4.54, HeightMm: 3.42},
	"1/3.0": {WidthMm: 4.8, HeightMm: 3.6},
	"1/2.9": {WidthMm: 5.0, HeightMm: 3.7},
	"1/2.8": {WidthMm: 5.6, HeightMm: 3.1},
	"1/2.7": {WidthMm: 5.37, HeightMm: 4.04},
	"1/2.5": {WidthMm: 5.76, HeightMm: 4.29},
	"1/2.0": {WidthMm: 6.4, HeightMm: 4.8},
	"1/1.8": {WidthMm: 7.18, HeightMm: 5.32},
	"1/1.7": {WidthMm: 7.6, HeightMm: 5.7},
	"1/1.2": {WidthMm: 10.67, HeightMm: 8.0},
	"2/3":   {WidthMm: 8.8, HeightMm: 6.6},
	"1":     {WidthMm: 12.8, HeightMm: 9.6},
}

// LookupSensor returns the dimensions for a format label such as "1/2.8".
// A bare "1/2" is accepted for "1/2.0".
func LookupSensor(label string) (Sensor, bool) {
	label = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(label), "\""))
	if s, ok := sensors[label]; ok {
		return s, true
	}
	if strings.HasPrefix(label, "1/") && !strings.Contains(label, ".") {
		s, ok := sensors[label+".0"]
		return s, ok
	}
	return Sensor{}, false
}

// SensorLabels returns every known format label, sorted.
func SensorLabels() []string {
	out := make([]string, 0, len(sensors))
	for k := range sensors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
