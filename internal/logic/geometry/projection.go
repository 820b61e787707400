package geometry

import (
	"fmt"
	"strings"
)

// Projection selects how the far edge of a coverage wedge is drawn.
type Projection int

const (
	// Circular draws the far edge as an arc at constant radius.
	Circular Projection = iota
	// Rectangular flattens the far edge into a straight line, the way a
	// photographed rectangle looks from above.
	Rectangular
)

func (p Projection) String() string {
	switch p {
	case Rectangular:
		return "rectangular"
	default:
		return "circular"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Projection) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Projection) UnmarshalText(b []byte) error {
	v, err := ParseProjection(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParseProjection parses "circular" or "rectangular" (case-insensitive).
func ParseProjection(s string) (Projection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "circular":
		return Circular, nil
	case "rectangular":
		return Rectangular, nil
	default:
		return Circular, fmt.Errorf("unknown projection mode %q", s)
	}
}
