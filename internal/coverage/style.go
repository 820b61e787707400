package coverage

import (
	"fmt"
	"strings"
)

// EdgeStyle is the stroke pattern of a coverage outline.
type EdgeStyle int

const (
	Solid EdgeStyle = iota
	Dashed
	Dotted
)

func (s EdgeStyle) String() string {
	switch s {
	case Dashed:
		return "dashed"
	case Dotted:
		return "dotted"
	default:
		return "solid"
	}
}

// Dash returns the stroke dash pattern in pixels, nil for solid.
func (s EdgeStyle) Dash() []float64 {
	switch s {
	case Dashed:
		return []float64{10, 5}
	case Dotted:
		return []float64{2, 4}
	default:
		return nil
	}
}

// ParseEdgeStyle parses "solid", "dashed" or "dotted".
func ParseEdgeStyle(s string) (EdgeStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "solid":
		return Solid, nil
	case "dashed":
		return Dashed, nil
	case "dotted":
		return Dotted, nil
	default:
		return Solid, fmt.Errorf("unknown edge style %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s EdgeStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *EdgeStyle) UnmarshalText(b []byte) error {
	v, err := ParseEdgeStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
