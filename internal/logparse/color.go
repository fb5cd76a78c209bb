package logparse

import "fmt"

// ColorKind tags the variant held by a ColorRef.
type ColorKind uint8

const (
	ColorNone  ColorKind = iota // unset
	ColorNamed                  // palette class, optionally bright
	ColorRGB                    // explicit red/green/blue triple
)

// NamedColor is one of the fixed palette classes a log may select.
type NamedColor uint8

const (
	Black NamedColor = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	Gray
)

var namedColorNames = [...]string{
	Black:   "black",
	Red:     "red",
	Green:   "green",
	Yellow:  "yellow",
	Blue:    "blue",
	Magenta: "magenta",
	Cyan:    "cyan",
	White:   "white",
	Gray:    "gray",
}

func (c NamedColor) String() string {
	if int(c) < len(namedColorNames) {
		return namedColorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// ColorRef is either a palette reference or an RGB triple. The zero value
// means "no color".
type ColorRef struct {
	Kind    ColorKind
	Name    NamedColor
	Bright  bool
	R, G, B uint8
}

// Named returns a palette reference.
func Named(name NamedColor, bright bool) ColorRef {
	return ColorRef{Kind: ColorNamed, Name: name, Bright: bright}
}

// RGB returns an explicit RGB reference.
func RGB(r, g, b uint8) ColorRef {
	return ColorRef{Kind: ColorRGB, R: r, G: g, B: b}
}

// IsSet reports whether the reference selects any color.
func (c ColorRef) IsSet() bool {
	return c.Kind != ColorNone
}

// Hex renders an RGB reference as #rrggbb. Palette references return "".
func (c ColorRef) Hex() string {
	if c.Kind != ColorRGB {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c ColorRef) String() string {
	switch c.Kind {
	case ColorNamed:
		if c.Bright {
			return c.Name.String() + "-bright"
		}
		return c.Name.String()
	case ColorRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	default:
		return "none"
	}
}

// cubeSteps are the channel intensities of the 6x6x6 palette cube.
var cubeSteps = [6]uint8{0, 51, 102, 153, 204, 255}

// Resolve8Bit maps a 256-color palette index to a color. Indices 0-7 are
// the base classes, 8-15 the same classes flagged bright, 16-231 the RGB
// cube and 232-255 the grayscale ramp. Out-of-range codes report false.
func Resolve8Bit(code int) (ColorRef, bool) {
	switch {
	case code < 0 || code > 255:
		return ColorRef{}, false
	case code < 8:
		return Named(NamedColor(code), false), true
	case code < 16:
		return Named(NamedColor(code-8), true), true
	case code < 232:
		n := code - 16
		return RGB(cubeSteps[(n/36)%6], cubeSteps[(n/6)%6], cubeSteps[n%6]), true
	default:
		v := uint8((code-232)*10 + 8)
		return RGB(v, v, v), true
	}
}

// Resolve24Bit passes an RGB triple through. Any channel outside 0-255
// reports false.
func Resolve24Bit(r, g, b int) (ColorRef, bool) {
	if !inByteRange(r) || !inByteRange(g) || !inByteRange(b) {
		return ColorRef{}, false
	}
	return RGB(uint8(r), uint8(g), uint8(b)), true
}

func inByteRange(v int) bool {
	return v >= 0 && v <= 255
}
