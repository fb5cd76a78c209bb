package logparse

import (
	"strconv"
	"strings"
)

// Style is the rendition active for a run of text. The zero value is the
// empty style; a reset returns to it rather than to any default colors.
type Style struct {
	Foreground ColorRef
	Background ColorRef
	Bold       bool
	Italic     bool
	Underline  bool
}

// IsZero reports whether no attribute is set.
func (s Style) IsZero() bool {
	return s == Style{}
}

// StyledRun is a contiguous piece of output text sharing one style.
type StyledRun struct {
	Text  string
	Style Style
}

// SGR parameter values understood by applySGR. Anything else is ignored.
const (
	sgrReset         = 0
	sgrBold          = 1
	sgrItalic        = 3
	sgrUnderline     = 4
	sgrNoBold        = 22
	sgrNoItalic      = 23
	sgrNoUnderline   = 24
	sgrFgBase        = 30
	sgrFgExtended    = 38
	sgrFgDefault     = 39
	sgrBgBase        = 40
	sgrBgExtended    = 48
	sgrBgDefault     = 49
	sgrFgGray        = 90
	sgrFgBrightBase  = 90
	sgrBgGray        = 100
	sgrBgBrightBase  = 100
	sgrExtended8Bit  = 5
	sgrExtended24Bit = 2
)

// applySGR folds a parameter string (the bytes between "ESC[" and "m") into
// style and returns the result. Parameters apply left to right. An extended
// color directive (38/48) with too few parameters ends interpretation of the
// remaining list; values already applied are kept.
func applySGR(style Style, params string) Style {
	codes := splitParams(params)
	for i := 0; i < len(codes); i++ {
		code := codes[i]
		switch {
		case code == sgrReset:
			style = Style{}
		case code == sgrBold:
			style.Bold = true
		case code == sgrItalic:
			style.Italic = true
		case code == sgrUnderline:
			style.Underline = true
		case code == sgrNoBold:
			style.Bold = false
		case code == sgrNoItalic:
			style.Italic = false
		case code == sgrNoUnderline:
			style.Underline = false
		case code >= sgrFgBase && code <= sgrFgBase+7:
			style.Foreground = Named(NamedColor(code-sgrFgBase), false)
		case code == sgrFgGray:
			style.Foreground = Named(Gray, false)
		case code >= sgrFgBrightBase+1 && code <= sgrFgBrightBase+7:
			style.Foreground = Named(NamedColor(code-sgrFgBrightBase), true)
		case code >= sgrBgBase && code <= sgrBgBase+7:
			style.Background = Named(NamedColor(code-sgrBgBase), false)
		case code == sgrBgGray:
			style.Background = Named(Gray, false)
		case code >= sgrBgBrightBase+1 && code <= sgrBgBrightBase+7:
			style.Background = Named(NamedColor(code-sgrBgBrightBase), true)
		case code == sgrFgDefault:
			style.Foreground = ColorRef{}
		case code == sgrBgDefault:
			style.Background = ColorRef{}
		case code == sgrFgExtended || code == sgrBgExtended:
			color, used, ok := extendedColor(codes[i+1:])
			if !ok {
				return style
			}
			i += used
			if !color.IsSet() {
				continue
			}
			if code == sgrFgExtended {
				style.Foreground = color
			} else {
				style.Background = color
			}
		}
	}
	return style
}

// extendedColor decodes the sub-form following 38 or 48: "5;n" or
// "2;r;g;b". It returns the number of parameters consumed. ok is false when
// the parameter list is too short for the announced form or the form is
// unknown. An in-form but out-of-range value yields an unset color.
func extendedColor(rest []int) (color ColorRef, used int, ok bool) {
	if len(rest) == 0 {
		return ColorRef{}, 0, false
	}
	switch rest[0] {
	case sgrExtended8Bit:
		if len(rest) < 2 {
			return ColorRef{}, 0, false
		}
		color, _ = Resolve8Bit(rest[1])
		return color, 2, true
	case sgrExtended24Bit:
		if len(rest) < 4 {
			return ColorRef{}, 0, false
		}
		color, _ = Resolve24Bit(rest[1], rest[2], rest[3])
		return color, 4, true
	default:
		return ColorRef{}, 0, false
	}
}

// maxParamDigits bounds a single parameter; longer values cannot name any
// supported code and are mapped to an ignored value instead of overflowing.
const maxParamDigits = 6

// splitParams converts "1;;31" to [1 0 31]. An empty parameter string is a
// single reset, matching a bare ESC[m.
func splitParams(params string) []int {
	if params == "" {
		return []int{sgrReset}
	}
	fields := strings.Split(params, ";")
	codes := make([]int, len(fields))
	for i, field := range fields {
		switch {
		case field == "":
			codes[i] = sgrReset
		case len(field) > maxParamDigits:
			codes[i] = -1
		default:
			n, err := strconv.Atoi(field)
			if err != nil {
				n = -1
			}
			codes[i] = n
		}
	}
	return codes
}
