package surface

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/nodeshapes/pkg/errors"
)

// ParseColor parses a CSS-style colour string into a color.NRGBA.
// Supported forms: "#rgb", "#rrggbb", "rgb(r,g,b)", "rgba(r,g,b,a)" and the
// SVG 1.1 colour keywords (case-insensitive), plus "transparent".
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty colour")
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "#"):
		c, err := colorful.Hex(lower)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid hex colour %q", s)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil

	case strings.HasPrefix(lower, "rgba("):
		var r, g, b uint8
		var a float64
		if _, err := fmt.Sscanf(strings.ReplaceAll(lower, " ", ""), "rgba(%d,%d,%d,%g)", &r, &g, &b, &a); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid colour %q", s)
		}
		return color.NRGBA{R: r, G: g, B: b, A: uint8(clamp01(a)*255 + 0.5)}, nil

	case strings.HasPrefix(lower, "rgb("):
		var r, g, b uint8
		if _, err := fmt.Sscanf(strings.ReplaceAll(lower, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid colour %q", s)
		}
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil

	case lower == "transparent":
		return color.NRGBA{}, nil
	}

	if c, ok := colornames.Map[lower]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown colour %q", s)
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FormatColor renders c as "#rrggbb", or as "rgba(r,g,b,a)" when it is not
// fully opaque.
func FormatColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return colorful.Color{
			R: float64(n.R) / 255,
			G: float64(n.G) / 255,
			B: float64(n.B) / 255,
		}.Hex()
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", n.R, n.G, n.B, float64(n.A)/255)
}

func clamp01(f float64) float64 {
	return max(0, min(1, f))
}
