// Package color converts particle hues into the linear RGB triples uploaded
// to the color attribute.
package color

import "math"

// HSLToRGB maps hue (degrees, any real value), saturation and lightness
// (both percent, 0-100) to r, g, b in [0, 1].
func HSLToRGB(h, s, l float64) (r, g, b float64) {
	s /= 100
	l /= 100
	a := s * math.Min(l, 1-l)

	f := func(n float64) float64 {
		k := math.Mod(n+h/30, 12)
		if k < 0 {
			k += 12
		}
		return l - a*math.Max(-1, math.Min(math.Min(k-3, 9-k), 1))
	}

	return f(0), f(8), f(4)
}

// HSLToRGB32 is HSLToRGB narrowed for GPU staging.
func HSLToRGB32(h, s, l float64) (r, g, b float32) {
	rr, gg, bb := HSLToRGB(h, s, l)
	return float32(rr), float32(gg), float32(bb)
}
