package neuroflap

import (
	"fmt"
	"math"
)

// slotColor returns a stable hex tint for population slot i. Hues are spread
// evenly around the wheel so neighboring slots stay visually distinct.
func slotColor(i, populationSize int) string {
	if populationSize <= 0 {
		populationSize = 1
	}
	hue := float64(i%populationSize) * 360.0 / float64(populationSize)
	r, g, b := hsvToRGB(hue, 0.75, 0.95)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return uint8(math.Round((r + m) * 255)), uint8(math.Round((g + m) * 255)), uint8(math.Round((b + m) * 255))
}
