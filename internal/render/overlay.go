package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	labelColor  = image.NewUniform(color.RGBA{255, 255, 255, 255})
	shadowColor = image.NewUniform(color.RGBA{0, 0, 0, 160})
)

// LineHeight is the vertical advance between label lines in pixels.
const LineHeight = 13

// DrawLabel writes lines of text onto img with their top-left corner at
// (x, y), each with a one-pixel drop shadow.
func DrawLabel(img draw.Image, x, y int, lines []string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Face: face}

	for i, line := range lines {
		baseline := y + (i+1)*LineHeight - face.Descent

		d.Src = shadowColor
		d.Dot = fixed.P(x+1, baseline+1)
		d.DrawString(line)

		d.Src = labelColor
		d.Dot = fixed.P(x, baseline)
		d.DrawString(line)
	}
}

// LabelSize returns the pixel size DrawLabel needs for lines.
func LabelSize(lines []string) image.Point {
	w := 0
	for _, line := range lines {
		adv := font.MeasureString(basicfont.Face7x13, line)
		w = max(w, adv.Ceil())
	}
	return image.Pt(w+1, len(lines)*LineHeight+1)
}
