package evidence

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Marker is a pointer gesture to draw on a frame. A press with no movement is a click.
type Marker struct {
	X, Y   int
	DX, DY int // drag distance, zero for a click
}

// End is where the pointer was released
func (m Marker) End() (int, int) {
	return m.X + m.DX, m.Y + m.DY
}

var (
	pressColor = color.RGBA{66, 133, 244, 255}
	dragColor  = color.RGBA{234, 67, 53, 255}
	arrowEdge  = color.RGBA{0, 0, 0, 255}
	arrowFill  = color.RGBA{255, 255, 255, 255}
)

// Mark returns a copy of frame with the markers drawn over it: a ring where
// the pointer went down, a line along any drag, and the arrow at the release point.
func Mark(frame image.Image, markers []Marker) *image.RGBA {
	bounds := frame.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, frame, bounds.Min, draw.Src)

	for _, m := range markers {
		ex, ey := m.End()
		drawRing(out, m.X, m.Y, 12, pressColor)
		if m.DX != 0 || m.DY != 0 {
			drawLine(out, m.X, m.Y, ex, ey, dragColor)
			drawLine(out, m.X, m.Y+1, ex, ey+1, dragColor)
			drawRing(out, ex, ey, 8, dragColor)
		}
		drawArrow(out, ex, ey)
	}
	return out
}

// drawArrow draws a small arrow pointer with its tip at (x, y)
func drawArrow(img *image.RGBA, x, y int) {
	outline := []image.Point{{0, 0}, {0, 16}, {4, 12}, {7, 18}, {10, 17}, {7, 11}, {12, 11}}

	for dy := 0; dy <= 16; dy++ {
		for dx := 0; dx <= 12; dx++ {
			if insideArrow(dx, dy) {
				setPixel(img, x+dx, y+dy, arrowFill)
			}
		}
	}
	for i, p := range outline {
		q := outline[(i+1)%len(outline)]
		drawLine(img, x+p.X, y+p.Y, x+q.X, y+q.Y, arrowEdge)
	}
}

func insideArrow(dx, dy int) bool {
	if dy <= 11 {
		return dx <= dy*12/16
	}
	return dx <= 4
}

// drawLine is Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	e := dx - dy
	for {
		setPixel(img, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x1 += sx
		}
		if e2 < dx {
			e += dx
			y1 += sy
		}
	}
}

func drawRing(img *image.RGBA, x, y, radius int, c color.RGBA) {
	for deg := 0.0; deg < 360; deg++ {
		rad := deg * math.Pi / 180
		px := x + int(math.Round(float64(radius)*math.Cos(rad)))
		py := y + int(math.Round(float64(radius)*math.Sin(rad)))
		setPixel(img, px, py, c)
		setPixel(img, px+1, py, c)
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
