package draw

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// Robot and overlay colors
var (
	ColorRobot        = color.NRGBA{R: 100, G: 200, B: 255, A: 255}
	ColorRobotLoaded  = color.NRGBA{R: 255, G: 150, B: 100, A: 255}
	ColorRobotWaiting = color.NRGBA{R: 220, G: 80, B: 80, A: 255}
	ColorPathTrail    = color.NRGBA{R: 100, G: 200, B: 255, A: 90}
	ColorItemWeight   = color.NRGBA{R: 230, G: 240, B: 230, A: 255}
)

// DrawRobot draws one robot as a filled circle. Loaded robots change
// color and waiting robots get a warning ring.
func DrawRobot(gtx layout.Context, rs core.RobotSnapshot, l Layout) {
	c := l.CellCenter(rs.Pos.X, rs.Pos.Y)
	r := l.Cell * 3 / 8

	col := ColorRobot
	if rs.Load > 0 {
		col = ColorRobotLoaded
	}
	if rs.Waiting {
		ring := image.Rect(c.X-r-2, c.Y-r-2, c.X+r+2, c.Y+r+2)
		paint.FillShape(gtx.Ops, ColorRobotWaiting, clip.Ellipse(ring).Op(gtx.Ops))
	}
	paint.FillShape(gtx.Ops, col, clip.Ellipse(image.Rect(c.X-r, c.Y-r, c.X+r, c.Y+r)).Op(gtx.Ops))
}

// DrawPath draws a robot's remaining route as a polyline from its
// current position.
func DrawPath(gtx layout.Context, from core.Point, path core.Path, l Layout) {
	prev := l.CellCenter(from.X, from.Y)
	for _, p := range path {
		next := l.CellCenter(p.X, p.Y)
		drawLine(gtx,
			float32(prev.X), float32(prev.Y),
			float32(next.X), float32(next.Y),
			2, ColorPathTrail)
		prev = next
	}
}

// DrawItem marks an unpicked item with a weight dot inside its cell.
func DrawItem(gtx layout.Context, is core.ItemSnapshot, l Layout) {
	if is.Picked {
		return
	}
	c := l.CellCenter(is.Pos.X, is.Pos.Y)
	r := l.Cell / 6
	if r < 2 {
		r = 2
	}
	paint.FillShape(gtx.Ops, ColorItemWeight, clip.Ellipse(image.Rect(c.X-r, c.Y-r, c.X+r, c.Y+r)).Op(gtx.Ops))
}

func drawLine(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if length < 0.1 {
		return
	}

	dx /= length
	dy /= length
	px := -dy * width / 2
	py := dx * width / 2

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(x1+px, y1+py))
	path.LineTo(f32.Pt(x2+px, y2+py))
	path.LineTo(f32.Pt(x2-px, y2-py))
	path.LineTo(f32.Pt(x1-px, y1-py))
	path.Close()

	paint.FillShape(gtx.Ops, col, clip.Outline{Path: path.End()}.Op())
}
