// Package vis implements a Gio-based live view of a running warehouse
// simulation with pointer and keyboard controls.
package vis

import (
	"image"
	"image/color"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
	"github.com/elektrokombinacija/warehouse-sim/internal/vis/draw"
)

// App is the visualization application. It owns the simulation: all
// mutation happens on the UI event loop, so no locking is needed.
type App struct {
	sim       *sim.Simulation
	tickEvery time.Duration
	lastTick  time.Time
	playing   bool

	// category is placed on left click; dropMode reroutes clicks to
	// the drop point instead.
	category core.ObstacleCategory
	dropMode bool

	grid draw.Layout
}

// NewApp wraps a simulation for display.
func NewApp(s *sim.Simulation, tickEvery time.Duration) *App {
	return &App{
		sim:       s,
		tickEvery: tickEvery,
		category:  core.Temporary,
	}
}

// Run starts the application event loop.
func (a *App) Run(w *app.Window) error {
	var ops op.Ops

	// Event filter tag for keyboard input
	tag := new(int)

	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			for {
				ev, ok := gtx.Event(key.Filter{Focus: tag})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					a.handleKeyEvent(ke)
				}
			}
			event.Op(gtx.Ops, tag)

			a.layout(gtx)
			e.Frame(gtx.Ops)

			if a.playing {
				if time.Since(a.lastTick) >= a.tickEvery {
					a.sim.Step()
					a.lastTick = time.Now()
				}
				w.Invalidate()
			}
		}
	}
}

func (a *App) handleKeyEvent(e key.Event) {
	switch e.Name {
	case key.NameSpace:
		a.playing = !a.playing
		a.lastTick = time.Now()
	case key.NameRightArrow:
		a.sim.Step()
	case "R":
		p := a.sim.Params()
		a.sim.Reset(p.Robots, p.Items, p.ObstacleDensity)
	case "D":
		a.dropMode = !a.dropMode
	case "1":
		a.category = core.Temporary
	case "2":
		a.category = core.SemiPermanent
	}
}

func (a *App) layout(gtx layout.Context) layout.Dimensions {
	paint.Fill(gtx.Ops, color.NRGBA{R: 20, G: 22, B: 26, A: 255})

	snap := a.sim.Snapshot()
	bounds := gtx.Constraints.Max
	a.grid = draw.FitGrid(bounds, snap.Width, snap.Height)

	a.handlePointerEvents(gtx, snap)

	draw.DrawCells(gtx, snap, a.grid)
	for _, is := range snap.Items {
		draw.DrawItem(gtx, is, a.grid)
	}
	for _, rs := range snap.Robots {
		draw.DrawPath(gtx, rs.Pos, rs.Path, a.grid)
	}
	for _, rs := range snap.Robots {
		draw.DrawRobot(gtx, rs, a.grid)
	}

	return layout.Dimensions{Size: bounds}
}

func (a *App) handlePointerEvents(gtx layout.Context, snap core.Snapshot) {
	area := clip.Rect(image.Rect(0, 0, gtx.Constraints.Max.X, gtx.Constraints.Max.Y)).Push(gtx.Ops)
	event.Op(gtx.Ops, a)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: a,
			Kinds:  pointer.Press,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok || pe.Kind != pointer.Press {
			continue
		}
		x, y, ok := a.grid.CellAt(pe.Position.X, pe.Position.Y, snap.Width, snap.Height)
		if !ok {
			continue
		}
		a.handleClick(x, y, pe.Buttons)
	}
}

// handleClick edits the warehouse: left click places, right click
// clears. Errors are ignored; the invariant-violating edit simply has
// no visible effect.
func (a *App) handleClick(x, y int, buttons pointer.Buttons) {
	switch {
	case buttons.Contain(pointer.ButtonSecondary):
		a.sim.RemoveObstacle(x, y)
	case a.dropMode:
		a.sim.SetDropPoint(x, y)
	default:
		a.sim.PlaceObstacle(x, y, a.category)
	}
}
