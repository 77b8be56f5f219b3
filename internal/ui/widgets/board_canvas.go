package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"tourplanner/internal/model"
)

const (
	boardWidth  = 800
	boardHeight = 600

	cityRadius     = 5
	routeWidth     = 2
	obstacleStroke = 1.5
)

var (
	boardColor    = color.NRGBA{R: 250, G: 250, B: 248, A: 255}
	borderColor   = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	cityColor     = color.NRGBA{R: 33, G: 33, B: 33, A: 255}
	cityRingColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	routeColor    = color.NRGBA{R: 33, G: 150, B: 243, A: 255}
	obstacleFill  = color.NRGBA{R: 244, G: 67, B: 54, A: 70}
	obstacleEdge  = color.NRGBA{R: 244, G: 67, B: 54, A: 220}
)

// BoardCanvas renders the planning board: obstacles, the current best
// route, and city markers, drawn in board coordinates (one unit per
// pixel, origin top-left).
type BoardCanvas struct {
	widget.BaseWidget
	snapshot model.Snapshot

	// OnTapped receives the board coordinates of a click. Nil disables
	// click handling.
	OnTapped func(x, y float64)
}

func NewBoardCanvas() *BoardCanvas {
	bc := &BoardCanvas{}
	bc.ExtendBaseWidget(bc)
	return bc
}

// SetSnapshot replaces the rendered state and redraws. Safe to call
// only from the Fyne event loop.
func (bc *BoardCanvas) SetSnapshot(snap model.Snapshot) {
	bc.snapshot = snap
	bc.Refresh()
}

// Tapped forwards clicks inside the board area to OnTapped.
func (bc *BoardCanvas) Tapped(ev *fyne.PointEvent) {
	if bc.OnTapped == nil {
		return
	}
	x := float64(ev.Position.X)
	y := float64(ev.Position.Y)
	if x < 0 || y < 0 || x > boardWidth || y > boardHeight {
		return
	}
	bc.OnTapped(x, y)
}

func (bc *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newBoardCanvasRenderer(bc)
}

type boardCanvasRenderer struct {
	bc      *BoardCanvas
	objects []fyne.CanvasObject
}

func newBoardCanvasRenderer(bc *BoardCanvas) *boardCanvasRenderer {
	r := &boardCanvasRenderer{bc: bc}
	r.rebuild()
	return r
}

func (r *boardCanvasRenderer) rebuild() {
	r.objects = nil

	snap := r.bc.snapshot

	// Board background
	bg := canvas.NewRectangle(boardColor)
	bg.Resize(fyne.NewSize(boardWidth, boardHeight))
	bg.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, bg)

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = borderColor
	border.StrokeWidth = 1
	border.Resize(fyne.NewSize(boardWidth, boardHeight))
	border.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, border)

	// Obstacles under everything else
	for _, o := range snap.Obstacles {
		circ := canvas.NewCircle(obstacleFill)
		circ.StrokeColor = obstacleEdge
		circ.StrokeWidth = obstacleStroke
		circ.Resize(fyne.NewSize(float32(2*o.Radius), float32(2*o.Radius)))
		circ.Move(fyne.NewPos(float32(o.X-o.Radius), float32(o.Y-o.Radius)))
		r.objects = append(r.objects, circ)
	}

	// Best route as a closed polyline
	if len(snap.BestRoute) > 1 && snap.BestRoute.Valid(len(snap.Cities)) {
		for i := range snap.BestRoute {
			from := snap.Cities[snap.BestRoute[i]]
			to := snap.Cities[snap.BestRoute[(i+1)%len(snap.BestRoute)]]
			line := canvas.NewLine(routeColor)
			line.StrokeWidth = routeWidth
			line.Position1 = fyne.NewPos(float32(from.X), float32(from.Y))
			line.Position2 = fyne.NewPos(float32(to.X), float32(to.Y))
			r.objects = append(r.objects, line)
		}
	}

	// City markers on top
	for i, c := range snap.Cities {
		dot := canvas.NewCircle(cityColor)
		dot.StrokeColor = cityRingColor
		dot.StrokeWidth = 1
		dot.Resize(fyne.NewSize(2*cityRadius, 2*cityRadius))
		dot.Move(fyne.NewPos(float32(c.X)-cityRadius, float32(c.Y)-cityRadius))
		r.objects = append(r.objects, dot)

		label := canvas.NewText(fmt.Sprintf("%d", i+1), cityColor)
		label.TextSize = 9
		label.Move(fyne.NewPos(float32(c.X)+cityRadius+1, float32(c.Y)-cityRadius-2))
		r.objects = append(r.objects, label)
	}
}

func (r *boardCanvasRenderer) Layout(size fyne.Size)        {}
func (r *boardCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *boardCanvasRenderer) Destroy()                     {}
func (r *boardCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(boardWidth, boardHeight)
}
