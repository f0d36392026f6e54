package render

import (
	"bufio"
	"io"
	"math"
	"strings"

	"github.com/opd-ai/go-topdrive/pkg/physics"
)

// GridSpacing is the world distance between background grid dots.
const GridSpacing = 250.0

// TerminalRenderer provides a simple ASCII-based rendering for terminals.
// The view stays centred on the vehicle and widens as the zoom drops.
type TerminalRenderer struct {
	out        io.Writer
	width      int
	height     int
	buffer     [][]rune
	scale      float64
	zoom       float64
	centerPos  physics.Vector2D
	background Background
	vehicle    float64
	status     string
	ansi       bool
	err        error
}

// NewTerminalRenderer creates a new terminal renderer with the specified
// dimensions. scale is world pixels per character cell at zoom 1.
func NewTerminalRenderer(out io.Writer, width, height int, scale float64, bg Background, vehicleSize float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	return &TerminalRenderer{
		out:        out,
		width:      width,
		height:     height,
		buffer:     buffer,
		scale:      scale,
		zoom:       1,
		background: bg,
		vehicle:    vehicleSize,
	}
}

// SetANSI enables clearing the terminal before each frame.
func (r *TerminalRenderer) SetANSI(enabled bool) {
	r.ansi = enabled
}

// Err returns the first write error, if any.
func (r *TerminalRenderer) Err() error {
	return r.err
}

// cellSize returns the world distance covered by one character cell.
func (r *TerminalRenderer) cellSize() float64 {
	zoom := r.zoom
	if zoom <= 0 {
		zoom = 1
	}
	return r.scale / zoom
}

// worldToScreen converts world coordinates to screen coordinates
func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	cell := r.cellSize()
	screenX := int(math.Floor((pos.X-r.centerPos.X)/cell + float64(r.width)/2))
	screenY := int(math.Floor((pos.Y-r.centerPos.Y)/cell + float64(r.height)/2))
	return screenX, screenY
}

// screenToWorld returns the world position at the top-left of a cell.
func (r *TerminalRenderer) screenToWorld(x, y int) physics.Vector2D {
	cell := r.cellSize()
	return physics.Vector2D{
		X: (float64(x)-float64(r.width)/2)*cell + r.centerPos.X,
		Y: (float64(y)-float64(r.height)/2)*cell + r.centerPos.Y,
	}
}

// Clear implements Renderer
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
	r.status = ""
}

// RenderVehicle implements Renderer. It recentres the view on the vehicle,
// paints the background around it and the vehicle as a heading arrow.
func (r *TerminalRenderer) RenderVehicle(state physics.VehicleState) {
	r.zoom = state.Zoom
	half := r.vehicle / 2
	r.centerPos = state.Position.Add(physics.Vector2D{X: half, Y: half})

	r.renderBackground()

	x, y := r.worldToScreen(r.centerPos)
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = headingGlyph(state.Heading)
	}
}

func (r *TerminalRenderer) renderBackground() {
	cell := r.cellSize()
	for y := range r.buffer {
		for x := range r.buffer[y] {
			p := r.screenToWorld(x, y)
			switch {
			case p.X+cell <= 0 || p.Y+cell <= 0 || p.X > r.background.Width || p.Y > r.background.Height:
				r.buffer[y][x] = '#'
			case onGrid(p.X, cell) && onGrid(p.Y, cell):
				r.buffer[y][x] = '.'
			}
		}
	}
}

// onGrid reports whether a cell starting at v with the given size contains
// a grid line.
func onGrid(v, cell float64) bool {
	return math.Floor((v+cell)/GridSpacing) != math.Floor(v/GridSpacing) || math.Mod(v, GridSpacing) == 0
}

var headingGlyphs = [...]rune{'>', '\\', 'v', '/', '<', '\\', '^', '/'}

// headingGlyph picks the arrow closest to a heading. Y grows downward, so
// 90 degrees points down the screen.
func headingGlyph(heading float64) rune {
	idx := int(math.Round(physics.WrapDegrees(heading)/45)) % len(headingGlyphs)
	return headingGlyphs[idx]
}

// RenderHUD implements Renderer
func (r *TerminalRenderer) RenderHUD(hud HUD) {
	r.status = hud.String()
}

// Present implements Renderer
func (r *TerminalRenderer) Present() {
	if r.err != nil {
		return
	}
	w := bufio.NewWriter(r.out)

	if r.ansi {
		w.WriteString("\033[H\033[2J")
	}

	border := "+" + strings.Repeat("-", r.width) + "+\n"
	w.WriteString(border)
	for y := range r.buffer {
		w.WriteByte('|')
		w.WriteString(string(r.buffer[y]))
		w.WriteString("|\n")
	}
	w.WriteString(border)
	w.WriteString(r.status)
	w.WriteByte('\n')

	r.err = w.Flush()
}
