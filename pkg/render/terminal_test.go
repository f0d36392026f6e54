package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/opd-ai/go-topdrive/pkg/engine"
	"github.com/opd-ai/go-topdrive/pkg/physics"
)

func newTestTerminal(buf *bytes.Buffer) *TerminalRenderer {
	bg := Background{Width: 16830, Height: 14700}
	return NewTerminalRenderer(buf, 40, 20, 10, bg, 40)
}

func frameRows(t *testing.T, out string, height int) []string {
	t.Helper()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != height+3 {
		t.Fatalf("got %d output lines, want %d:\n%s", len(lines), height+3, out)
	}
	rows := make([]string, 0, height)
	for _, l := range lines[1 : height+1] {
		rows = append(rows, strings.TrimSuffix(strings.TrimPrefix(l, "|"), "|"))
	}
	return rows
}

func TestNewTerminalRenderer_CreatesValidRenderer_WithCorrectDimensions(t *testing.T) {
	var buf bytes.Buffer
	renderer := newTestTerminal(&buf)

	if renderer.width != 40 || renderer.height != 20 || renderer.scale != 10 {
		t.Errorf("unexpected renderer %dx%d scale %v", renderer.width, renderer.height, renderer.scale)
	}
	if len(renderer.buffer) != 20 || len(renderer.buffer[0]) != 40 {
		t.Errorf("buffer is %dx%d", len(renderer.buffer[0]), len(renderer.buffer))
	}
}

func TestTerminalRenderer_VehicleAtCenter(t *testing.T) {
	var buf bytes.Buffer
	renderer := newTestTerminal(&buf)

	snap := testSnapshot()
	snap.State.Heading = 0
	snap.State.Zoom = 1
	DrawFrame(renderer, snap)

	rows := frameRows(t, buf.String(), 20)
	if got := rows[10][20]; got != '>' {
		t.Errorf("center cell = %q, want '>'", got)
	}
	if strings.Contains(buf.String(), "#") {
		t.Error("world edge drawn in the middle of the world")
	}
	if !strings.Contains(buf.String(), "GEAR  3") {
		t.Error("status line missing")
	}
}

func TestTerminalRenderer_DrawsWorldEdge(t *testing.T) {
	var buf bytes.Buffer
	renderer := newTestTerminal(&buf)

	snap := testSnapshot()
	snap.State.Position = physics.Vector2D{X: 0, Y: 0}
	snap.State.Zoom = 1
	DrawFrame(renderer, snap)

	rows := frameRows(t, buf.String(), 20)
	if rows[0][0] != '#' {
		t.Errorf("top-left cell = %q, want '#'", rows[0][0])
	}
	if rows[19][39] == '#' {
		t.Error("bottom-right cell is inside the world")
	}
}

func TestTerminalRenderer_ZoomWidensView(t *testing.T) {
	var buf bytes.Buffer
	renderer := newTestTerminal(&buf)

	snap := testSnapshot()
	snap.State.Zoom = 1
	renderer.RenderVehicle(snap.State)
	near := renderer.cellSize()

	snap.State.Zoom = 0.5
	renderer.RenderVehicle(snap.State)
	if far := renderer.cellSize(); far != 2*near {
		t.Errorf("cell size at half zoom = %v, want %v", far, 2*near)
	}
}

func TestTerminalRenderer_ANSI(t *testing.T) {
	var buf bytes.Buffer
	renderer := newTestTerminal(&buf)
	renderer.SetANSI(true)
	DrawFrame(renderer, testSnapshot())

	if !strings.HasPrefix(buf.String(), "\033[H\033[2J") {
		t.Error("frame does not start with a clear sequence")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTerminalRenderer_WriteError(t *testing.T) {
	renderer := NewTerminalRenderer(failingWriter{}, 10, 5, 10, Background{Width: 100, Height: 100}, 4)
	DrawFrame(renderer, engine.Snapshot{State: physics.VehicleState{Zoom: 1}})

	if renderer.Err() == nil {
		t.Error("Err() = nil after a failed write")
	}
}

func TestHeadingGlyph(t *testing.T) {
	tests := []struct {
		heading float64
		want    rune
	}{
		{0, '>'},
		{90, 'v'},
		{180, '<'},
		{270, '^'},
		{359, '>'},
		{44, '\\'},
		{135, '/'},
	}

	for _, tt := range tests {
		if got := headingGlyph(tt.heading); got != tt.want {
			t.Errorf("headingGlyph(%v) = %q, want %q", tt.heading, got, tt.want)
		}
	}
}
