package physics

// Contact records which world edges the vehicle touched during a clamp.
type Contact struct {
	Left   bool
	Right  bool
	Top    bool
	Bottom bool
}

// Any reports whether any edge was touched.
func (c Contact) Any() bool {
	return c.Left || c.Right || c.Top || c.Bottom
}

// Merge combines the edges touched in two clamps.
func (c Contact) Merge(other Contact) Contact {
	return Contact{
		Left:   c.Left || other.Left,
		Right:  c.Right || other.Right,
		Top:    c.Top || other.Top,
		Bottom: c.Bottom || other.Bottom,
	}
}

// Bounds is the area the vehicle's top-left corner may occupy:
// [0, Width-VehicleSize] x [0, Height-VehicleSize].
type Bounds struct {
	Width       float64
	Height      float64
	VehicleSize float64
}

// MaxX returns the largest allowed X coordinate.
func (b Bounds) MaxX() float64 {
	return b.Width - b.VehicleSize
}

// MaxY returns the largest allowed Y coordinate.
func (b Bounds) MaxY() float64 {
	return b.Height - b.VehicleSize
}

// Contains checks if a point is inside the bounds, edges included.
func (b Bounds) Contains(p Vector2D) bool {
	return p.X >= 0 && p.X <= b.MaxX() && p.Y >= 0 && p.Y <= b.MaxY()
}

// Center returns the middle of the drivable area.
func (b Bounds) Center() Vector2D {
	return Vector2D{X: b.MaxX() / 2, Y: b.MaxY() / 2}
}

// Clamp pins each axis that has reached or crossed an edge to that edge.
// Touching an edge exactly counts as contact.
func (b Bounds) Clamp(p Vector2D) (Vector2D, Contact) {
	c := Contact{
		Left:   p.X <= 0,
		Right:  p.X >= b.MaxX(),
		Top:    p.Y <= 0,
		Bottom: p.Y >= b.MaxY(),
	}

	if c.Left {
		p.X = 0
	}
	if c.Right {
		p.X = b.MaxX()
	}
	if c.Top {
		p.Y = 0
	}
	if c.Bottom {
		p.Y = b.MaxY()
	}
	return p, c
}
