package physics

import "math"

// Vector2D is a point or displacement in world space.
// X grows to the right and Y grows downward, matching screen coordinates.
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance between two vectors
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// FromAngle creates a vector from an angle in radians and a magnitude
func FromAngle(angle float64, magnitude float64) Vector2D {
	return Vector2D{
		X: magnitude * math.Cos(angle),
		Y: magnitude * math.Sin(angle),
	}
}

// FromHeading creates a vector from a heading in degrees and a magnitude.
func FromHeading(degrees float64, magnitude float64) Vector2D {
	return FromAngle(DegToRad(degrees), magnitude)
}

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// WrapDegrees maps an angle in degrees into [0, 360).
func WrapDegrees(degrees float64) float64 {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d -= 360
	}
	return d
}

// Quantize rounds v to three decimal places.
func Quantize(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// approach moves v toward zero by step without crossing it.
func approach(v, step float64) float64 {
	switch {
	case v > 0:
		return math.Max(0, v-step)
	case v < 0:
		return math.Min(0, v+step)
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
