package physics

import (
	"fmt"
	"strconv"
)

// Gear is a transmission position. Values are ordered: reverse < neutral < 1 < 2 ...
type Gear int8

const (
	GearReverse Gear = -1
	GearNeutral Gear = 0
	Gear1       Gear = 1
)

// String returns "R", "N" or the forward gear number.
func (g Gear) String() string {
	switch {
	case g == GearReverse:
		return "R"
	case g == GearNeutral:
		return "N"
	case g > 0:
		return strconv.Itoa(int(g))
	}
	return fmt.Sprintf("Gear(%d)", int8(g))
}

// Engaged reports whether the gear couples the engine to the wheels.
func (g Gear) Engaged() bool {
	return g != GearNeutral
}

// Gearbox holds the ratio for reverse and for each forward gear.
// The number of forward ratios determines the top gear.
type Gearbox struct {
	Reverse float64
	Forward []float64
}

// Top returns the highest forward gear.
func (gb Gearbox) Top() Gear {
	return Gear(len(gb.Forward))
}

// Ratio returns the ratio of an engaged gear and false for neutral or
// gears the box does not have.
func (gb Gearbox) Ratio(g Gear) (float64, bool) {
	switch {
	case g == GearReverse:
		return gb.Reverse, true
	case g > 0 && int(g) <= len(gb.Forward):
		return gb.Forward[g-1], true
	}
	return 0, false
}

// ShiftUp returns the next gear in order, staying put at the top gear.
func (gb Gearbox) ShiftUp(g Gear) Gear {
	if g >= gb.Top() {
		return gb.Top()
	}
	return g + 1
}

// ShiftDown returns the previous gear in order, staying put at reverse.
func (gb Gearbox) ShiftDown(g Gear) Gear {
	if g <= GearReverse {
		return GearReverse
	}
	if g > gb.Top() {
		return gb.Top()
	}
	return g - 1
}
