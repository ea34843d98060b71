package geom

import "strings"

// Axis selects the X or Y component of a Point.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// Direction is one of the four cardinal directions, or None.
// The order of Up..Right matches the adjacency order of level descriptors.
type Direction int8

const (
	None Direction = iota - 1
	Up
	Down
	Left
	Right
)

// Directions lists the four cardinal directions in adjacency order.
var Directions = [4]Direction{Up, Down, Left, Right}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool { return d >= Up && d <= Right }

// Delta returns the unit vector of d in (column, row) order.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Axis returns the axis d moves along.
func (d Direction) Axis() Axis {
	if d == Left || d == Right {
		return AxisX
	}
	return AxisY
}

// Sign is -1 for Up/Left, +1 for Down/Right and 0 for None.
func (d Direction) Sign() float64 {
	switch d {
	case Up, Left:
		return -1
	case Down, Right:
		return 1
	}
	return 0
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return None
}

// Suffix is appended to a movement mode to name its animation, e.g. "walk-left".
func (d Direction) Suffix() string {
	if !d.Valid() {
		return ""
	}
	return "-" + d.String()
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// ParseDirection is the inverse of String. Unknown names yield None.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up
	case "down":
		return Down
	case "left":
		return Left
	case "right":
		return Right
	}
	return None
}
