// Package input tracks the state of logical buttons. A State is owned by
// whoever creates it and passed explicitly to the components that read it.
package input

import "tilemosaic/internal/geom"

// Button is a logical control, independent of the physical key bound to it.
type Button uint8

const (
	ButtonUp Button = iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonAction
	ButtonAttack
	ButtonQuit
	numButtons
)

func (b Button) String() string {
	switch b {
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonAction:
		return "action"
	case ButtonAttack:
		return "attack"
	case ButtonQuit:
		return "quit"
	}
	return "unknown"
}

// DirectionButton returns the button bound to a movement direction.
func DirectionButton(d geom.Direction) (Button, bool) {
	switch d {
	case geom.Up:
		return ButtonUp, true
	case geom.Down:
		return ButtonDown, true
	case geom.Left:
		return ButtonLeft, true
	case geom.Right:
		return ButtonRight, true
	}
	return 0, false
}

type buttonState struct {
	current  bool
	pressed  bool
	released bool
}

// State holds current/pressed/released flags for every button.
// Pressed and released are edges that last until EndTick.
type State struct {
	buttons [numButtons]buttonState
}

// NewState returns a State with every button up.
func NewState() *State { return &State{} }

// Press marks b down. The pressed edge is only raised on a transition.
func (s *State) Press(b Button) {
	if b >= numButtons {
		return
	}
	st := &s.buttons[b]
	if !st.current {
		st.pressed = true
	}
	st.current = true
}

// Release marks b up, raising the released edge if it was down.
func (s *State) Release(b Button) {
	if b >= numButtons {
		return
	}
	st := &s.buttons[b]
	if st.current {
		st.released = true
	}
	st.current = false
}

// EndTick clears the pressed/released edges. Call once after each update.
func (s *State) EndTick() {
	for i := range s.buttons {
		s.buttons[i].pressed = false
		s.buttons[i].released = false
	}
}

// IsDown reports whether b is currently held.
func (s *State) IsDown(b Button) bool { return b < numButtons && s.buttons[b].current }

// IsPressed reports whether b went down this tick.
func (s *State) IsPressed(b Button) bool { return b < numButtons && s.buttons[b].pressed }

// IsReleased reports whether b went up this tick.
func (s *State) IsReleased(b Button) bool { return b < numButtons && s.buttons[b].released }

// IsDirectionHeld reports whether the button for d is held.
func (s *State) IsDirectionHeld(d geom.Direction) bool {
	b, ok := DirectionButton(d)
	return ok && s.IsDown(b)
}

// IsActionPressed reports whether the action button went down this tick.
func (s *State) IsActionPressed() bool { return s.IsPressed(ButtonAction) }

// HeldDirection returns the first held direction in Up, Down, Left, Right
// order, or geom.None.
func (s *State) HeldDirection() geom.Direction {
	for _, d := range geom.Directions {
		if s.IsDirectionHeld(d) {
			return d
		}
	}
	return geom.None
}
