package input

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// DefaultHoldTimeout is how long a key counts as held after its last key
// event. Terminals report repeats but never key-up, and the first repeat
// arrives only after the keyboard's repeat delay (commonly 250-600ms).
const DefaultHoldTimeout = 600 * time.Millisecond

// Keymap binds tcell keys and runes to logical buttons.
type Keymap struct {
	Keys  map[tcell.Key]Button
	Runes map[rune]Button
}

// DefaultKeymap binds arrows, WASD and hjkl to movement, space/enter to
// action, x to attack and q/Esc to quit.
func DefaultKeymap() Keymap {
	return Keymap{
		Keys: map[tcell.Key]Button{
			tcell.KeyUp:     ButtonUp,
			tcell.KeyDown:   ButtonDown,
			tcell.KeyLeft:   ButtonLeft,
			tcell.KeyRight:  ButtonRight,
			tcell.KeyEnter:  ButtonAction,
			tcell.KeyEscape: ButtonQuit,
		},
		Runes: map[rune]Button{
			'w': ButtonUp, 'W': ButtonUp, 'k': ButtonUp, 'K': ButtonUp,
			's': ButtonDown, 'S': ButtonDown, 'j': ButtonDown, 'J': ButtonDown,
			'a': ButtonLeft, 'A': ButtonLeft, 'h': ButtonLeft, 'H': ButtonLeft,
			'd': ButtonRight, 'D': ButtonRight, 'l': ButtonRight, 'L': ButtonRight,
			' ': ButtonAction, 'e': ButtonAction, 'E': ButtonAction,
			'x': ButtonAttack, 'X': ButtonAttack,
			'q': ButtonQuit, 'Q': ButtonQuit,
		},
	}
}

// Lookup maps a key event to its button.
func (k Keymap) Lookup(ev *tcell.EventKey) (Button, bool) {
	if ev.Key() == tcell.KeyRune {
		b, ok := k.Runes[ev.Rune()]
		return b, ok
	}
	b, ok := k.Keys[ev.Key()]
	return b, ok
}

// Tracker feeds tcell key events into a State and synthesises releases for
// keys that stopped repeating.
type Tracker struct {
	State       *State
	Keymap      Keymap
	HoldTimeout time.Duration
	lastSeen    [numButtons]time.Time
}

// NewTracker returns a Tracker writing into st.
func NewTracker(st *State, km Keymap, hold time.Duration) *Tracker {
	if hold <= 0 {
		hold = DefaultHoldTimeout
	}
	return &Tracker{State: st, Keymap: km, HoldTimeout: hold}
}

// HandleKey presses the button bound to ev. Unbound keys are ignored.
func (t *Tracker) HandleKey(ev *tcell.EventKey, now time.Time) (Button, bool) {
	b, ok := t.Keymap.Lookup(ev)
	if !ok {
		return 0, false
	}
	t.State.Press(b)
	t.lastSeen[b] = now
	return b, true
}

// Expire releases every held button whose last key event is older than
// HoldTimeout.
func (t *Tracker) Expire(now time.Time) {
	for b := Button(0); b < numButtons; b++ {
		if t.State.IsDown(b) && now.Sub(t.lastSeen[b]) > t.HoldTimeout {
			t.State.Release(b)
		}
	}
}
