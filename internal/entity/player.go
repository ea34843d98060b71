package entity

import (
	"time"

	"github.com/sirupsen/logrus"

	"tilemosaic/internal/geom"
	"tilemosaic/internal/input"
)

// WalkMode is the movement mode players use.
const WalkMode = "walk"

// Player is the Controller for the user's entity. It polls an input.State
// it does not own, once per update.
type Player struct {
	Input *input.State
	Mode  string
	Log   logrus.FieldLogger

	// OnMoved is called after every completed move, with warped set when
	// the move ended on a warp that was taken.
	OnMoved func(e *Entity, warped bool)
}

// NewPlayer attaches a Player controller reading in to e.
func NewPlayer(e *Entity, in *input.State, log logrus.FieldLogger) *Player {
	if log == nil {
		log = logrus.StandardLogger()
	}
	p := &Player{Input: in, Mode: WalkMode, Log: log}
	e.Controller = p
	return p
}

// Control implements Controller.
func (p *Player) Control(e *Entity, _ time.Duration) {
	if p.Input == nil {
		return
	}
	if d := p.Input.HeldDirection(); d != geom.None {
		if r := e.TryMove(d, p.Mode, true); r != MoveOK && r != MoveBusy && e.Map != nil {
			p.Log.WithFields(logrus.Fields{"map": e.Map.Key, "dir": d, "result": r}).Trace("move rejected")
		}
	}
	if p.Input.IsPressed(input.ButtonAttack) {
		d := e.Facing()
		if !d.Valid() {
			d = geom.Down
		}
		e.Attack(d)
	}
	if p.Input.IsActionPressed() {
		e.Interact()
	}
}

// Moved implements Controller.
func (p *Player) Moved(e *Entity, warped bool) {
	if warped {
		c := e.Cell()
		p.Log.WithFields(logrus.Fields{"map": e.Map.Key, "row": c.Row, "column": c.Column}).Debug("warped")
	}
	if p.OnMoved != nil {
		p.OnMoved(e, warped)
	}
}
