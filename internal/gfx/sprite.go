package gfx

import (
	"errors"
	"fmt"
	"image"
	"time"
)

var ErrBadSheet = errors.New("invalid sprite sheet")

// SpriteSheet is an Image whose rows are animations and whose columns are
// the frames of each animation. Every frame is shown for Exposure.
type SpriteSheet struct {
	Key        string
	Image      *Image
	Frames     int
	Exposure   time.Duration
	animations map[string]int
}

// NewSpriteSheet validates that img has one row per animation and one
// column per frame.
func NewSpriteSheet(key string, img *Image, frames int, exposure time.Duration, animations []string) (*SpriteSheet, error) {
	switch {
	case frames <= 0:
		return nil, fmt.Errorf("sprite %q: frames must be positive: %w", key, ErrBadSheet)
	case exposure <= 0:
		return nil, fmt.Errorf("sprite %q: exposure must be positive: %w", key, ErrBadSheet)
	case len(animations) != img.Rows():
		return nil, fmt.Errorf("sprite %q: %d animations for %d rows: %w", key, len(animations), img.Rows(), ErrBadSheet)
	case img.Columns() != frames:
		return nil, fmt.Errorf("sprite %q: %d frames for %d columns: %w", key, frames, img.Columns(), ErrBadSheet)
	}
	s := &SpriteSheet{Key: key, Image: img, Frames: frames, Exposure: exposure, animations: make(map[string]int)}
	for i, name := range animations {
		s.animations[name] = i
	}
	return s, nil
}

// Animation returns the row index of the named animation.
func (s *SpriteSheet) Animation(name string) (int, bool) {
	i, ok := s.animations[name]
	return i, ok
}

// Cycle is the time one full play-through of an animation takes.
func (s *SpriteSheet) Cycle() time.Duration {
	return time.Duration(s.Frames) * s.Exposure
}

// Sprite is the playback state of one animation on a SpriteSheet. A sprite
// without a sheet never plays or draws.
type Sprite struct {
	Sheet     *SpriteSheet
	animation int
	frame     int
	exposed   time.Duration
	playing   bool
	looping   bool
}

// NewSprite returns a stopped sprite showing frame 0 of the first animation.
func NewSprite(sheet *SpriteSheet) *Sprite {
	return &Sprite{Sheet: sheet}
}

// Play starts playback. An unknown or empty name keeps the current
// animation; reset rewinds to the first frame.
func (s *Sprite) Play(name string, loop, reset bool) {
	if s.Sheet == nil {
		return
	}
	s.playing = true
	if i, ok := s.Sheet.Animation(name); ok {
		s.animation = i
	}
	s.looping = loop
	if reset {
		s.rewind()
	}
}

// Stop halts playback, optionally rewinding to the first frame.
func (s *Sprite) Stop(reset bool) {
	s.playing = false
	if reset {
		s.rewind()
	}
}

func (s *Sprite) rewind() {
	s.frame = 0
	s.exposed = 0
}

// Playing reports whether the animation is advancing.
func (s *Sprite) Playing() bool { return s.playing }

// Frame returns the current animation row and frame column.
func (s *Sprite) Frame() (animation, frame int) { return s.animation, s.frame }

// Update advances the animation by elapsed. A one-shot animation stops on
// its last frame.
func (s *Sprite) Update(elapsed time.Duration) {
	if !s.playing || s.Sheet == nil {
		return
	}
	s.exposed += elapsed
	exposure := s.Sheet.Exposure
	if s.exposed < exposure {
		return
	}
	s.frame += int(s.exposed / exposure)
	s.exposed %= exposure
	if s.looping {
		s.frame %= s.Sheet.Frames
	} else if s.frame >= s.Sheet.Frames {
		s.playing = false
		s.frame = s.Sheet.Frames - 1
	}
}

// Draw renders the current frame into dest.
func (s *Sprite) Draw(c Canvas, dest, clip image.Rectangle) {
	if s.Sheet == nil {
		return
	}
	c.DrawCell(s.Sheet.Image, s.animation, s.frame, dest, clip)
}
