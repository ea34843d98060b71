package content

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"tilemosaic/internal/entity"
	"tilemosaic/internal/gamemap"
	"tilemosaic/internal/gfx"
)

// Library owns everything loaded from a pack for the lifetime of a session.
// Maps refer to each other only through the links Setup resolves against
// it.
type Library struct {
	Manifest Manifest
	Tilesets map[string]*gfx.Tileset
	Sprites  map[string]*gfx.SpriteSheet
	Maps     map[string]*gamemap.Map
	Levels   map[string]*LevelDescriptor
	Entities []*entity.Entity

	log   logrus.FieldLogger
	setup bool
}

func newLibrary(m Manifest, log logrus.FieldLogger) *Library {
	return &Library{
		Manifest: m,
		Tilesets: make(map[string]*gfx.Tileset),
		Sprites:  make(map[string]*gfx.SpriteSheet),
		Maps:     make(map[string]*gamemap.Map),
		Levels:   make(map[string]*LevelDescriptor),
		log:      log,
	}
}

// NewLibrary returns an empty library for packs assembled in code.
func NewLibrary(m Manifest, log logrus.FieldLogger) *Library {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return newLibrary(m, log)
}

// AddLevel validates d and adds its map under key. An invalid descriptor
// is not added.
func (l *Library) AddLevel(key string, d *LevelDescriptor) error {
	m, err := BuildMap(key, d)
	if err != nil {
		l.log.WithError(err).WithField("map", key).Warn("invalid level descriptor")
		return err
	}
	l.Maps[key] = m
	l.Levels[key] = d
	return nil
}

// Lookup implements gamemap.Registry.
func (l *Library) Lookup(key string) (*gamemap.Map, bool) {
	m, ok := l.Maps[key]
	return m, ok
}

// MapKeys returns the keys of all valid maps in sorted order.
func (l *Library) MapKeys() []string { return sortedKeys(l.Maps) }

// Setup resolves tileset, adjacency and warp keys and builds each level's
// entities through reg. Unresolved keys are left unlinked and reported in
// the returned error. Setup runs once; later calls do nothing.
func (l *Library) Setup(reg *entity.Registry) error {
	if l.setup {
		return nil
	}
	l.setup = true

	var errs []error
	for _, key := range l.MapKeys() {
		m, d := l.Maps[key], l.Levels[key]
		log := l.log.WithField("map", key)

		if ts, ok := l.Tilesets[d.Tileset]; ok {
			m.Tileset = ts
		} else {
			err := fmt.Errorf("map %q tileset %q: %w", key, d.Tileset, ErrUnknownKey)
			log.WithError(err).Warn("tileset not found")
			errs = append(errs, err)
		}
		if err := m.Link(l); err != nil {
			log.WithError(err).Warn("unresolved map links")
			errs = append(errs, err)
		}
		for i, ed := range d.Entities {
			e, err := l.buildEntity(reg, m, ed)
			if err != nil {
				err = fmt.Errorf("map %q entity %d: %w", key, i, err)
				log.WithError(err).Warn("entity skipped")
				errs = append(errs, err)
				continue
			}
			e.Spawn()
			l.Entities = append(l.Entities, e)
		}
	}
	return errors.Join(errs...)
}

func (l *Library) buildEntity(reg *entity.Registry, m *gamemap.Map, ed EntityDescriptor) (*entity.Entity, error) {
	spec := entity.Spec{
		Name:      ed.Name,
		Type:      ed.Type,
		X:         ed.Position.X,
		Y:         ed.Position.Y,
		Animation: ed.Animation,
		OnUse:     ed.OnUse,
		OnHit:     ed.OnHit,
		Message:   ed.Message,
	}
	if ed.Dimensions != nil {
		spec.Width, spec.Height = ed.Dimensions.Width, ed.Dimensions.Height
	}
	if ed.Sprite != "" {
		sheet, ok := l.Sprites[ed.Sprite]
		if !ok {
			return nil, fmt.Errorf("sprite %q: %w", ed.Sprite, ErrUnknownKey)
		}
		spec.Sheet = sheet
	}
	return reg.Build(spec, m)
}

// SpawnStart creates and places the player entity described by the
// manifest's start record.
func (l *Library) SpawnStart() (*entity.Entity, error) {
	st := l.Manifest.Start
	if st.Map == "" {
		return nil, ErrNoStart
	}
	m, ok := l.Maps[st.Map]
	if !ok {
		return nil, fmt.Errorf("start map %q: %w", st.Map, ErrUnknownKey)
	}
	name := st.Name
	if name == "" {
		name = "player"
	}
	e := entity.New(name, m, st.X, st.Y)
	e.Type = "player"
	if st.Sprite != "" {
		sheet, ok := l.Sprites[st.Sprite]
		if !ok {
			return nil, fmt.Errorf("start sprite %q: %w", st.Sprite, ErrUnknownKey)
		}
		e.SetSprite(gfx.NewSprite(sheet))
	}
	if !m.Grid.InBounds(e.Cell().Row, e.Cell().Column) {
		return nil, fmt.Errorf("start %v on map %q: %w", e.Cell(), st.Map, ErrStartOutOfBounds)
	}
	e.Spawn()
	return e, nil
}
