package entity

import (
	"errors"
	"fmt"
	"sort"

	"tilemosaic/internal/gamemap"
	"tilemosaic/internal/gfx"
)

var (
	ErrUnknownType    = errors.New("unknown entity type")
	ErrUnknownHandler = errors.New("unknown handler")
)

// Spec describes one entity to build, as read from a level descriptor.
type Spec struct {
	Name          string
	Type          string
	X, Y          float64
	Width, Height float64
	Sheet         *gfx.SpriteSheet
	Animation     string // played looping on spawn when set
	OnUse         string
	OnHit         string
	Message       string
}

// Factory builds an entity of one type on m.
type Factory func(spec Spec, m *gamemap.Map) *Entity

// HandlerFactory binds a named interaction to the Spec of the entity that
// will carry it.
type HandlerFactory func(spec Spec) Handler

// Messenger receives text produced by interactions.
type Messenger interface {
	Post(msg string)
}

// Registry maps descriptor type and handler names to Go code. Nothing is
// evaluated from descriptor data; unknown names are errors.
type Registry struct {
	types    map[string]Factory
	handlers map[string]HandlerFactory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Factory), handlers: make(map[string]HandlerFactory)}
}

// RegisterType binds name to f, replacing any earlier binding.
func (r *Registry) RegisterType(name string, f Factory) { r.types[name] = f }

// RegisterHandler binds name to h, replacing any earlier binding.
func (r *Registry) RegisterHandler(name string, h HandlerFactory) { r.handlers[name] = h }

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Build constructs spec on m and binds its handlers. The entity is not
// placed on m.
func (r *Registry) Build(spec Spec, m *gamemap.Map) (*Entity, error) {
	typ := spec.Type
	if typ == "" {
		typ = "npc"
	}
	f, ok := r.types[typ]
	if !ok {
		return nil, fmt.Errorf("entity %q type %q: %w", spec.Name, typ, ErrUnknownType)
	}
	onUse, err := r.handler(spec, spec.OnUse)
	if err != nil {
		return nil, err
	}
	onHit, err := r.handler(spec, spec.OnHit)
	if err != nil {
		return nil, err
	}
	e := f(spec, m)
	e.Type = typ
	e.OnUse = onUse
	e.OnHit = onHit
	return e, nil
}

func (r *Registry) handler(spec Spec, name string) (Handler, error) {
	if name == "" {
		return nil, nil
	}
	hf, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("entity %q handler %q: %w", spec.Name, name, ErrUnknownHandler)
	}
	return hf(spec), nil
}

// fromSpec builds the plain entity every default type starts from.
func fromSpec(spec Spec, m *gamemap.Map) *Entity {
	e := New(spec.Name, m, spec.X, spec.Y)
	if spec.Width > 0 {
		e.Location.Width = spec.Width
	}
	if spec.Height > 0 {
		e.Location.Height = spec.Height
	}
	if spec.Sheet != nil {
		e.SetSprite(gfx.NewSprite(spec.Sheet))
		if spec.Animation != "" {
			e.Sprite.Play(spec.Animation, true, true)
		}
	}
	return e
}

// DefaultRegistry knows the "npc" and "item" types and the "talk",
// "pickup" and "break" handlers. Messages go to out, which may be nil.
func DefaultRegistry(out Messenger) *Registry {
	post := func(format string, args ...any) {
		if out != nil {
			out.Post(fmt.Sprintf(format, args...))
		}
	}

	r := NewRegistry()
	r.RegisterType("npc", fromSpec)
	r.RegisterType("item", fromSpec)

	r.RegisterHandler("talk", func(spec Spec) Handler {
		msg := spec.Message
		return func(target, actor *Entity) {
			// Turn to face whoever is talking.
			target.SetFacing(actor.Facing().Opposite())
			if msg == "" {
				post("%s has nothing to say.", target)
				return
			}
			post("%s: %s", target, msg)
		}
	})
	r.RegisterHandler("pickup", func(Spec) Handler {
		return func(target, actor *Entity) {
			if target.Map != nil {
				target.Map.Remove(target)
			}
			post("%s picked up %s.", actor, target)
		}
	})
	r.RegisterHandler("break", func(Spec) Handler {
		return func(target, actor *Entity) {
			if target.Map != nil {
				target.Map.Remove(target)
			}
			post("%s broke %s.", actor, target)
		}
	})
	return r
}
