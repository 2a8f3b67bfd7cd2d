// Package effects is the factory for clip effects and transitions. Effects
// are looked up by identifier; their parameter model is opaque to the editor.
package effects

import (
	"errors"
	"fmt"
	"maps"
	"sort"
)

var (
	ErrUnknownEffect = errors.New("unknown effect")
	ErrNotTransition = errors.New("effect is not a transition")
	ErrDuplicate     = errors.New("effect already registered")
)

// Kind is the media type an effect applies to.
type Kind int

const (
	KindVideo Kind = iota
	KindAudio
)

func (k Kind) String() string {
	if k == KindAudio {
		return "audio"
	}
	return "video"
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "video":
		return KindVideo, nil
	case "audio":
		return KindAudio, nil
	}
	return KindVideo, fmt.Errorf("invalid effect kind %q", s)
}

type Descriptor struct {
	ID         string
	Name       string
	Kind       Kind
	Transition bool
	Defaults   map[string]string
}

// Effect is an instance attached to a clip.
type Effect struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Kind    Kind              `json:"kind"`
	Enabled bool              `json:"enabled"`
	Params  map[string]string `json:"params,omitempty"`
}

func (e Effect) Copy() Effect {
	e.Params = maps.Clone(e.Params)
	return e
}

func CopyAll(list []Effect) []Effect {
	if list == nil {
		return nil
	}
	out := make([]Effect, len(list))
	for i, e := range list {
		out[i] = e.Copy()
	}
	return out
}

type Registry struct {
	descs map[string]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{descs: make(map[string]Descriptor)}
}

// Default returns a registry holding the built-in effects and transitions.
func Default() *Registry {
	r := NewRegistry()
	for _, d := range builtins {
		_ = r.Register(d)
	}
	return r
}

var builtins = []Descriptor{
	{ID: "transform", Name: "Transform", Kind: KindVideo, Defaults: map[string]string{"scale": "100", "rotation": "0"}},
	{ID: "opacity", Name: "Opacity", Kind: KindVideo, Defaults: map[string]string{"opacity": "100"}},
	{ID: "volume", Name: "Volume", Kind: KindAudio, Defaults: map[string]string{"volume": "100"}},
	{ID: "pan", Name: "Pan", Kind: KindAudio, Defaults: map[string]string{"pan": "0"}},
	{ID: "cross-dissolve", Name: "Cross Dissolve", Kind: KindVideo, Transition: true},
	{ID: "dip-to-black", Name: "Dip to Black", Kind: KindVideo, Transition: true},
	{ID: "linear-fade", Name: "Linear Fade", Kind: KindAudio, Transition: true},
	{ID: "exponential-fade", Name: "Exponential Fade", Kind: KindAudio, Transition: true},
}

func (r *Registry) Register(d Descriptor) error {
	if d.ID == "" {
		return fmt.Errorf("effect id is required")
	}
	if _, ok := r.descs[d.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, d.ID)
	}
	r.descs[d.ID] = d
	return nil
}

func (r *Registry) Lookup(id string) (Descriptor, bool) {
	d, ok := r.descs[id]
	return d, ok
}

// Create instantiates the effect registered under id.
func (r *Registry) Create(id string) (Effect, error) {
	d, ok := r.descs[id]
	if !ok {
		return Effect{}, fmt.Errorf("%w: %s", ErrUnknownEffect, id)
	}
	return Effect{
		ID:      d.ID,
		Name:    d.Name,
		Kind:    d.Kind,
		Enabled: true,
		Params:  maps.Clone(d.Defaults),
	}, nil
}

// CreateTransition checks that id names a transition of the requested kind.
func (r *Registry) CreateTransition(id string, kind Kind) (Descriptor, error) {
	d, ok := r.descs[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownEffect, id)
	}
	if !d.Transition {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNotTransition, id)
	}
	if d.Kind != kind {
		return Descriptor{}, fmt.Errorf("transition %s is %s, clip track is %s", id, d.Kind, kind)
	}
	return d, nil
}

// List returns descriptors sorted by id.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.descs))
	for _, d := range r.descs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
