package sparrow

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// Technique is a named shader variant of an Effect. A nil Shader draws with
// the built-in textured-triangle pipeline.
type Technique struct {
	Name   string
	Shader *ebiten.Shader
}

// ParameterLookup reports whether a shader declares the named uniform.
type ParameterLookup func(name string) bool

// CustomDrawFunc replaces the default primitive submission for nodes drawn
// while the effect is current.
type CustomDrawFunc func(n *Node, rs *RenderSupport, parentTransform [6]float64) error

// Effect is a shader program plus its uniform values. Effects are pushed
// onto the render support's effect stack while a node draws.
type Effect struct {
	Name string

	// Lookup resolves parameter names the first time they are requested.
	// Nil accepts every name.
	Lookup ParameterLookup

	// CustomDraw, when set, is called instead of batching quads.
	CustomDraw CustomDrawFunc

	techniques []Technique
	active     int
	params     map[string]*EffectParameter
	uniforms   map[string]any
}

// NewEffect creates an effect. With no techniques the effect uses the
// built-in pipeline.
func NewEffect(name string, techniques ...Technique) *Effect {
	if len(techniques) == 0 {
		techniques = []Technique{{Name: "default"}}
	}
	return &Effect{
		Name:       name,
		techniques: techniques,
		params:     make(map[string]*EffectParameter),
		uniforms:   make(map[string]any),
	}
}

// NewShaderEffect compiles Kage source into a single-technique effect.
func NewShaderEffect(name string, src []byte) (*Effect, error) {
	sh, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("sparrow: compile effect %q: %w", name, err)
	}
	return NewEffect(name, Technique{Name: name, Shader: sh}), nil
}

// Techniques returns the effect's techniques.
func (e *Effect) Techniques() []Technique { return e.techniques }

// ActiveTechnique returns the technique used for draws.
func (e *Effect) ActiveTechnique() Technique { return e.techniques[e.active] }

// SetTechnique selects a technique by name.
func (e *Effect) SetTechnique(name string) error {
	for i, t := range e.techniques {
		if t.Name == name {
			e.active = i
			return nil
		}
	}
	return fmt.Errorf("sparrow: effect %q has no technique %q: %w", e.Name, name, ErrInvalidArgument)
}

// Parameter returns the named uniform, or nil if the shader does not declare
// it. The lookup runs once per name; later calls hit the cache.
func (e *Effect) Parameter(name string) *EffectParameter {
	if p, ok := e.params[name]; ok {
		return p
	}
	var p *EffectParameter
	if e.Lookup == nil || e.Lookup(name) {
		p = &EffectParameter{name: name, effect: e}
	}
	e.params[name] = p
	return p
}

// EffectParameter is a handle to one uniform of an Effect.
type EffectParameter struct {
	name   string
	effect *Effect
}

// Name returns the uniform name.
func (p *EffectParameter) Name() string { return p.name }

// SetValue stores the uniform value used by subsequent flushes. Values are
// passed to ebiten as-is (float32, []float32, int and friends).
func (p *EffectParameter) SetValue(v any) {
	p.effect.uniforms[p.name] = v
}

// Value returns the stored uniform value.
func (p *EffectParameter) Value() any {
	return p.effect.uniforms[p.name]
}
