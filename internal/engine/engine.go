// Package engine maps a question's engine tag to the renderer that draws its
// payload in the terminal.
package engine

import (
	"encoding/json"
	"maps"
	"slices"
)

// Renderer draws an engine payload. Implementations must not fail: a
// payload they cannot read renders as the empty string.
type Renderer interface {
	Render(data json.RawMessage, width int) string
}

// Choice is one clickable answer offered by an engine.
type Choice struct {
	Label string
	Value string
}

// Chooser is implemented by click-to-answer engines. The Value of the picked
// Choice is reported to the session controller as the answer.
type Chooser interface {
	Choices(data json.RawMessage) []Choice
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(data json.RawMessage, width int) string

func (f RendererFunc) Render(data json.RawMessage, width int) string {
	return f(data, width)
}

type nullRenderer struct{}

func (nullRenderer) Render(json.RawMessage, int) string { return "" }

// Null renders nothing. Lookup returns it for unknown tags.
var Null Renderer = nullRenderer{}

// Registry maps engine tags to renderers. It is read-only after New.
type Registry struct {
	byTag map[string]Renderer
}

// New builds a registry from a tag map. The map is copied.
func New(renderers map[string]Renderer) *Registry {
	r := &Registry{byTag: make(map[string]Renderer, len(renderers))}
	for tag, rr := range renderers {
		if rr != nil {
			r.byTag[tag] = rr
		}
	}
	return r
}

// Default returns a registry with every built-in terminal renderer.
func Default() *Registry {
	nl := numberLine{}
	return New(map[string]Renderer{
		"numberLine":    nl,
		"number_line":   nl,
		"tenFrame":      tenFrame{},
		"fractionsArea": fractionsArea{},
		"cubes":         cubes{},
		"array":         array{},
		"money":         money{},
		"vertical":      vertical{},
		"integerChips":  integerChips{},
		"equation":      equation{},
		"picture":       picture{},
		"selection":     selection{},
		"fact":          fact{},

		"equation_check":        equationCheck{},
		"equation_fill":         equationFill{},
		"make_number":           makeNumber{},
		"add_three":             addThree{},
		"fact_family":           factFamily{},
		"model_match":           modelMatch{},
		"place_value_add":       placeValueAdd{},
		"word_problem":          wordProblem{},
		"word_problem_model":    wordProblemModel{},
		"word_problem_sentence": wordProblemSentence{},
	})
}

// Lookup returns the renderer for tag, or Null.
func (r *Registry) Lookup(tag string) Renderer {
	if r == nil {
		return Null
	}
	if rr, ok := r.byTag[tag]; ok {
		return rr
	}
	return Null
}

// Has reports whether tag has a registered renderer.
func (r *Registry) Has(tag string) bool {
	if r == nil {
		return false
	}
	_, ok := r.byTag[tag]
	return ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.byTag))
}

// Choices returns the clickable answers for tag, or nil when the engine is
// free-text only.
func (r *Registry) Choices(tag string, data json.RawMessage) []Choice {
	if c, ok := r.Lookup(tag).(Chooser); ok {
		return c.Choices(data)
	}
	return nil
}
