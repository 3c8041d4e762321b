// Package dialog renders spoken-style response lines from keyed template
// sets. Each key maps to one or more phrasing variants; rendering picks a
// variant at random and substitutes {placeholder} values, which is how the
// host voice platform expects response text to be produced.
//
// Built-in defaults cover every query the skill layer can answer; deployers
// can override or extend them with a YAML file ([LoadFile]).
package dialog

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Option is a functional option for configuring a [Renderer].
type Option func(*Renderer)

// WithPick replaces the variant picker. pick(n) must return a value in
// [0, n). The default picker uses [math/rand/v2]; tests inject a
// deterministic one.
func WithPick(pick func(n int) int) Option {
	return func(r *Renderer) {
		r.pick = pick
	}
}

// Renderer holds the template sets. It is read-only after construction and
// safe for concurrent use.
type Renderer struct {
	templates map[string][]string
	pick      func(n int) int
}

// New returns a [Renderer] seeded with the built-in template sets.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		templates: defaultTemplates(),
		pick:      rand.IntN,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render picks a variant for key and substitutes every {name} placeholder
// from vars. Unknown keys are an error: a missing template is a deploy-time
// defect, not a per-query condition.
func (r *Renderer) Render(key string, vars map[string]string) (string, error) {
	variants, ok := r.templates[key]
	if !ok || len(variants) == 0 {
		return "", fmt.Errorf("dialog: no template for key %q", key)
	}

	line := variants[r.pick(len(variants))]
	if len(vars) == 0 {
		return line, nil
	}

	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(line), nil
}

// Has reports whether key has at least one template variant.
func (r *Renderer) Has(key string) bool {
	return len(r.templates[key]) > 0
}

// defaultTemplates returns the built-in template sets.
func defaultTemplates() map[string][]string {
	return map[string][]string{
		"stat.value": {
			"{pokemon} has a base {stat} of {value}.",
			"The base {stat} of {pokemon} is {value}.",
		},
		"type.single": {
			"{pokemon} is a {type1} type.",
		},
		"type.dual": {
			"{pokemon} is a {type1} and {type2} type.",
		},
		"ability.list": {
			"{pokemon} can have {abilities}.",
		},
		"weight": {
			"{pokemon} weighs {kilograms} kilograms.",
		},
		"height": {
			"{pokemon} is {meters} meters tall.",
		},
		"flavor": {
			"{pokemon}, the {genus}. {text}",
		},
		"flavor.plain": {
			"{text}",
		},
		"flavor.none": {
			"I have no Pokédex entry for {pokemon}.",
		},
		"evolve.into": {
			"{pokemon} evolves into {targets}.",
		},
		"evolve.into.none": {
			"{pokemon} does not evolve any further.",
		},
		"evolve.from": {
			"{pokemon} evolves from {source}.",
		},
		"evolve.from.none": {
			"{pokemon} does not evolve from anything.",
		},
		"evolve.final": {
			"The final form of {pokemon} is {targets}.",
			"{pokemon} ultimately becomes {targets}.",
		},
		"evolve.final.plural": {
			"The final forms of {pokemon} are {targets}.",
		},
		"evolve.final.self": {
			"{pokemon} is already a final form.",
		},
		"fallback.unknown_entity": {
			"I am not sure which Pokémon you mean.",
			"I could not find that Pokémon.",
		},
		"fallback.unknown_intent": {
			"I can tell you about a Pokémon's stats, types, abilities, size and evolutions. What would you like to know?",
		},
	}
}
