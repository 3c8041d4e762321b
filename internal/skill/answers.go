package skill

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/dexvox/dexvox/internal/dex"
	"github.com/dexvox/dexvox/internal/observe"
	"github.com/dexvox/dexvox/pkg/dexapi"
)

// answer produces the spoken reply for a classified query about entity.
func (d *Dispatcher) answer(ctx context.Context, q Query, entity string) (string, error) {
	switch q.Intent {
	case IntentStat:
		return d.answerStat(ctx, entity, q.Stat)
	case IntentType:
		return d.answerType(ctx, entity)
	case IntentAbility:
		return d.answerAbility(ctx, entity)
	case IntentWeight:
		return d.answerWeight(ctx, entity)
	case IntentHeight:
		return d.answerHeight(ctx, entity)
	case IntentDescribe:
		return d.answerDescribe(ctx, entity)
	case IntentEvolveInto:
		return d.answerEvolveInto(ctx, entity)
	case IntentEvolveFrom:
		return d.answerEvolveFrom(ctx, entity)
	case IntentFinalStage:
		return d.answerFinalStage(ctx, entity)
	default:
		return "", fmt.Errorf("skill: unhandled intent %q", q.Intent)
	}
}

func (d *Dispatcher) answerStat(ctx context.Context, entity, stat string) (string, error) {
	p, err := d.getPokemon(ctx, entity)
	if err != nil {
		return "", err
	}
	for _, sv := range p.Stats {
		if sv.Stat.Name == stat {
			return d.render.Render("stat.value", map[string]string{
				"pokemon": displayName(entity),
				"stat":    displayName(stat),
				"value":   strconv.Itoa(sv.BaseStat),
			})
		}
	}
	return "", fmt.Errorf("skill: record for %s carries no stat %q", entity, stat)
}

func (d *Dispatcher) answerType(ctx context.Context, entity string) (string, error) {
	p, err := d.getPokemon(ctx, entity)
	if err != nil {
		return "", err
	}
	types := slices.Clone(p.Types)
	slices.SortFunc(types, func(a, b dexapi.TypeSlot) int { return a.Slot - b.Slot })

	switch len(types) {
	case 0:
		return "", fmt.Errorf("skill: record for %s carries no types", entity)
	case 1:
		return d.render.Render("type.single", map[string]string{
			"pokemon": displayName(entity),
			"type1":   displayName(types[0].Type.Name),
		})
	default:
		return d.render.Render("type.dual", map[string]string{
			"pokemon": displayName(entity),
			"type1":   displayName(types[0].Type.Name),
			"type2":   displayName(types[1].Type.Name),
		})
	}
}

func (d *Dispatcher) answerAbility(ctx context.Context, entity string) (string, error) {
	p, err := d.getPokemon(ctx, entity)
	if err != nil {
		return "", err
	}
	if len(p.Abilities) == 0 {
		return "", fmt.Errorf("skill: record for %s carries no abilities", entity)
	}
	abilities := slices.Clone(p.Abilities)
	slices.SortFunc(abilities, func(a, b dexapi.AbilitySlot) int { return a.Slot - b.Slot })

	names := make([]string, 0, len(abilities))
	for _, a := range abilities {
		names = append(names, displayName(a.Ability.Name))
	}
	return d.render.Render("ability.list", map[string]string{
		"pokemon":   displayName(entity),
		"abilities": abilityPhrase(names),
	})
}

func (d *Dispatcher) answerWeight(ctx context.Context, entity string) (string, error) {
	p, err := d.getPokemon(ctx, entity)
	if err != nil {
		return "", err
	}
	return d.render.Render("weight", map[string]string{
		"pokemon":   displayName(entity),
		"kilograms": formatDeci(p.Weight),
	})
}

func (d *Dispatcher) answerHeight(ctx context.Context, entity string) (string, error) {
	p, err := d.getPokemon(ctx, entity)
	if err != nil {
		return "", err
	}
	return d.render.Render("height", map[string]string{
		"pokemon": displayName(entity),
		"meters":  formatDeci(p.Height),
	})
}

func (d *Dispatcher) answerDescribe(ctx context.Context, entity string) (string, error) {
	s, err := d.getSpecies(ctx, entity)
	if err != nil {
		return "", err
	}
	flavor := englishFlavor(s.FlavorTextEntries)
	if flavor == "" {
		return d.render.Render("flavor.none", map[string]string{
			"pokemon": displayName(entity),
		})
	}
	if genus := englishGenus(s.Genera); genus != "" {
		return d.render.Render("flavor", map[string]string{
			"pokemon": displayName(entity),
			"genus":   genus,
			"text":    flavor,
		})
	}
	return d.render.Render("flavor.plain", map[string]string{"text": flavor})
}

func (d *Dispatcher) answerEvolveInto(ctx context.Context, entity string) (string, error) {
	root, err := d.evolutionRoot(ctx, entity)
	if err != nil {
		return "", err
	}
	next := dex.NextStages(root, entity)
	if len(next) == 0 {
		return d.render.Render("evolve.into.none", map[string]string{
			"pokemon": displayName(entity),
		})
	}
	targets := make([]string, 0, len(next))
	for _, n := range next {
		targets = append(targets, displayName(n.Species)+conditionPhrase(n.Conditions))
	}
	return d.render.Render("evolve.into", map[string]string{
		"pokemon": displayName(entity),
		"targets": joinOr(targets),
	})
}

func (d *Dispatcher) answerEvolveFrom(ctx context.Context, entity string) (string, error) {
	root, err := d.evolutionRoot(ctx, entity)
	if err != nil {
		return "", err
	}
	prev, ok := dex.PreviousStage(root, entity)
	if !ok {
		return d.render.Render("evolve.from.none", map[string]string{
			"pokemon": displayName(entity),
		})
	}
	// The located node's own conditions describe the prev -> entity step.
	_, node, _ := dex.Locate(root, entity)
	return d.render.Render("evolve.from", map[string]string{
		"pokemon": displayName(entity),
		"source":  displayName(prev.Species) + conditionPhrase(node.Conditions),
	})
}

func (d *Dispatcher) answerFinalStage(ctx context.Context, entity string) (string, error) {
	root, err := d.evolutionRoot(ctx, entity)
	if err != nil {
		return "", err
	}
	_, node, ok := dex.Locate(root, entity)
	if !ok {
		// Species without a chain, or outside its own tree: it is its own
		// final form as far as anyone can tell.
		return d.render.Render("evolve.final.self", map[string]string{
			"pokemon": displayName(entity),
		})
	}

	finals := dex.FinalStages(node)
	if len(finals) == 1 && finals[0] == node {
		return d.render.Render("evolve.final.self", map[string]string{
			"pokemon": displayName(entity),
		})
	}

	names := make([]string, 0, len(finals))
	for _, f := range finals {
		names = append(names, displayName(f.Species))
	}
	if len(names) == 1 {
		return d.render.Render("evolve.final", map[string]string{
			"pokemon": displayName(entity),
			"targets": names[0],
		})
	}
	return d.render.Render("evolve.final.plural", map[string]string{
		"pokemon": displayName(entity),
		"targets": joinAnd(names),
	})
}

// evolutionRoot fetches and builds the evolution tree for entity. A nil
// root with nil error means the species has no chain at all; the tree
// queries treat a nil root as "not present", which yields the right
// fallback answers.
func (d *Dispatcher) evolutionRoot(ctx context.Context, entity string) (*dex.Node, error) {
	s, err := d.getSpecies(ctx, entity)
	if err != nil {
		return nil, err
	}
	if s.EvolutionChain.URL == "" {
		return nil, nil
	}
	wire, err := d.getChain(ctx, s.EvolutionChain.URL)
	if err != nil {
		return nil, err
	}
	root, err := dex.BuildChain(wire)
	if err != nil {
		observe.Logger(ctx).Error("skill: malformed evolution chain",
			"species", entity, "chain_url", s.EvolutionChain.URL, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", errChainIntegrity, entity, err)
	}
	return root, nil
}

// Fetch helpers wrap the client with per-record latency and error
// metrics. ErrNotFound is not an upstream error; it is an answerable
// condition handled in Handle.

func (d *Dispatcher) getPokemon(ctx context.Context, name string) (*dexapi.Pokemon, error) {
	start := time.Now()
	p, err := d.fetch.GetPokemon(ctx, name)
	d.recordFetch(ctx, "pokemon", start, err)
	return p, err
}

func (d *Dispatcher) getSpecies(ctx context.Context, name string) (*dexapi.Species, error) {
	start := time.Now()
	s, err := d.fetch.GetSpecies(ctx, name)
	d.recordFetch(ctx, "species", start, err)
	return s, err
}

func (d *Dispatcher) getChain(ctx context.Context, url string) (*dexapi.EvolutionChain, error) {
	start := time.Now()
	c, err := d.fetch.GetEvolutionChainByURL(ctx, url)
	d.recordFetch(ctx, "chain", start, err)
	return c, err
}

func (d *Dispatcher) recordFetch(ctx context.Context, record string, start time.Time, err error) {
	d.metrics.FetchDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(observe.Attr("record", record)))
	if err != nil && !errors.Is(err, dexapi.ErrNotFound) {
		d.metrics.RecordUpstreamError(ctx, record)
		observe.Logger(ctx).Warn("skill: upstream fetch failed", "record", record, "error", err)
	}
}

// formatDeci renders an upstream tenth-unit integer (hectograms,
// decimetres) as a decimal in the base unit: 605 -> "60.5", 40 -> "4".
func formatDeci(v int) string {
	return strconv.FormatFloat(float64(v)/10, 'f', -1, 64)
}

// englishFlavor returns the first English Pokédex entry with its layout
// control characters collapsed to single spaces.
func englishFlavor(entries []dexapi.FlavorText) string {
	for _, e := range entries {
		if e.Language.Name == "en" {
			return strings.Join(strings.Fields(e.Text), " ")
		}
	}
	return ""
}

// englishGenus returns the first English genus line, e.g. "Mouse Pokémon".
func englishGenus(genera []dexapi.Genus) string {
	for _, g := range genera {
		if g.Language.Name == "en" {
			return g.Genus
		}
	}
	return ""
}
