// Package skill turns transcribed utterances into spoken answers. It
// classifies the intent, resolves the mentioned species against the
// catalog, fetches the records the intent needs, walks evolution trees
// where asked, and renders the reply through the dialog templates.
package skill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dexvox/dexvox/internal/catalog"
	"github.com/dexvox/dexvox/internal/dialog"
	"github.com/dexvox/dexvox/internal/match"
	"github.com/dexvox/dexvox/internal/observe"
	"github.com/dexvox/dexvox/pkg/dexapi"
)

// errChainIntegrity marks evolution trees that violate the build-time
// invariants (duplicate species, missing root). Queries hitting one get a
// fallback answer instead of a transport error.
var errChainIntegrity = errors.New("skill: evolution chain integrity violation")

// Fetcher is the slice of the record client the dispatcher needs.
// [dexapi.Client] satisfies it; tests provide fakes.
type Fetcher interface {
	GetPokemon(ctx context.Context, name string) (*dexapi.Pokemon, error)
	GetSpecies(ctx context.Context, name string) (*dexapi.Species, error)
	GetEvolutionChainByURL(ctx context.Context, url string) (*dexapi.EvolutionChain, error)
}

// DispatcherConfig carries the dispatcher's collaborators. All fields
// except Metrics are required.
type DispatcherConfig struct {
	Resolver *match.Resolver
	Catalog  catalog.Store
	Fetcher  Fetcher
	Renderer *dialog.Renderer
	Sessions *Manager

	// Metrics defaults to [observe.DefaultMetrics] when nil.
	Metrics *observe.Metrics
}

// Dispatcher orchestrates one query end to end. It is stateless apart
// from its collaborators and safe for concurrent use.
type Dispatcher struct {
	resolver *match.Resolver
	store    catalog.Store
	fetch    Fetcher
	render   *dialog.Renderer
	sessions *Manager
	metrics  *observe.Metrics
}

// NewDispatcher validates cfg and returns a ready [Dispatcher].
func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	switch {
	case cfg.Resolver == nil:
		return nil, errors.New("skill: DispatcherConfig.Resolver is required")
	case cfg.Catalog == nil:
		return nil, errors.New("skill: DispatcherConfig.Catalog is required")
	case cfg.Fetcher == nil:
		return nil, errors.New("skill: DispatcherConfig.Fetcher is required")
	case cfg.Renderer == nil:
		return nil, errors.New("skill: DispatcherConfig.Renderer is required")
	case cfg.Sessions == nil:
		return nil, errors.New("skill: DispatcherConfig.Sessions is required")
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	return &Dispatcher{
		resolver: cfg.Resolver,
		store:    cfg.Catalog,
		fetch:    cfg.Fetcher,
		render:   cfg.Renderer,
		sessions: cfg.Sessions,
		metrics:  metrics,
	}, nil
}

// Response is one answered query. Entity is the canonical species id the
// answer is about; Matched reports whether it was resolved from this
// utterance rather than recalled from the session.
type Response struct {
	Answer  string `json:"answer"`
	Intent  Intent `json:"intent"`
	Entity  string `json:"entity,omitempty"`
	Matched bool   `json:"matched"`
}

// Handle answers one utterance for the given session. Unknown intents and
// unresolvable species produce fallback answers, not errors; errors are
// reserved for infrastructure failures and integrity violations.
func (d *Dispatcher) Handle(ctx context.Context, sessionID, utterance string) (*Response, error) {
	start := time.Now()
	ctx, span := observe.StartSpan(ctx, "skill.handle")
	defer span.End()

	q := Classify(utterance)
	span.SetAttributes(observe.Attr("intent", string(q.Intent)))

	if q.Intent == IntentUnknown {
		answer, err := d.render.Render("fallback.unknown_intent", nil)
		if err != nil {
			return nil, err
		}
		d.metrics.RecordQuery(ctx, string(q.Intent), "fallback")
		return &Response{Answer: answer, Intent: q.Intent}, nil
	}

	entity, matched, err := d.resolveEntity(ctx, sessionID, utterance)
	if err != nil {
		d.metrics.RecordQuery(ctx, string(q.Intent), "error")
		return nil, err
	}
	if entity == "" {
		answer, err := d.render.Render("fallback.unknown_entity", nil)
		if err != nil {
			return nil, err
		}
		d.metrics.RecordQuery(ctx, string(q.Intent), "no_match")
		return &Response{Answer: answer, Intent: q.Intent}, nil
	}

	answer, err := d.answer(ctx, q, entity)
	switch {
	case errors.Is(err, errChainIntegrity):
		// Corrupt upstream data was already logged at error level. The
		// caller still gets a spoken answer; the process keeps serving.
		answer, err = d.render.Render("fallback.unknown_entity", nil)
		if err != nil {
			return nil, err
		}
		d.metrics.RecordQuery(ctx, string(q.Intent), "integrity")
		return &Response{Answer: answer, Intent: q.Intent, Entity: entity, Matched: matched}, nil
	case errors.Is(err, dexapi.ErrNotFound):
		// The species name resolved from the catalog but its record is
		// missing upstream. Answer gracefully; the mismatch is logged by
		// the fetch helpers.
		answer, err = d.render.Render("fallback.unknown_entity", nil)
		if err != nil {
			return nil, err
		}
		d.metrics.RecordQuery(ctx, string(q.Intent), "not_found")
		return &Response{Answer: answer, Intent: q.Intent, Entity: entity, Matched: matched}, nil
	case err != nil:
		d.metrics.RecordQuery(ctx, string(q.Intent), "error")
		return nil, err
	}

	d.metrics.RecordQuery(ctx, string(q.Intent), "ok")
	d.metrics.QueryDuration.Record(ctx, time.Since(start).Seconds())
	return &Response{Answer: answer, Intent: q.Intent, Entity: entity, Matched: matched}, nil
}

// resolveEntity resolves the species the utterance talks about. On a
// confident match the session memory is updated; on a miss the previously
// remembered entity is recalled so follow-up questions keep working.
// entity is empty when neither path yields a species.
func (d *Dispatcher) resolveEntity(ctx context.Context, sessionID, utterance string) (entity string, matched bool, err error) {
	candidates, err := d.store.Names(ctx, catalog.CategorySpecies)
	if err != nil {
		return "", false, fmt.Errorf("skill: list species: %w", err)
	}

	rstart := time.Now()
	name, score, ok := d.resolver.Resolve(utterance, candidates)
	d.metrics.ResolveDuration.Record(ctx, time.Since(rstart).Seconds())

	if ok {
		observe.Logger(ctx).Debug("skill: resolved species", "species", name, "score", score)
		d.sessions.Remember(sessionID, name)
		return name, true, nil
	}

	d.metrics.ResolveMisses.Add(ctx, 1)
	if recalled, found := d.sessions.Recall(sessionID); found {
		observe.Logger(ctx).Debug("skill: recalled session species", "species", recalled)
		return recalled, false, nil
	}
	return "", false, nil
}
