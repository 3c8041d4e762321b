package skill_test

import (
	"context"
	"testing"
	"time"

	"github.com/dexvox/dexvox/internal/catalog"
	"github.com/dexvox/dexvox/internal/dialog"
	"github.com/dexvox/dexvox/internal/match"
	"github.com/dexvox/dexvox/internal/skill"
	"github.com/dexvox/dexvox/pkg/dexapi"
)

// fakeFetcher serves canned records from maps. Missing entries behave
// like an upstream 404.
type fakeFetcher struct {
	pokemon map[string]*dexapi.Pokemon
	species map[string]*dexapi.Species
	chains  map[string]*dexapi.EvolutionChain
}

func (f *fakeFetcher) GetPokemon(ctx context.Context, name string) (*dexapi.Pokemon, error) {
	if p, ok := f.pokemon[name]; ok {
		return p, nil
	}
	return nil, dexapi.ErrNotFound
}

func (f *fakeFetcher) GetSpecies(ctx context.Context, name string) (*dexapi.Species, error) {
	if s, ok := f.species[name]; ok {
		return s, nil
	}
	return nil, dexapi.ErrNotFound
}

func (f *fakeFetcher) GetEvolutionChainByURL(ctx context.Context, url string) (*dexapi.EvolutionChain, error) {
	if c, ok := f.chains[url]; ok {
		return c, nil
	}
	return nil, dexapi.ErrNotFound
}

const pikachuChainURL = "https://pokeapi.test/api/v2/evolution-chain/10/"

func intp(v int) *int { return &v }

// testFetcher returns a fetcher covering the pikachu family plus
// bulbasaur for the dual-type case.
func testFetcher() *fakeFetcher {
	pikachuSpecies := &dexapi.Species{
		ID:   25,
		Name: "pikachu",
		FlavorTextEntries: []dexapi.FlavorText{{
			Text:     "It raises its tail\nto check its\fsurroundings.",
			Language: dexapi.NamedRef{Name: "en"},
		}},
		Genera: []dexapi.Genus{{
			Genus:    "Mouse Pokémon",
			Language: dexapi.NamedRef{Name: "en"},
		}},
	}
	pikachuSpecies.EvolutionChain.URL = pikachuChainURL

	chain := &dexapi.EvolutionChain{
		ID: 10,
		Chain: dexapi.ChainLink{
			Species: dexapi.NamedRef{Name: "pichu"},
			EvolvesTo: []dexapi.ChainLink{{
				Species: dexapi.NamedRef{Name: "pikachu"},
				EvolutionDetails: []dexapi.EvolutionDetail{{
					Trigger:      dexapi.NamedRef{Name: "level-up"},
					MinHappiness: intp(220),
				}},
				EvolvesTo: []dexapi.ChainLink{{
					Species: dexapi.NamedRef{Name: "raichu"},
					EvolutionDetails: []dexapi.EvolutionDetail{{
						Trigger: dexapi.NamedRef{Name: "use-item"},
						Item:    &dexapi.NamedRef{Name: "thunder-stone"},
					}},
				}},
			}},
		},
	}

	return &fakeFetcher{
		pokemon: map[string]*dexapi.Pokemon{
			"pikachu": {
				ID:     25,
				Name:   "pikachu",
				Height: 4,
				Weight: 60,
				Stats: []dexapi.StatValue{
					{BaseStat: 55, Stat: dexapi.NamedRef{Name: "attack"}},
					{BaseStat: 90, Stat: dexapi.NamedRef{Name: "speed"}},
				},
				Types: []dexapi.TypeSlot{
					{Slot: 1, Type: dexapi.NamedRef{Name: "electric"}},
				},
				Abilities: []dexapi.AbilitySlot{
					{Slot: 3, IsHidden: true, Ability: dexapi.NamedRef{Name: "lightning-rod"}},
					{Slot: 1, Ability: dexapi.NamedRef{Name: "static"}},
				},
			},
			"bulbasaur": {
				ID:   1,
				Name: "bulbasaur",
				Types: []dexapi.TypeSlot{
					{Slot: 2, Type: dexapi.NamedRef{Name: "poison"}},
					{Slot: 1, Type: dexapi.NamedRef{Name: "grass"}},
				},
			},
		},
		species: map[string]*dexapi.Species{
			"pikachu": pikachuSpecies,
		},
		chains: map[string]*dexapi.EvolutionChain{
			pikachuChainURL: chain,
		},
	}
}

// newDispatcher wires a dispatcher over the canned fetcher with a loaded
// species catalog and a first-variant dialog picker.
func newDispatcher(t *testing.T) (*skill.Dispatcher, *skill.Manager) {
	t.Helper()

	store := catalog.NewMemStore()
	err := store.Put(context.Background(), catalog.CategorySpecies,
		[]string{"bulbasaur", "pichu", "pikachu", "raichu"})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	sessions := skill.NewManager(time.Minute)
	d, err := skill.NewDispatcher(skill.DispatcherConfig{
		Resolver: match.New(),
		Catalog:  store,
		Fetcher:  testFetcher(),
		Renderer: dialog.New(dialog.WithPick(func(int) int { return 0 })),
		Sessions: sessions,
	})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	return d, sessions
}

func handle(t *testing.T, d *skill.Dispatcher, sessionID, utterance string) *skill.Response {
	t.Helper()
	resp, err := d.Handle(context.Background(), sessionID, utterance)
	if err != nil {
		t.Fatalf("Handle(%q): %v", utterance, err)
	}
	return resp
}

func TestHandleStat(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t)

	resp := handle(t, d, "s1", "what is the speed of pikachu")
	if resp.Answer != "pikachu has a base speed of 90." {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if resp.Intent != skill.IntentStat || resp.Entity != "pikachu" || !resp.Matched {
		t.Errorf("Response = %+v", resp)
	}
}

func TestHandleTypeDual(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t)

	resp := handle(t, d, "s1", "what type is bulbasaur")
	if resp.Answer != "bulbasaur is a grass and poison type." {
		t.Errorf("Answer = %q", resp.Answer)
	}
}

func TestHandleAbilities(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t)

	resp := handle(t, d, "s1", "what abilities does pikachu have")
	if resp.Answer != "pikachu can have the abilities static or lightning rod." {
		t.Errorf("Answer = %q", resp.Answer)
	}
}

func TestHandleWeightAndHeight(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t)

	if resp := handle(t, d, "s1", "how heavy is pikachu"); resp.Answer != "pikachu weighs 6 kilograms." {
		t.Errorf("weight Answer = %q", resp.Answer)
	}
	if resp := handle(t, d, "s1", "how tall is pikachu"); resp.Answer != "pikachu is 0.4 meters tall." {
		t.Errorf("height Answer = %q", resp.Answer)
	}
}

func TestHandleDescribe(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t)

	resp := handle(t, d, "s1", "tell me about pikachu")
	want := "pikachu, the Mouse Pokémon. It raises its tail to check its surroundings."
	if resp.Answer != want {
		t.Errorf("Answer = %q, want %q", resp.Answer, want)
	}
}

func TestHandleEvolveInto(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t)

	resp := handle(t, d, "s1", "what does pikachu evolve into")
	want := "pikachu evolves into raichu when a thunder stone is used on it."
	if resp.Answer != want {
		t.Errorf("Answer = %q, want %q", resp.Answer, want)
	}
	if resp.Intent != skill.IntentEvolveInto {
		t.Errorf("Intent = %q", resp.Intent)
	}
}

func TestHandleEvolveFrom(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t)

	resp := handle(t, d, "s1", "what does pikachu evolve from")
	want := "pikachu evolves from pichu when it levels up with high friendship."
	if resp.Answer != want {
		t.Errorf("Answer = %q, want %q", resp.Answer, want)
	}
}

func TestHandleFinalStage(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t)

	resp := handle(t, d, "s1", "what is the final form of pikachu")
	if resp.Answer != "The final form of pikachu is raichu." {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if resp.Intent != skill.IntentFinalStage {
		t.Errorf("Intent = %q", resp.Intent)
	}
}

func TestHandleSessionRecall(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t)

	handle(t, d, "s1", "how heavy is pikachu")

	resp := handle(t, d, "s1", "and what about its speed")
	if resp.Answer != "pikachu has a base speed of 90." {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if resp.Matched {
		t.Error("Matched = true for a recalled entity")
	}
	if resp.Entity != "pikachu" {
		t.Errorf("Entity = %q", resp.Entity)
	}
}

func TestHandleRecallIsPerSession(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t)

	handle(t, d, "s1", "how heavy is pikachu")

	// A different session has no referent to fall back on.
	resp := handle(t, d, "s2", "and what about its speed")
	if resp.Entity != "" {
		t.Errorf("Entity = %q, want empty", resp.Entity)
	}
	if resp.Answer == "pikachu has a base speed of 90." {
		t.Error("recall leaked across sessions")
	}
}

func TestHandleUnknownIntent(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t)

	resp := handle(t, d, "s1", "sing me a song")
	if resp.Intent != skill.IntentUnknown {
		t.Errorf("Intent = %q", resp.Intent)
	}
	if resp.Answer == "" {
		t.Error("Answer is empty, want the unknown-intent fallback line")
	}
}

func TestHandleUnknownEntity(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t)

	resp := handle(t, d, "s1", "what is the speed of blorptron")
	if resp.Entity != "" || resp.Matched {
		t.Errorf("Response = %+v, want no entity", resp)
	}
	if resp.Answer != "I am not sure which Pokémon you mean." {
		t.Errorf("Answer = %q", resp.Answer)
	}
}

func TestHandleDoesNotRememberMisses(t *testing.T) {
	t.Parallel()
	d, sessions := newDispatcher(t)

	handle(t, d, "s1", "how heavy is pikachu")
	handle(t, d, "s1", "what is the speed of blorptron")

	// The failed resolution must not have overwritten the referent.
	if entity, ok := sessions.Recall("s1"); !ok || entity != "pikachu" {
		t.Errorf("Recall = %q, %v, want pikachu", entity, ok)
	}
}

func TestHandleCorruptChainFallsBack(t *testing.T) {
	t.Parallel()

	fetcher := testFetcher()
	// A duplicated species id violates the tree invariants.
	fetcher.chains[pikachuChainURL].Chain.EvolvesTo[0].EvolvesTo[0].Species.Name = "pichu"

	store := catalog.NewMemStore()
	if err := store.Put(context.Background(), catalog.CategorySpecies, []string{"pichu", "pikachu"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	d, err := skill.NewDispatcher(skill.DispatcherConfig{
		Resolver: match.New(),
		Catalog:  store,
		Fetcher:  fetcher,
		Renderer: dialog.New(dialog.WithPick(func(int) int { return 0 })),
		Sessions: skill.NewManager(time.Minute),
	})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	resp := handle(t, d, "s1", "what does pikachu evolve into")
	if resp.Answer != "I am not sure which Pokémon you mean." {
		t.Errorf("Answer = %q, want the fallback line", resp.Answer)
	}
}

func TestNewDispatcherRequiresCollaborators(t *testing.T) {
	t.Parallel()

	if _, err := skill.NewDispatcher(skill.DispatcherConfig{}); err == nil {
		t.Error("NewDispatcher(zero config): err = nil, want error")
	}
}
