package dex

import (
	"fmt"

	"github.com/dexvox/dexvox/pkg/dexapi"
)

// BuildChain converts a wire-format evolution chain into the domain tree.
//
// It enforces the integrity invariants the walkers assume: a non-empty root
// species and at most one node per species id. Violations indicate corrupt
// upstream data and are reported as errors rather than patched over.
func BuildChain(wire *dexapi.EvolutionChain) (*Node, error) {
	if wire == nil {
		return nil, fmt.Errorf("dex: build chain: nil wire chain")
	}
	if wire.Chain.Species.Name == "" {
		return nil, fmt.Errorf("dex: build chain %d: missing root species", wire.ID)
	}

	seen := make(map[string]struct{})
	root, err := buildNode(&wire.Chain, seen)
	if err != nil {
		return nil, fmt.Errorf("dex: build chain %d: %w", wire.ID, err)
	}
	return root, nil
}

func buildNode(link *dexapi.ChainLink, seen map[string]struct{}) (*Node, error) {
	name := link.Species.Name
	if name == "" {
		return nil, fmt.Errorf("node without species id")
	}
	if _, dup := seen[name]; dup {
		return nil, fmt.Errorf("species %q appears more than once", name)
	}
	seen[name] = struct{}{}

	node := &Node{
		Species:    name,
		Conditions: buildConditions(link.EvolutionDetails),
	}
	for i := range link.EvolvesTo {
		child, err := buildNode(&link.EvolvesTo[i], seen)
		if err != nil {
			return nil, err
		}
		node.EvolvesTo = append(node.EvolvesTo, child)
	}
	return node, nil
}

func buildConditions(details []dexapi.EvolutionDetail) []Condition {
	if len(details) == 0 {
		return nil
	}
	conds := make([]Condition, 0, len(details))
	for _, d := range details {
		c := Condition{
			Trigger:       d.Trigger.Name,
			TimeOfDay:     d.TimeOfDay,
			NeedsRain:     d.NeedsOverworldRain,
			Item:          refName(d.Item),
			HeldItem:      refName(d.HeldItem),
			KnownMoveType: refName(d.KnownMoveType),
			Location:      refName(d.Location),
			TradeSpecies:  refName(d.TradeSpecies),
		}
		if d.MinLevel != nil {
			c.MinLevel = *d.MinLevel
		}
		if d.MinHappiness != nil {
			c.MinHappiness = *d.MinHappiness
		}
		if d.MinAffection != nil {
			c.MinAffection = *d.MinAffection
		}
		if d.MinBeauty != nil {
			c.MinBeauty = *d.MinBeauty
		}
		if d.Gender != nil {
			// Upstream encodes gender as 1 = female, 2 = male.
			switch *d.Gender {
			case 1:
				c.Gender = GenderFemale
			case 2:
				c.Gender = GenderMale
			}
		}
		conds = append(conds, c)
	}
	return conds
}

func refName(ref *dexapi.NamedRef) string {
	if ref == nil {
		return ""
	}
	return ref.Name
}
