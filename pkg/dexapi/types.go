// Package dexapi is a typed client for a PokeAPI-compatible species
// database. It exposes one data-transfer structure per record kind and a
// context-aware REST [Client]; no polymorphic field access is needed
// anywhere downstream of the fetch boundary.
package dexapi

// NamedRef is a reference to another record: its canonical name plus the
// URL it can be fetched from.
type NamedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Page is one page of a paginated name listing.
type Page struct {
	Count   int        `json:"count"`
	Next    string     `json:"next"`
	Results []NamedRef `json:"results"`
}

// StatValue is one base stat of a Pokémon (e.g. "speed": 90).
type StatValue struct {
	BaseStat int      `json:"base_stat"`
	Effort   int      `json:"effort"`
	Stat     NamedRef `json:"stat"`
}

// TypeSlot is one of a Pokémon's up to two types, in slot order.
type TypeSlot struct {
	Slot int      `json:"slot"`
	Type NamedRef `json:"type"`
}

// AbilitySlot is one of a Pokémon's abilities.
type AbilitySlot struct {
	IsHidden bool     `json:"is_hidden"`
	Slot     int      `json:"slot"`
	Ability  NamedRef `json:"ability"`
}

// Pokemon is the per-form record: stats, typing, abilities and body data.
// Height is in decimetres and Weight in hectograms, as served upstream.
type Pokemon struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Height    int           `json:"height"`
	Weight    int           `json:"weight"`
	Stats     []StatValue   `json:"stats"`
	Types     []TypeSlot    `json:"types"`
	Abilities []AbilitySlot `json:"abilities"`
	Species   NamedRef      `json:"species"`
}

// FlavorText is one localized Pokédex description of a species.
type FlavorText struct {
	Text     string   `json:"flavor_text"`
	Language NamedRef `json:"language"`
	Version  NamedRef `json:"version"`
}

// Genus is the localized classification line (e.g. "Mouse Pokémon").
type Genus struct {
	Genus    string   `json:"genus"`
	Language NamedRef `json:"language"`
}

// Species is the per-species record. It carries the reference to the
// species' evolution chain; fetch the chain via
// [Client.GetEvolutionChainByURL] when an evolution query is asked.
type Species struct {
	ID                int          `json:"id"`
	Name              string       `json:"name"`
	IsLegendary       bool         `json:"is_legendary"`
	IsMythical        bool         `json:"is_mythical"`
	FlavorTextEntries []FlavorText `json:"flavor_text_entries"`
	Genera            []Genus      `json:"genera"`
	EvolutionChain    struct {
		URL string `json:"url"`
	} `json:"evolution_chain"`
	Varieties []struct {
		IsDefault bool     `json:"is_default"`
		Pokemon   NamedRef `json:"pokemon"`
	} `json:"varieties"`
}

// DamageRelations describes a type's offensive and defensive matchups.
type DamageRelations struct {
	DoubleDamageFrom []NamedRef `json:"double_damage_from"`
	DoubleDamageTo   []NamedRef `json:"double_damage_to"`
	HalfDamageFrom   []NamedRef `json:"half_damage_from"`
	HalfDamageTo     []NamedRef `json:"half_damage_to"`
	NoDamageFrom     []NamedRef `json:"no_damage_from"`
	NoDamageTo       []NamedRef `json:"no_damage_to"`
}

// TypeRecord is the record for an elemental type.
type TypeRecord struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	DamageRelations DamageRelations `json:"damage_relations"`
}

// EffectEntry is one localized effect description of an ability.
type EffectEntry struct {
	Effect      string   `json:"effect"`
	ShortEffect string   `json:"short_effect"`
	Language    NamedRef `json:"language"`
}

// Ability is the record for a Pokémon ability.
type Ability struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	EffectEntries []EffectEntry `json:"effect_entries"`
}

// EvolutionDetail is one trigger under which a species evolves into the
// link that carries it. Pointer fields are absent qualifiers.
type EvolutionDetail struct {
	Trigger            NamedRef  `json:"trigger"`
	MinLevel           *int      `json:"min_level"`
	MinHappiness       *int      `json:"min_happiness"`
	MinAffection       *int      `json:"min_affection"`
	MinBeauty          *int      `json:"min_beauty"`
	Item               *NamedRef `json:"item"`
	HeldItem           *NamedRef `json:"held_item"`
	KnownMoveType      *NamedRef `json:"known_move_type"`
	Location           *NamedRef `json:"location"`
	PartySpecies       *NamedRef `json:"party_species"`
	TradeSpecies       *NamedRef `json:"trade_species"`
	Gender             *int      `json:"gender"`
	TimeOfDay          string    `json:"time_of_day"`
	NeedsOverworldRain bool      `json:"needs_overworld_rain"`
}

// ChainLink is one node of the wire-format evolution tree. Root links have
// no evolution details.
type ChainLink struct {
	Species          NamedRef          `json:"species"`
	EvolutionDetails []EvolutionDetail `json:"evolution_details"`
	EvolvesTo        []ChainLink       `json:"evolves_to"`
}

// EvolutionChain is the full evolution tree for a family of species.
type EvolutionChain struct {
	ID    int       `json:"id"`
	Chain ChainLink `json:"chain"`
}
