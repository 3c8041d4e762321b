package skill

import (
	"regexp"
	"strings"
)

// Intent names the kind of question a classified utterance asks.
type Intent string

const (
	IntentStat       Intent = "stat"
	IntentType       Intent = "type"
	IntentAbility    Intent = "ability"
	IntentWeight     Intent = "weight"
	IntentHeight     Intent = "height"
	IntentDescribe   Intent = "describe"
	IntentEvolveInto Intent = "evolve_into"
	IntentEvolveFrom Intent = "evolve_from"
	IntentFinalStage Intent = "final_stage"
	IntentUnknown    Intent = "unknown"
)

// Query is a classified utterance. Stat is set only for [IntentStat] and
// holds the canonical stat name ("special-attack", "hp", ...).
type Query struct {
	Intent Intent
	Stat   string
}

// intentRule matches one phrasing family to an intent. Rules are tried in
// order and the first hit wins, so more specific phrasings must come
// before the generic ones they contain ("final form" before "evolve",
// "special attack" before "attack").
type intentRule struct {
	pattern *regexp.Regexp
	intent  Intent
	stat    string
}

var intentRules = []intentRule{
	{regexp.MustCompile(`final (form|stage|evolution)|last (form|stage|evolution)|fully evolved?`), IntentFinalStage, ""},
	{regexp.MustCompile(`evolves? from|evolved? from|pre.?evolution|before it evolve`), IntentEvolveFrom, ""},
	{regexp.MustCompile(`evolv`), IntentEvolveInto, ""},
	{regexp.MustCompile(`special attack|sp\.? ?atk`), IntentStat, "special-attack"},
	{regexp.MustCompile(`special defen[cs]e|sp\.? ?def`), IntentStat, "special-defense"},
	{regexp.MustCompile(`\battack\b|\batk\b`), IntentStat, "attack"},
	{regexp.MustCompile(`\bdefen[cs]e\b|\bdef\b`), IntentStat, "defense"},
	{regexp.MustCompile(`\bspeed\b|how fast`), IntentStat, "speed"},
	{regexp.MustCompile(`\bhp\b|hit points?|\bhealth\b`), IntentStat, "hp"},
	{regexp.MustCompile(`\bweigh[st]?\b|how heavy`), IntentWeight, ""},
	{regexp.MustCompile(`\bheight\b|how (tall|big|large)`), IntentHeight, ""},
	{regexp.MustCompile(`\btypes?\b`), IntentType, ""},
	{regexp.MustCompile(`abilit`), IntentAbility, ""},
	{regexp.MustCompile(`describe|tell me about|what is|who is|what's|pok.dex entry`), IntentDescribe, ""},
}

// Classify maps an utterance to a [Query]. Matching is case-insensitive
// and purely lexical; the entity mentioned in the utterance is resolved
// separately against the species catalog.
func Classify(utterance string) Query {
	text := strings.ToLower(utterance)
	for _, r := range intentRules {
		if r.pattern.MatchString(text) {
			return Query{Intent: r.intent, Stat: r.stat}
		}
	}
	return Query{Intent: IntentUnknown}
}
