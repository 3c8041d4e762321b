// Package match implements fuzzy resolution of canonical entity names from
// free-form utterances.
//
// The algorithm aligns utterance word tokens against candidate-name word
// tokens in a single forward scan:
//
//  1. Both the utterance and each candidate are tokenised on runs of
//     non-word characters (a canonical name like "mr-mime" becomes
//     ["mr", "mime"]).
//
//  2. Utterance tokens are scanned left to right while a cursor walks the
//     candidate's words. A token whose Levenshtein similarity ratio with the
//     current candidate word exceeds the word threshold consumes that word
//     and contributes its ratio to the score. Once a partial match breaks,
//     scanning of that candidate stops.
//
//  3. The candidate's hyphen-separated sub-names are each scanned the same
//     way against the full utterance; their summed score is weighted and
//     added. This lets a regional-variant name ("rattata-alola") score well
//     even when the utterance only names the base form, while still losing
//     to the base form unless the variant word was actually spoken.
//
// Scores are ratio sums, not averages, so longer canonical names that match
// more spoken words outscore shorter prefixes of themselves. The best
// candidate is accepted only when its score strictly exceeds the acceptance
// threshold.
//
// A Resolver is read-only after construction and safe for concurrent use.
package match

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

const (
	defaultWordThreshold   = 0.70
	defaultAcceptThreshold = 1.0
	defaultSubnameWeight   = 0.25
)

// nonWord splits input into word tokens. The split rule is fixed: any run of
// characters outside [0-9A-Za-z_] separates tokens.
var nonWord = regexp.MustCompile(`\W+`)

// Option is a functional option for configuring a [Resolver].
type Option func(*Resolver)

// WithWordThreshold sets the minimum per-word similarity ratio required for
// an utterance token to consume a candidate word. Default: 0.70.
func WithWordThreshold(threshold float64) Option {
	return func(r *Resolver) {
		r.wordThreshold = threshold
	}
}

// WithAcceptThreshold sets the score a candidate must strictly exceed to be
// accepted as the resolution result. Default: 1.0.
//
// The right value depends on the candidate universe; treat it as a tunable
// to be validated against labelled utterance/name pairs rather than a fixed
// contract.
func WithAcceptThreshold(threshold float64) Option {
	return func(r *Resolver) {
		r.acceptThreshold = threshold
	}
}

// WithSubnameWeight sets the weight applied to the summed sub-name scores of
// a hyphenated candidate before adding them to its base score. Default: 0.25.
func WithSubnameWeight(weight float64) Option {
	return func(r *Resolver) {
		r.subnameWeight = weight
	}
}

// Resolver scores candidate canonical names against utterances and returns
// the best match above the acceptance threshold. All methods are safe for
// concurrent use; a Resolver holds no mutable state.
type Resolver struct {
	wordThreshold   float64
	acceptThreshold float64
	subnameWeight   float64
}

// New returns a [Resolver] configured with the supplied options.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		wordThreshold:   defaultWordThreshold,
		acceptThreshold: defaultAcceptThreshold,
		subnameWeight:   defaultSubnameWeight,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve scores every candidate against utterance and returns the highest
// scorer, provided its score strictly exceeds the acceptance threshold.
//
// Ties keep the first-seen maximum, so candidate order is significant for
// equal scores. An empty or unintelligible utterance returns ok=false; the
// function never fails for malformed input.
func (r *Resolver) Resolve(utterance string, candidates []string) (name string, score float64, ok bool) {
	tokens := Tokenize(utterance)
	if len(tokens) == 0 {
		return "", 0, false
	}

	var (
		best      string
		bestScore float64
		found     bool
	)
	for _, c := range candidates {
		s := r.score(tokens, c)
		if !found || s > bestScore {
			best, bestScore, found = c, s, true
		}
	}

	if !found || bestScore <= r.acceptThreshold {
		return "", 0, false
	}
	return best, bestScore, true
}

// Tokenize splits input into lower-cased word tokens using the fixed
// non-word split rule. Empty tokens are discarded.
func Tokenize(input string) []string {
	parts := nonWord.Split(strings.ToLower(input), -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// score combines the candidate's full-name alignment with its weighted
// sub-name alignments. tokens must already be lower-cased.
func (r *Resolver) score(tokens []string, candidate string) float64 {
	total := r.align(tokens, Tokenize(candidate))

	// Each hyphen-separated sub-name is scanned as its own candidate word
	// list against the same utterance. For non-hyphenated names this is one
	// pass over the whole name.
	var subnames float64
	for _, sub := range strings.Split(candidate, "-") {
		subnames += r.align(tokens, Tokenize(sub))
	}
	return total + r.subnameWeight*subnames
}

// align performs the forward alignment scan of utterance tokens against the
// candidate word list and returns the sum of the recorded similarity ratios.
//
// A single cursor walks words; an utterance token consumed by a match is
// never revisited. Out-of-order matches are deliberately not searched for.
func (r *Resolver) align(tokens, words []string) float64 {
	var sum float64
	j := 0
	for _, tok := range tokens {
		if j >= len(words) {
			break
		}
		ratio := similarity(tok, words[j])
		if ratio > r.wordThreshold {
			sum += ratio
			j++
			continue
		}
		// Once a started match breaks, no later token can improve this
		// candidate's alignment.
		if j > 0 {
			break
		}
	}
	return sum
}

// similarity returns a normalized edit-distance ratio in [0, 1]:
// 1 - Levenshtein(a, b) / max(len(a), len(b)). Two empty strings are
// identical (ratio 1).
func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	dist := matchr.Levenshtein(a, b)
	return 1 - float64(dist)/float64(longest)
}
