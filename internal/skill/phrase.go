package skill

import (
	"fmt"
	"strings"

	"github.com/dexvox/dexvox/internal/dex"
)

// displayName turns a canonical id into its spoken form: "mr-mime" reads
// as "mr mime".
func displayName(canonical string) string {
	return strings.ReplaceAll(canonical, "-", " ")
}

// joinOr joins spoken items with "or": "a", "a or b", "a, b or c".
func joinOr(items []string) string {
	return joinWith(items, "or")
}

// joinAnd joins spoken items with "and".
func joinAnd(items []string) string {
	return joinWith(items, "and")
}

func joinWith(items []string, conj string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + conj + " " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " " + conj + " " + items[len(items)-1]
	}
}

// abilityPhrase builds "the ability static" or "the abilities static or
// lightning rod" from spoken ability names.
func abilityPhrase(names []string) string {
	if len(names) == 1 {
		return "the ability " + names[0]
	}
	return "the abilities " + joinOr(names)
}

// conditionPhrase renders a node's evolution conditions as a spoken
// qualifier with a leading space, e.g. " at level 16" or " when traded
// while holding a metal coat". Only the first condition is spoken; extra
// conditions are alternative encounters of the same evolution and would
// read as noise.
func conditionPhrase(conds []dex.Condition) string {
	if len(conds) == 0 {
		return ""
	}
	c := conds[0]

	var parts []string
	switch c.Trigger {
	case "level-up":
		if c.MinLevel > 0 {
			parts = append(parts, fmt.Sprintf("at level %d", c.MinLevel))
		} else {
			parts = append(parts, "when it levels up")
		}
	case "use-item":
		if c.Item != "" {
			parts = append(parts, "when a "+displayName(c.Item)+" is used on it")
		} else {
			parts = append(parts, "when an item is used on it")
		}
	case "trade":
		parts = append(parts, "when traded")
		if c.TradeSpecies != "" {
			parts = append(parts, "for "+displayName(c.TradeSpecies))
		}
	case "":
	default:
		parts = append(parts, "through "+displayName(c.Trigger))
	}

	if c.HeldItem != "" {
		parts = append(parts, "while holding a "+displayName(c.HeldItem))
	}
	if c.MinHappiness > 0 {
		parts = append(parts, "with high friendship")
	}
	if c.MinAffection > 0 {
		parts = append(parts, "with high affection")
	}
	if c.MinBeauty > 0 {
		parts = append(parts, "when beautiful enough")
	}
	if c.KnownMoveType != "" {
		parts = append(parts, "knowing a "+displayName(c.KnownMoveType)+" type move")
	}
	if c.Location != "" {
		parts = append(parts, "near "+displayName(c.Location))
	}
	if c.TimeOfDay != "" {
		parts = append(parts, "during the "+c.TimeOfDay)
	}
	if c.NeedsRain {
		parts = append(parts, "while it is raining")
	}
	switch c.Gender {
	case dex.GenderFemale:
		parts = append(parts, "if it is female")
	case dex.GenderMale:
		parts = append(parts, "if it is male")
	}

	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
