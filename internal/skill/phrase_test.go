package skill

import (
	"testing"
	"time"

	"github.com/dexvox/dexvox/internal/dex"
)

func TestConditionPhrase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		conds []dex.Condition
		want  string
	}{
		{"none", nil, ""},
		{"level", []dex.Condition{{Trigger: "level-up", MinLevel: 16}}, " at level 16"},
		{"friendship", []dex.Condition{{Trigger: "level-up", MinHappiness: 220}}, " when it levels up with high friendship"},
		{"item", []dex.Condition{{Trigger: "use-item", Item: "water-stone"}}, " when a water stone is used on it"},
		{"trade", []dex.Condition{{Trigger: "trade"}}, " when traded"},
		{"trade held", []dex.Condition{{Trigger: "trade", HeldItem: "metal-coat"}}, " when traded while holding a metal coat"},
		{"night", []dex.Condition{{Trigger: "level-up", MinHappiness: 220, TimeOfDay: "night"}}, " when it levels up with high friendship during the night"},
		{"gender", []dex.Condition{{Trigger: "level-up", MinLevel: 20, Gender: dex.GenderFemale}}, " at level 20 if it is female"},
		{"rain", []dex.Condition{{Trigger: "level-up", MinLevel: 20, NeedsRain: true}}, " at level 20 while it is raining"},
		{"only first condition spoken", []dex.Condition{
			{Trigger: "level-up", MinLevel: 16},
			{Trigger: "trade"},
		}, " at level 16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := conditionPhrase(tt.conds); got != tt.want {
				t.Errorf("conditionPhrase = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJoinPhrases(t *testing.T) {
	t.Parallel()

	if got := joinOr([]string{"a"}); got != "a" {
		t.Errorf("joinOr(1) = %q", got)
	}
	if got := joinOr([]string{"a", "b"}); got != "a or b" {
		t.Errorf("joinOr(2) = %q", got)
	}
	if got := joinAnd([]string{"a", "b", "c"}); got != "a, b and c" {
		t.Errorf("joinAnd(3) = %q", got)
	}
	if got := abilityPhrase([]string{"static"}); got != "the ability static" {
		t.Errorf("abilityPhrase(1) = %q", got)
	}
}

func TestFormatDeci(t *testing.T) {
	t.Parallel()

	for v, want := range map[int]string{605: "60.5", 40: "4", 7: "0.7", 0: "0"} {
		if got := formatDeci(v); got != want {
			t.Errorf("formatDeci(%d) = %q, want %q", v, got, want)
		}
	}
}

func TestManagerSweep(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Minute)
	m.Remember("stale", "pichu")
	m.sessions["stale"].lastSeen = time.Now().Add(-2 * time.Minute)
	m.Remember("fresh", "raichu")

	if evicted := m.sweep(time.Now()); evicted != 1 {
		t.Errorf("sweep = %d, want 1", evicted)
	}
	if _, ok := m.Recall("stale"); ok {
		t.Error("stale session survived the sweep")
	}
	if _, ok := m.Recall("fresh"); !ok {
		t.Error("fresh session was evicted")
	}
}
