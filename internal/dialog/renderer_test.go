package dialog_test

import (
	"strings"
	"testing"

	"github.com/dexvox/dexvox/internal/dialog"
)

// first always picks the first variant for deterministic assertions.
func first(n int) int { return 0 }

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r := dialog.New(dialog.WithPick(first))

	got, err := r.Render("stat.value", map[string]string{
		"pokemon": "pikachu",
		"stat":    "speed",
		"value":   "90",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "pikachu has a base speed of 90." {
		t.Errorf("Render: got %q", got)
	}
}

func TestRenderer_UnknownKey(t *testing.T) {
	t.Parallel()

	r := dialog.New()

	if _, err := r.Render("no.such.key", nil); err == nil {
		t.Error("Render(unknown key): err=nil, want error")
	}
}

func TestRenderer_VariantSelection(t *testing.T) {
	t.Parallel()

	r := dialog.New(dialog.WithPick(func(n int) int { return n - 1 }))

	got, err := r.Render("fallback.unknown_entity", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "I could not find that Pokémon." {
		t.Errorf("Render: got %q, want last variant", got)
	}
}

func TestRenderer_LoadFromReaderOverrides(t *testing.T) {
	t.Parallel()

	r := dialog.New(dialog.WithPick(first))

	yaml := `
templates:
  weight:
    - "{pokemon} tips the scales at {kilograms} kilograms."
  custom.greeting:
    - "hello {name}"
`
	if err := r.LoadFromReader(strings.NewReader(yaml)); err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	got, err := r.Render("weight", map[string]string{"pokemon": "snorlax", "kilograms": "460"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "snorlax tips the scales at 460 kilograms." {
		t.Errorf("Render overridden: got %q", got)
	}

	if !r.Has("custom.greeting") {
		t.Error("Has(custom.greeting): false after load")
	}
	// Untouched keys keep their defaults.
	if !r.Has("height") {
		t.Error("Has(height): false, want built-in to survive merge")
	}
}

func TestRenderer_LoadFromReaderRejectsEmptyVariantList(t *testing.T) {
	t.Parallel()

	r := dialog.New()

	err := r.LoadFromReader(strings.NewReader("templates:\n  weight: []\n"))
	if err == nil {
		t.Error("LoadFromReader(empty variants): err=nil, want error")
	}
}
