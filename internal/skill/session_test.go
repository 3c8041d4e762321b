package skill_test

import (
	"testing"
	"time"

	"github.com/dexvox/dexvox/internal/skill"
)

func TestManagerRememberRecall(t *testing.T) {
	t.Parallel()
	m := skill.NewManager(time.Minute)

	if _, ok := m.Recall("s1"); ok {
		t.Error("Recall on fresh manager: ok = true")
	}

	m.Remember("s1", "pikachu")
	if entity, ok := m.Recall("s1"); !ok || entity != "pikachu" {
		t.Errorf("Recall = %q, %v, want pikachu", entity, ok)
	}

	// A new referent replaces the old one; there is only one slot.
	m.Remember("s1", "snorlax")
	if entity, _ := m.Recall("s1"); entity != "snorlax" {
		t.Errorf("Recall after overwrite = %q, want snorlax", entity)
	}
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	t.Parallel()
	m := skill.NewManager(time.Minute)

	m.Remember("s1", "pikachu")
	m.Remember("s2", "gengar")

	if entity, _ := m.Recall("s1"); entity != "pikachu" {
		t.Errorf("Recall(s1) = %q", entity)
	}
	if entity, _ := m.Recall("s2"); entity != "gengar" {
		t.Errorf("Recall(s2) = %q", entity)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}
