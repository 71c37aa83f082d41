package schemacursor

import (
	"errors"
	"testing"

	"github.com/sdcio-labs/yangdb/internal/yangspec"
)

const testModule = `
module test {
	namespace "urn:test";
	prefix t;
	revision 2024-01-01 { description "init"; }

	container a {
		container b {
			leaf c { type string; }
		}
	}

	list x {
		key "k1 k2";
		leaf k1 { type string; }
		leaf k2 { type string; }
		leaf v { type string; }
	}

	list nokey {
		leaf v { type string; }
	}
}
`

func mustSpec(t *testing.T) *yangspec.Spec {
	t.Helper()
	spec, err := yangspec.LoadSources(map[string]string{"test": testModule})
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	return spec
}

func TestAdvanceTopAndAdvance(t *testing.T) {
	spec := mustSpec(t)
	c := NewCursor(spec)

	if _, err := c.AdvanceTop("a"); err != nil {
		t.Fatalf("AdvanceTop: %v", err)
	}
	b, err := c.Advance("b")
	if err != nil {
		t.Fatalf("Advance(b): %v", err)
	}
	if c.Current() != b {
		t.Fatalf("cursor not positioned at b")
	}
	leaf, err := c.Advance("c")
	if err != nil {
		t.Fatalf("Advance(c): %v", err)
	}
	if !leaf.IsLeaf() {
		t.Fatalf("expected leaf c")
	}
}

func TestAdvanceTopUnknown(t *testing.T) {
	spec := mustSpec(t)
	c := NewCursor(spec)
	if _, err := c.AdvanceTop("nope"); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
}

func TestAdvanceUnknownChild(t *testing.T) {
	spec := mustSpec(t)
	c := NewCursor(spec)
	if _, err := c.AdvanceTop("a"); err != nil {
		t.Fatalf("AdvanceTop: %v", err)
	}
	if _, err := c.Advance("nope"); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("expected ErrUnknownNode, got %v", err)
	}
}

func TestAdvanceListWithoutKey(t *testing.T) {
	spec := mustSpec(t)
	c := NewCursor(spec)
	if _, err := c.AdvanceTop("nokey"); !errors.Is(err, ErrListWithoutKey) {
		t.Fatalf("expected ErrListWithoutKey, got %v", err)
	}
}

func TestSetCurrent(t *testing.T) {
	spec := mustSpec(t)
	c := NewCursor(spec)
	x, err := c.AdvanceTop("x")
	if err != nil {
		t.Fatalf("AdvanceTop: %v", err)
	}
	v, err := c.Advance("v")
	if err != nil {
		t.Fatalf("Advance(v): %v", err)
	}
	c.SetCurrent(x)
	if c.Current() != x {
		t.Fatalf("SetCurrent did not reposition cursor")
	}
	_ = v
}
