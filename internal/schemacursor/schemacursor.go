// Package schemacursor walks a YANG schema tree following the element-name
// segments of a split XmlKey, distinguishing containers, lists and
// leaf-lists as it goes. Grounded on the schema-walk embedded in the
// original C implementation's get() and xmldb_put_xkey() (both in
// original_source/lib/src/clicon_xml_db.c), factored here into a standalone
// stepper used by TreeAssembler. The mutation engine's PutKey walks the
// schema with its own loop and does not use this package.
package schemacursor

import (
	"errors"
	"fmt"

	"github.com/openconfig/goyang/pkg/yang"
	"github.com/sdcio-labs/yangdb/internal/yangspec"
)

var (
	// ErrUnknownNode is returned when a key segment has no matching
	// schema child in the current scope.
	ErrUnknownNode = errors.New("schemacursor: unknown schema node")
	// ErrListWithoutKey is returned when a list-kind schema node has no
	// declared key (spec.md §9 Open Question (c): this must be a hard
	// error, not a silently skipped list).
	ErrListWithoutKey = errors.New("schemacursor: list without key")
)

// Cursor tracks the current schema position while consuming XmlKey
// segments one at a time.
type Cursor struct {
	spec *yangspec.Spec
	cur  *yang.Entry
}

// NewCursor returns a cursor rooted at spec; the first call to Advance must
// be a top-level element name, resolved via spec.FindTop.
func NewCursor(spec *yangspec.Spec) *Cursor {
	return &Cursor{spec: spec}
}

// Current returns the schema node the cursor currently points at, or nil
// before the first Advance.
func (c *Cursor) Current() *yang.Entry {
	return c.cur
}

// AdvanceTop resolves name as a top-level module child and positions the
// cursor there.
func (c *Cursor) AdvanceTop(name string) (*yang.Entry, error) {
	e, ok := c.spec.FindTop(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	if e.IsList() && len(yangspec.KeyLeaves(e)) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrListWithoutKey, e.Name)
	}
	c.cur = e
	return e, nil
}

// Advance resolves name as a schema child of the current node and
// positions the cursor there. Callers must not call Advance for the key
// leaves of a list or for a leaf-list's value segment: those are consumed
// separately via the Key/ListAttr information on the current list/leaf-list
// node (see TreeAssembler, which owns the value-segment bookkeeping since it
// differs between reading a key and reading a regular child name).
func (c *Cursor) Advance(name string) (*yang.Entry, error) {
	e, ok := yangspec.FindChild(c.cur, name)
	if !ok {
		return nil, fmt.Errorf("%w: %q under %q", ErrUnknownNode, name, c.cur.Name)
	}
	if e.IsList() && len(yangspec.KeyLeaves(e)) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrListWithoutKey, e.Name)
	}
	c.cur = e
	return e, nil
}

// SetCurrent repositions the cursor directly, used by the TreeAssembler once
// it has walked through a list entry's key segments and needs to continue
// from the list node itself for the entry's remaining children.
func (c *Cursor) SetCurrent(e *yang.Entry) {
	c.cur = e
}
