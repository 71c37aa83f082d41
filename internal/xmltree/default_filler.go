package xmltree

import (
	"github.com/openconfig/goyang/pkg/yang"
	"github.com/sdcio-labs/yangdb/internal/yangspec"
)

// DefaultFiller injects schema-declared default values for leaves absent
// from an assembled tree. Grounded on xml_default() in
// original_source/lib/src/clicon_xml_db.c, which walks the schema's
// children after assembly and synthesizes an XML child for every leaf
// carrying a YANG "default" statement that assembly did not already
// produce, and on the teacher's pkg/tree/default_value.go, which plays the
// analogous role against sdcio's own schema representation.
type DefaultFiller struct {
	spec *yangspec.Spec
}

// NewDefaultFiller returns a filler that resolves schema against spec.
func NewDefaultFiller(spec *yangspec.Spec) *DefaultFiller {
	return &DefaultFiller{spec: spec}
}

// Fill walks root's children against their schema recursively, adding a
// body-bearing leaf for every declared default whose leaf is absent. A
// leaf that is present, even with an empty body, is left untouched: a
// default never overrides an explicit value (spec property P7).
func (f *DefaultFiller) Fill(root *XmlNode) {
	for _, top := range f.spec.Tops() {
		if yangspec.IsVisible(top) {
			fillDefaultChild(root, top)
		}
	}
	fillChildren(root)
}

func fillChildren(node *XmlNode) {
	var schema *yang.Entry
	if node.Schema != nil {
		schema = node.Schema
	}
	if schema != nil && (schema.IsContainer() || schema.IsList()) {
		for _, child := range schema.Dir {
			if !yangspec.IsVisible(child) {
				continue
			}
			fillDefaultChild(node, child)
		}
	}
	for _, c := range node.Children {
		fillChildren(c)
	}
}

func fillDefaultChild(parent *XmlNode, schema *yang.Entry) {
	if schema.IsLeaf() {
		def, ok := schema.SingleDefaultValue()
		if !ok || def == "" {
			return
		}
		if parent.FindChild(schema.Name) != nil {
			return
		}
		leaf := &XmlNode{Name: schema.Name, Schema: schema}
		leaf.SetBody(def)
		parent.AddChild(leaf)
		return
	}
	// A container is fabricated purely to host a descendant default when
	// it is missing and some descendant actually carries one; otherwise
	// it is left absent. Lists and leaf-lists are never fabricated: there
	// is no key to give a synthesized entry.
	if schema.IsContainer() {
		existing := parent.FindChild(schema.Name)
		if existing == nil {
			if !hasDefaultContent(schema) {
				return
			}
			existing = &XmlNode{Name: schema.Name, Schema: schema}
			parent.AddChild(existing)
		}
		for _, gc := range schema.Dir {
			if yangspec.IsVisible(gc) {
				fillDefaultChild(existing, gc)
			}
		}
	}
}

// hasDefaultContent reports whether schema itself, or some container
// descendant of it, declares a default leaf value — the test used to
// decide whether fabricating a missing container is worthwhile.
func hasDefaultContent(schema *yang.Entry) bool {
	if schema.IsLeaf() {
		def, ok := schema.SingleDefaultValue()
		return ok && def != ""
	}
	if schema.IsContainer() {
		for _, c := range schema.Dir {
			if yangspec.IsVisible(c) && hasDefaultContent(c) {
				return true
			}
		}
	}
	return false
}
