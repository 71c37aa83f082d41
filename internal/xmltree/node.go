// Package xmltree implements the in-memory XML tree the rest of the core
// operates on: assembly from KV pairs (TreeAssembler), schema default
// injection (DefaultFiller), schema-conformance verification (Sanity), and
// mark-and-prune XPath-result trimming (Pruner). Grounded on the tree shape
// and walk idioms of the teacher's pkg/tree (sharedEntryAttributes.go,
// childMap.go) and on the assembly/prune/default logic of the original C
// implementation's get(), xml_default() and xml_tree_prune_unmarked()
// (original_source/lib/src/clicon_xml_db.c).
package xmltree

import "github.com/openconfig/goyang/pkg/yang"

// XmlNode is a node of the assembled tree: either an interior element (Body
// == nil, zero or more Children) or a leaf/leaf-list element that carries
// its text directly in Body (Body != nil, no Children). Schema is a non-owning back-reference to the YANG node
// this element is bound to; it is nil only for the synthetic root.
//
// Lists are represented, per spec, as sibling elements sharing Name with
// distinct key-leaf children rather than as a dedicated "list" wrapper
// node — there is deliberately no ListNode type here.
type XmlNode struct {
	Name     string
	Schema   *yang.Entry
	Parent   *XmlNode
	Children []*XmlNode
	Body     *string
	Mark     bool
}

// NewRoot returns a fresh, empty synthetic root element with no schema
// binding, the tree every read starts from.
func NewRoot(name string) *XmlNode {
	return &XmlNode{Name: name}
}

// IsBody reports whether n carries a text body rather than child elements.
func (n *XmlNode) IsBody() bool {
	return n.Body != nil
}

// AddChild appends child to n's children and sets its Parent.
func (n *XmlNode) AddChild(child *XmlNode) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// FindChild returns the first direct child named name, without looking at
// key-leaf values (used for plain container/leaf lookups).
func (n *XmlNode) FindChild(name string) *XmlNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindLeafListEntry returns the leaf-list sibling named name whose body
// equals value, if any.
func (n *XmlNode) FindLeafListEntry(name, value string) *XmlNode {
	for _, c := range n.Children {
		if c.Name == name && c.Body != nil && *c.Body == value {
			return c
		}
	}
	return nil
}

// FindListEntry returns the list-entry sibling named name whose key-leaf
// children match keys (in declared order) exactly, if any.
func (n *XmlNode) FindListEntry(name string, keyLeaves, values []string) *XmlNode {
	for _, c := range n.Children {
		if c.Name != name {
			continue
		}
		if c.matchesKeys(keyLeaves, values) {
			return c
		}
	}
	return nil
}

func (n *XmlNode) matchesKeys(keyLeaves, values []string) bool {
	for i, kl := range keyLeaves {
		kc := n.FindChild(kl)
		if kc == nil || kc.Body == nil || *kc.Body != values[i] {
			return false
		}
	}
	return true
}

// SetBody attaches a text body with the given value if n has none yet.
// Re-attaching an existing body is a no-op: creation is idempotent, and an
// explicit value already present must never be overwritten by a later
// integration of the same key (spec P7, by analogy for bodies in general).
func (n *XmlNode) SetBody(value string) {
	if n.Body != nil {
		return
	}
	n.Body = &value
}

// ClearMarks recursively clears the transient MARK bit (spec invariant I5:
// MARK bits are transient, cleared at the start of each read).
func (n *XmlNode) ClearMarks() {
	n.Mark = false
	for _, c := range n.Children {
		c.ClearMarks()
	}
}
