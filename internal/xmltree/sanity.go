package xmltree

import (
	"errors"
	"fmt"
)

// ErrSanity is returned by Sanity.Check when a tree violates the
// schema-name correspondence invariant (spec invariant I1): every element
// node's Name must equal its Schema node's Name, and every element with
// Children must be schema-bound to a container or list node (never a leaf
// or leaf-list, which may only ever carry a body).
var ErrSanity = errors.New("xmltree: sanity check failed")

// Sanity verifies I1 unconditionally on every read, Get and GetVec (spec.md §9
// Open Question (b): a disabled checker would let silent schema drift pass
// through uncaught, so there is no escape hatch). Grounded on
// xml_sanity() in original_source/lib/src/clicon_xml_db.c.
type Sanity struct{}

// Check walks node and its descendants, returning the first I1 violation
// found, or nil if the (sub)tree is sane.
func (Sanity) Check(node *XmlNode) error {
	if node.Schema != nil {
		if node.Schema.Name != node.Name {
			return fmt.Errorf("%w: element %q bound to schema node %q", ErrSanity, node.Name, node.Schema.Name)
		}
		if node.IsBody() && len(node.Children) != 0 {
			return fmt.Errorf("%w: element %q has both a body and children", ErrSanity, node.Name)
		}
		if node.IsBody() && (node.Schema.IsContainer() || node.Schema.IsList()) {
			return fmt.Errorf("%w: container/list %q carries a body", ErrSanity, node.Name)
		}
		if len(node.Children) != 0 && !node.Schema.IsContainer() && !node.Schema.IsList() {
			return fmt.Errorf("%w: non-container/list %q has children", ErrSanity, node.Name)
		}
	}
	for _, c := range node.Children {
		if err := (Sanity{}).Check(c); err != nil {
			return err
		}
	}
	return nil
}
