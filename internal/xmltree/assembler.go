package xmltree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
	"github.com/sdcio-labs/yangdb/internal/schemacursor"
	"github.com/sdcio-labs/yangdb/internal/yangspec"
)

// ErrMalformedKey is returned when a key does not start with '/' or carries
// an empty element-name segment.
var ErrMalformedKey = errors.New("xmltree: malformed key")

// Assembler integrates KV pairs, one at a time, into a single in-memory
// tree rooted at Root. Grounded on the per-pair loop of get() in
// original_source/lib/src/clicon_xml_db.c, which walks vec[] (the split
// key) against the schema one segment at a time, creating whatever tree
// nodes are missing as it goes.
type Assembler struct {
	Root *XmlNode
	spec *yangspec.Spec
}

// NewAssembler returns an Assembler that integrates pairs into a fresh root
// element named rootName, resolving schema nodes against spec.
func NewAssembler(spec *yangspec.Spec, rootName string) *Assembler {
	return &Assembler{Root: NewRoot(rootName), spec: spec}
}

// Integrate walks key's element-name segments against the schema, creating
// any container/list-entry/leaf-list-entry nodes missing along the way, and
// attaches value as the final element's body. value may be nil for a
// structural key with no body (spec's ∅, e.g. a presence container or a
// list-entry key leaf visited only to establish the entry).
func (a *Assembler) Integrate(key string, value *string) error {
	segs, err := splitKey(key)
	if err != nil {
		return err
	}

	cur := schemacursor.NewCursor(a.spec)
	node := a.Root
	i := 0

	schema, err := cur.AdvanceTop(segs[i])
	if err != nil {
		return err
	}
	node, i, err = a.step(cur, node, schema, segs, i)
	if err != nil {
		return err
	}

	for i < len(segs) {
		schema, err = cur.Advance(segs[i])
		if err != nil {
			return err
		}
		node, i, err = a.step(cur, node, schema, segs, i)
		if err != nil {
			return err
		}
	}

	if value != nil {
		node.SetBody(*value)
	}
	return nil
}

// step integrates one schema node's worth of the path starting at segs[i]
// (the node's own name segment, already consumed into schema) and returns
// the tree node now positioned at that schema node along with the index of
// the next unconsumed segment.
func (a *Assembler) step(cur *schemacursor.Cursor, parent *XmlNode, schema *yang.Entry, segs []string, i int) (*XmlNode, int, error) {
	i++ // consume the node's own name segment

	switch {
	case schema.IsList():
		keyLeaves := yangspec.KeyLeaves(schema)
		if i+len(keyLeaves) > len(segs) {
			return nil, 0, fmt.Errorf("%w: list %q needs %d key segment(s)", ErrMalformedKey, schema.Name, len(keyLeaves))
		}
		values := segs[i : i+len(keyLeaves)]
		i += len(keyLeaves)

		entry := parent.FindListEntry(schema.Name, keyLeaves, values)
		if entry == nil {
			entry = &XmlNode{Name: schema.Name, Schema: schema}
			parent.AddChild(entry)
			for idx, kl := range keyLeaves {
				keySchema, _ := yangspec.FindChild(schema, kl)
				keyNode := &XmlNode{Name: kl, Schema: keySchema}
				entry.AddChild(keyNode)
				keyNode.SetBody(values[idx])
			}
		}
		cur.SetCurrent(schema)
		return entry, i, nil

	case schema.IsLeafList():
		if i >= len(segs) {
			return nil, 0, fmt.Errorf("%w: leaf-list %q needs a value segment", ErrMalformedKey, schema.Name)
		}
		value := segs[i]
		i++
		entry := parent.FindLeafListEntry(schema.Name, value)
		if entry == nil {
			entry = &XmlNode{Name: schema.Name, Schema: schema}
			entry.SetBody(value)
			parent.AddChild(entry)
		}
		return entry, i, nil

	default:
		node := parent.FindChild(schema.Name)
		if node == nil {
			node = &XmlNode{Name: schema.Name, Schema: schema}
			parent.AddChild(node)
		}
		return node, i, nil
	}
}

// splitKey splits an XmlKey of the shape "/a/b/c" into ["a","b","c"],
// rejecting anything not starting with '/' and any doubled/trailing '/'
// that would yield an empty segment.
func splitKey(key string) ([]string, error) {
	if !strings.HasPrefix(key, "/") {
		return nil, fmt.Errorf("%w: %q must start with '/'", ErrMalformedKey, key)
	}
	parts := strings.Split(key[1:], "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q has fewer than 2 tokens", ErrMalformedKey, key)
	}
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", ErrMalformedKey, key)
		}
	}
	return parts, nil
}
