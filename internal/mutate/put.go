package mutate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/openconfig/goyang/pkg/yang"
	"github.com/sdcio-labs/yangdb/internal/kv"
	"github.com/sdcio-labs/yangdb/internal/yangspec"
)

// ErrAlreadyExists is returned by a create operation whose key already has
// a value in the datastore. Grounded on put()'s OP_CREATE arm.
var ErrAlreadyExists = errors.New("mutate: key already exists")

// ErrNotExists is returned by a delete operation whose key has no value in
// the datastore. Grounded on put()'s OP_DELETE arm.
var ErrNotExists = errors.New("mutate: key does not exist")

// attributeOperation is the XML attribute name the original reads with
// xml_find_value(xt, "operation").
const attributeOperation = "operation"

// Put walks edit (an edit-config-shaped XML tree, one *etree.Element per
// top-level data node) against spec, writing KV pairs into db under op,
// which applies to any node without its own "operation" attribute.
// Grounded on xmldb_put()/put() in clicon_xml_db.c.
func Put(store kv.KV, db string, spec *yangspec.Spec, edit *etree.Element, op Operation) error {
	for _, child := range edit.ChildElements() {
		schema, ok := spec.FindTop(child.Tag)
		if !ok {
			return fmt.Errorf("mutate: no schema node found: %s", child.Tag)
		}
		if err := putNode(store, db, child, schema, op, ""); err != nil {
			return err
		}
	}
	return nil
}

func getOperation(xt *etree.Element, op Operation) (Operation, error) {
	attr := xt.SelectAttr(attributeOperation)
	if attr == nil {
		return op, nil
	}
	return ParseOperation(attr.Value)
}

func putNode(store kv.KV, db string, xt *etree.Element, ys *yang.Entry, op Operation, xk0 string) error {
	op, err := getOperation(xt, op)
	if err != nil {
		return err
	}

	var key strings.Builder
	key.WriteString(xk0)
	key.WriteByte('/')
	key.WriteString(xt.Tag)

	var bodyPtr *string
	switch {
	case ys.IsList():
		if err := appendListKeys(&key, xt, ys); err != nil {
			return err
		}
	case ys.IsLeafList():
		body := xt.Text()
		key.WriteByte('/')
		key.WriteString(body)
		bodyPtr = &body
	default:
		// Only a leaf carries a text body, even an empty one; a
		// container (presence or otherwise) always writes a
		// structural, body-less key.
		if ys.IsLeaf() {
			body := xt.Text()
			bodyPtr = &body
		}
	}
	xk := key.String()

	if err := writeOp(store, db, xk, bodyPtr, op); err != nil {
		return err
	}

	// A delete/remove at this node already scrubbed every KV pair under
	// xk, including whatever the edit tree's children would otherwise
	// redundantly (and, post-deletion, erroneously) target.
	if op == OpDelete || op == OpRemove {
		return nil
	}

	for _, child := range xt.ChildElements() {
		childSchema, ok := yangspec.FindChild(ys, child.Tag)
		if !ok {
			return fmt.Errorf("mutate: no schema node found: %s under %s", child.Tag, ys.Name)
		}
		if err := putNode(store, db, child, childSchema, op, xk); err != nil {
			return err
		}
	}
	return nil
}

// appendListKeys appends one "/<value>" segment per declared key leaf, in
// order, reading each key leaf's text from xt's matching child element.
// Grounded on append_listkeys() in clicon_xml_db.c (kept, per SPEC_FULL.md
// §5, as its own reusable step rather than inlined).
func appendListKeys(key *strings.Builder, xt *etree.Element, ys *yang.Entry) error {
	for _, kl := range yangspec.KeyLeaves(ys) {
		kc := xt.SelectElement(kl)
		if kc == nil {
			return fmt.Errorf("mutate: list %q missing key leaf %q", ys.Name, kl)
		}
		key.WriteByte('/')
		key.WriteString(kc.Text())
	}
	return nil
}

func writeOp(store kv.KV, db, xk string, body *string, op Operation) error {
	switch op {
	case OpCreate:
		exists, err := store.Exists(db, xk)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, xk)
		}
		fallthrough
	case OpMerge, OpReplace:
		var value []byte
		if body != nil {
			value = []byte(*body)
		}
		return store.Set(db, xk, value)
	case OpDelete:
		exists, err := store.Exists(db, xk)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrNotExists, xk)
		}
		fallthrough
	case OpRemove:
		// xk may be a list entry or container naming only its own
		// structural key and some of its children's keys in the edit
		// tree (the usual NETCONF shape names just the list's key
		// leaves under operation="delete"); every KV pair whose key
		// falls under xk, including leaves the edit tree never
		// mentioned, must go or it resurrects itself on the next Get
		// via its surviving key-path segments.
		re := "^" + regexp.QuoteMeta(xk) + ".*$"
		pairs, err := store.RegexScan(db, re)
		if err != nil {
			return err
		}
		for _, p := range pairs {
			if err := store.Delete(db, p.Key); err != nil {
				return err
			}
		}
		return nil
	case OpNone:
		return nil
	default:
		return fmt.Errorf("%w: operation %v", ErrBadOperation, op)
	}
}
