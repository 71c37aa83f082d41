package mutate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
	"github.com/sdcio-labs/yangdb/internal/kv"
	"github.com/sdcio-labs/yangdb/internal/xmltree"
	"github.com/sdcio-labs/yangdb/internal/yangspec"
)

// PutKey writes a single XmlKey/value pair into db under op, walking the
// schema segment by segment. Grounded on xmldb_put_xkey() in
// clicon_xml_db.c, with one deliberate deviation: every key-leaf of a
// multi-part list key is written, not just the first — the original's
// cvk loop stops after one iteration, which this specification treats as
// a defect rather than semantics worth preserving, since append_listkeys
// (used by Put, and mirrored here) already handles every key leaf.
func PutKey(store kv.KV, db string, spec *yangspec.Spec, key string, val string, op Operation) error {
	if !strings.HasPrefix(key, "/") {
		return fmt.Errorf("%w: %q", xmltree.ErrMalformedKey, key)
	}
	segs := strings.Split(key[1:], "/")
	if len(segs) == 0 || segs[0] == "" {
		return fmt.Errorf("%w: %q", xmltree.ErrMalformedKey, key)
	}

	var built strings.Builder
	i := 0

	ys, ok := spec.FindTop(segs[i])
	if !ok {
		return fmt.Errorf("mutate: no schema node found: %s", segs[i])
	}
	i++
	appendSegment(&built, segs[i-1], ys, op)

	for {
		switch {
		case ys.IsList():
			// Consume every key segment first to build the full
			// composite entry address (the way appendListKeys in
			// put.go does), then write the bare entry marker and
			// each key leaf under that address — writing a key
			// leaf's sub-entry as each segment is appended lands
			// every key but the last one short, since the
			// composite address is not yet complete.
			keyLeaves := yangspec.KeyLeaves(ys)
			values := make([]string, 0, len(keyLeaves))
			for range keyLeaves {
				if i >= len(segs) {
					return fmt.Errorf("%w: list %q without argument", xmltree.ErrMalformedKey, ys.Name)
				}
				v := segs[i]
				i++
				built.WriteByte('/')
				built.WriteString(v)
				values = append(values, v)
			}
			if op == OpMerge || op == OpReplace || op == OpCreate {
				entry := built.String()
				if err := store.Set(db, entry, nil); err != nil {
					return err
				}
				for idx, kl := range keyLeaves {
					sub := entry + "/" + kl
					if err := store.Set(db, sub, []byte(values[idx])); err != nil {
						return err
					}
				}
			}
		case ys.IsLeafList():
			if i >= len(segs) {
				return fmt.Errorf("%w: leaf-list %q without argument", xmltree.ErrMalformedKey, ys.Name)
			}
			v := segs[i]
			i++
			built.WriteByte('/')
			built.WriteString(v)
		default:
			// The final node's own key is written (or, for create,
			// checked) after the loop, not here.
			if i < len(segs) && (op == OpMerge || op == OpReplace || op == OpCreate) {
				if err := store.Set(db, built.String(), nil); err != nil {
					return err
				}
			}
		}

		if i >= len(segs) {
			break
		}
		name := segs[i]
		i++
		next, ok := yangspec.FindChild(ys, name)
		if !ok {
			return fmt.Errorf("mutate: no schema node found: %s under %s", name, ys.Name)
		}
		ys = next
		appendSegment(&built, name, ys, op)
	}

	xk := built.String()
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
		if ys.IsLeaf() || ys.IsLeafList() {
			return store.Set(db, xk, []byte(val))
		}
		return store.Set(db, xk, nil)
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

// appendSegment appends "/name" to built unless name is a key leaf of a
// list under a delete/remove, in which case the segment is left off so
// what gets removed is the whole list entry, not one key leaf of it — the
// "special rule if key, don't write last key-name" comment in
// xmldb_put_xkey().
func appendSegment(built *strings.Builder, name string, schema *yang.Entry, op Operation) {
	if (op == OpDelete || op == OpRemove) && schema.IsLeaf() && isListKeyLeaf(schema, name) {
		return
	}
	built.WriteByte('/')
	built.WriteString(name)
}

func isListKeyLeaf(leaf *yang.Entry, name string) bool {
	parent := leaf.Parent
	if parent == nil || !parent.IsList() {
		return false
	}
	for _, kl := range yangspec.KeyLeaves(parent) {
		if kl == name {
			return true
		}
	}
	return false
}
