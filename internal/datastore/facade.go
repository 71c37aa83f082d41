package datastore

import (
	"errors"
	"fmt"

	"github.com/beevik/etree"
	"github.com/sdcio-labs/yangdb/internal/kv"
	"github.com/sdcio-labs/yangdb/internal/mutate"
	"github.com/sdcio-labs/yangdb/internal/pathcodec"
	"github.com/sdcio-labs/yangdb/internal/schemacursor"
	"github.com/sdcio-labs/yangdb/internal/xmltree"
	"github.com/sdcio-labs/yangdb/internal/xpath"
	"github.com/sdcio-labs/yangdb/internal/yangspec"
)

// rootTag is the synthetic wrapper element every assembled/serialized tree
// is rooted at; it carries no schema binding of its own (the original's
// "dummy top-level symbol").
const rootTag = "config"

// Facade is the public entry point: Get, GetVec, Put and PutKey,
// orchestrating PathCodec, SchemaCursor, the xmltree stages, the xpath
// Evaluator and MutationEngine over a single internal/kv.KV backend.
// Grounded on xmldb_get()/xmldb_get_vec()/xmldb_put()/xmldb_put_xkey() in
// clicon_xml_db.c.
type Facade struct {
	store kv.KV
	spec  *yangspec.Spec
	eval  xpath.Evaluator
}

// New returns a Facade backed by store and spec, using the default
// etree-backed XPath evaluator.
func New(store kv.KV, spec *yangspec.Spec) *Facade {
	return &Facade{store: store, spec: spec, eval: xpath.EtreeEvaluator{}}
}

// Get loads every pair from db, assembles it into a tree, optionally
// marks-and-prunes by xpath (when xpath != ""), fills schema defaults and
// validates the result, returning the final *etree.Document. Grounded on
// xmldb_get().
func (f *Facade) Get(db, xpathExpr string) (*etree.Document, error) {
	root, err := f.assemble(db)
	if err != nil {
		return nil, err
	}
	if xpathExpr != "" {
		if err := xpath.MarkMatches(f.eval, root, rootTag, xpathExpr); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		xmltree.Prune(root)
		root.ClearMarks()
	}
	xmltree.NewDefaultFiller(f.spec).Fill(root)
	if err := (xmltree.Sanity{}).Check(root); err != nil {
		return nil, normalize(err)
	}
	return xmltree.ToEtree(root, rootTag), nil
}

// GetVec behaves like Get but returns both the unpruned assembled tree and
// the vector of XmlNodes the xpath expression matched, before pruning.
// Grounded on xmldb_get_vec().
func (f *Facade) GetVec(db, xpathExpr string) (*xmltree.XmlNode, []*xmltree.XmlNode, error) {
	root, err := f.assemble(db)
	if err != nil {
		return nil, nil, err
	}
	var matched []*xmltree.XmlNode
	if xpathExpr != "" {
		matched, err = f.eval.Evaluate(root, rootTag, xpathExpr)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
	}
	xmltree.NewDefaultFiller(f.spec).Fill(root)
	if err := (xmltree.Sanity{}).Check(root); err != nil {
		return nil, nil, normalize(err)
	}
	return root, matched, nil
}

func (f *Facade) assemble(db string) (*xmltree.XmlNode, error) {
	pairs, err := f.store.RegexScan(db, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKVScanFailed, err)
	}
	asm := xmltree.NewAssembler(f.spec, rootTag)
	for _, p := range pairs {
		var value *string
		if p.Value != nil {
			s := string(p.Value)
			value = &s
		}
		if err := asm.Integrate(p.Key, value); err != nil {
			return nil, normalize(err)
		}
	}
	return asm.Root, nil
}

// Put walks edit against db under op, per MutationEngine's tree walk. A
// top-level replace first unlinks and reinitializes db, then proceeds as
// merge, per spec.md §4.5.
func (f *Facade) Put(db string, edit *etree.Element, op mutate.Operation) error {
	if op == mutate.OpReplace {
		if err := f.store.Unlink(db); err != nil {
			return fmt.Errorf("%w: %v", ErrKVInitFailed, err)
		}
		if err := f.store.Init(db); err != nil {
			return fmt.Errorf("%w: %v", ErrKVInitFailed, err)
		}
		op = mutate.OpMerge
	}
	if err := mutate.Put(f.store, db, f.spec, edit, op); err != nil {
		return normalize(err)
	}
	return nil
}

// PutKey writes a single key/value pair into db under op, per
// MutationEngine's put_key entry point.
func (f *Facade) PutKey(db, key, val string, op mutate.Operation) error {
	if err := mutate.PutKey(f.store, db, f.spec, key, val, op); err != nil {
		return normalize(err)
	}
	return nil
}

// InitDatastore prepares db for use (creates its backing bucket if
// necessary).
func (f *Facade) InitDatastore(db string) error {
	if err := f.store.Init(db); err != nil {
		return fmt.Errorf("%w: %v", ErrKVInitFailed, err)
	}
	return nil
}

// SchemaToFormat exposes PathCodec.SchemaToFormat for callers that need to
// build a XmlKey from a top-level schema node and a ValueVec directly, so
// they do not need to depend on internal/pathcodec themselves.
func (f *Facade) SchemaToFormat(topName string) (pathcodec.KeyFormat, error) {
	top, ok := f.spec.FindTop(topName)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownNode, topName)
	}
	format, err := pathcodec.SchemaToFormat(top)
	if err != nil {
		return "", normalize(err)
	}
	return format, nil
}

// normalize maps every lower-layer sentinel error onto this package's
// taxonomy (spec.md §7), preserving the original error as context.
func normalize(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pathcodec.ErrBadFormat):
		return fmt.Errorf("%w: %v", ErrBadFormat, err)
	case errors.Is(err, pathcodec.ErrListWithoutKey),
		errors.Is(err, schemacursor.ErrListWithoutKey):
		return fmt.Errorf("%w: %v", ErrListWithoutKey, err)
	case errors.Is(err, schemacursor.ErrUnknownNode):
		return fmt.Errorf("%w: %v", ErrUnknownNode, err)
	case errors.Is(err, xmltree.ErrMalformedKey):
		return fmt.Errorf("%w: %v", ErrMalformedKey, err)
	case errors.Is(err, xmltree.ErrSanity):
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	case errors.Is(err, mutate.ErrBadOperation):
		return fmt.Errorf("%w: %v", ErrBadOperation, err)
	case errors.Is(err, mutate.ErrAlreadyExists):
		return fmt.Errorf("%w: %v", ErrCreateExists, err)
	case errors.Is(err, mutate.ErrNotExists):
		return fmt.Errorf("%w: %v", ErrDeleteMissing, err)
	case errors.Is(err, kv.ErrNotInitialized):
		return fmt.Errorf("%w: %v", ErrKVInitFailed, err)
	default:
		return err
	}
}
