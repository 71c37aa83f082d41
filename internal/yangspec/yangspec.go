// Package yangspec loads a YANG schema tree and exposes the two lookups the
// core needs: find a top-level module's data node by name, and find a named
// child of a node. This is the spec's YangSpec/YangStmt pair; both are
// represented directly by goyang's *yang.Entry, since Entry's Kind, Dir,
// Key, ListAttr and Default fields already carry exactly the vocabulary the
// spec describes (keyword, children, list key names, default descriptor).
package yangspec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
)

// Spec is a loaded, processed YANG schema: a set of top-level module data
// nodes, each a *yang.Entry rooted at the module.
type Spec struct {
	tops map[string]*yang.Entry
}

// Load parses the given YANG files (and any directories added to the
// search path via dirs) and returns the resulting Spec. Grounded on
// goyang's own ProcessModules helper (pkg/util/build_yang.go): build a
// *yang.Modules, Read each file, Process, then ToEntry each module.
func Load(files []string, dirs []string) (*Spec, error) {
	ms := yang.NewModules()
	ms.AddPath(dirs...)
	for _, f := range files {
		if err := ms.Read(f); err != nil {
			return nil, fmt.Errorf("yangspec: read %s: %w", f, err)
		}
	}
	if errs := ms.Process(); len(errs) != 0 {
		return nil, fmt.Errorf("yangspec: process: %w", joinErrors(errs))
	}
	tops := make(map[string]*yang.Entry)
	for _, m := range ms.Modules {
		e := yang.ToEntry(m)
		for name, child := range e.Dir {
			tops[name] = child
		}
	}
	return &Spec{tops: tops}, nil
}

// LoadSources parses YANG module text held in memory, keyed by a display
// name for error messages (mirrors goyang's own test idiom of
// Modules.Parse(text, name), used where shipping .yang files to disk first
// would be unnecessary, e.g. unit tests and embedded schema bundles).
func LoadSources(sources map[string]string) (*Spec, error) {
	ms := yang.NewModules()
	for name, text := range sources {
		if err := ms.Parse(text, name); err != nil {
			return nil, fmt.Errorf("yangspec: parse %s: %w", name, err)
		}
	}
	if errs := ms.Process(); len(errs) != 0 {
		return nil, fmt.Errorf("yangspec: process: %w", joinErrors(errs))
	}
	tops := make(map[string]*yang.Entry)
	for _, m := range ms.Modules {
		e := yang.ToEntry(m)
		for name, child := range e.Dir {
			tops[name] = child
		}
	}
	return &Spec{tops: tops}, nil
}

func joinErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return errors.New(strings.Join(msgs, "; "))
}

// FindTop resolves a top-level element name against every loaded module.
func (s *Spec) FindTop(name string) (*yang.Entry, bool) {
	e, ok := s.tops[name]
	return e, ok
}

// Tops returns every top-level data node across all loaded modules, in no
// particular order.
func (s *Spec) Tops() []*yang.Entry {
	tops := make([]*yang.Entry, 0, len(s.tops))
	for _, e := range s.tops {
		tops = append(tops, e)
	}
	return tops
}

// FindChild resolves name as a direct schema child of parent.
func FindChild(parent *yang.Entry, name string) (*yang.Entry, bool) {
	if parent == nil || !parent.IsDir() {
		return nil, false
	}
	e, ok := parent.Dir[name]
	return e, ok
}

// KeyLeaves returns the ordered list of key-leaf names for a list node, as
// declared in its YANG "key" statement (Entry.Key is the same
// whitespace-separated string the original C implementation parses with
// yang_arg2cvec(ykey, " ")).
func KeyLeaves(list *yang.Entry) []string {
	if list == nil || list.Key == "" {
		return nil
	}
	return strings.Fields(list.Key)
}

// IsVisible reports whether a schema node keyword is visible on the data
// path, i.e. is not choice/case.
func IsVisible(e *yang.Entry) bool {
	return !e.IsChoice() && !e.IsCase()
}
