// Package pathcodec translates between a YANG schema node, a key format
// (an XmlKey template with %s placeholders at list-key / leaf-list
// positions) and a concrete XmlKey with those placeholders substituted.
//
// Grounded on the original C implementation's yang2xmlkeyfmt_1,
// xmlkeyfmt2key and xmlkeyfmt2key2 (original_source/lib/src/clicon_xml_db.c).
package pathcodec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
	"github.com/sdcio-labs/yangdb/internal/yangspec"
)

// KeyFormat is an XmlKey template with "%s" placeholders at every list-key
// or leaf-list position.
type KeyFormat string

// XmlKey is a concrete, fully substituted key path, e.g.
// "/interfaces/interface/eth0/address/10.0.0.1".
type XmlKey string

// ValueVec is an ordered sequence of string-valued variables. Index 0 is a
// reserved, non-substitutable label (the CLI command name in the original);
// it is never consumed by substitution.
type ValueVec []string

var (
	// ErrBadFormat is returned when ValueVec is too short for the number
	// of placeholders in a KeyFormat.
	ErrBadFormat = errors.New("pathcodec: value vector too short for format")
)

// SchemaToFormat recursively ascends y to its module/submodule root, then
// renders the KeyFormat downward: one "/<name>" per ancestor (skipping
// choice/case nodes, which are schema-only and invisible on the data path),
// plus one "%s" per list-key leaf (in declared key order) or exactly one
// "%s" for a leaf-list.
func SchemaToFormat(y *yang.Entry) (KeyFormat, error) {
	var sb strings.Builder
	if err := renderFormat(y, &sb); err != nil {
		return "", err
	}
	return KeyFormat(sb.String()), nil
}

func renderFormat(y *yang.Entry, sb *strings.Builder) error {
	if y == nil {
		return nil
	}
	// Ascend to the root first: a module/submodule Entry has no
	// meaningful "argument" segment of its own, so stop recursing once
	// the parent is the module/root.
	if y.Parent != nil && y.Parent.Parent != nil {
		if err := renderFormat(y.Parent, sb); err != nil {
			return err
		}
	}

	if yangspec.IsVisible(y) {
		sb.WriteByte('/')
		sb.WriteString(y.Name)
	}

	switch {
	case y.IsList():
		keys := yangspec.KeyLeaves(y)
		if len(keys) == 0 {
			return fmt.Errorf("%w: list %q has no key", ErrListWithoutKey, y.Name)
		}
		for range keys {
			sb.WriteString("/%s")
		}
	case y.IsLeafList():
		sb.WriteString("/%s")
	}
	return nil
}

// ErrListWithoutKey mirrors spec.md §9 Open Question (c): a keyless list in
// the schema is a hard error, not a silent no-op.
var ErrListWithoutKey = errors.New("pathcodec: list without key")

// FormatAndValuesToKey substitutes fmt's "%s" placeholders, left to right,
// with values[1:] (values[0] is the reserved CLI label and is never
// consumed). Fails with ErrBadFormat only if values is critically short; an
// over-long values is accepted (the extra entries are simply unused).
func FormatAndValuesToKey(format KeyFormat, values ValueVec) (XmlKey, error) {
	var sb strings.Builder
	idx := 1
	s := string(format)
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+1 < len(s) && s[i+1] == 's' {
			if idx >= len(values) {
				return "", fmt.Errorf("%w: format %q needs more values than %v provides", ErrBadFormat, format, values)
			}
			sb.WriteString(values[idx])
			idx++
			i++
			continue
		}
		sb.WriteByte(s[i])
	}
	return XmlKey(sb.String()), nil
}

// FormatAndValuesToRegex behaves like FormatAndValuesToKey but, once values
// is exhausted, substitutes ".*" for every remaining placeholder and anchors
// the result with ^...$, giving a pattern suitable for a KV regex-scan over
// every key under a partial match. The mutation engine does not call it: its
// delete/remove arms build their pattern from the concrete key.
func FormatAndValuesToRegex(format KeyFormat, values ValueVec) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteByte('^')
	idx := 1
	s := string(format)
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+1 < len(s) && s[i+1] == 's' {
			if idx < len(values) {
				sb.WriteString(regexp.QuoteMeta(values[idx]))
				idx++
			} else {
				sb.WriteString(".*")
			}
			i++
			continue
		}
		sb.WriteString(regexp.QuoteMeta(s[i : i+1]))
	}
	sb.WriteByte('$')
	return regexp.Compile(sb.String())
}
