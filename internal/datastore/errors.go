// Package datastore exposes the facade the rest of the system talks to:
// Get, GetVec, Put and PutKey, orchestrating pathcodec, schemacursor,
// xmltree, xpath and mutate over an internal/kv.KV backend. Grounded on
// the public xmldb_get()/xmldb_get_vec()/xmldb_put()/xmldb_put_xkey() entry
// points of original_source/lib/src/clicon_xml_db.c.
//
// Get and GetVec read the whole datastore on every call; there is no
// partial tree loading.
package datastore

import "errors"

// The sentinel error taxonomy every lower-layer sentinel error is normalized
// into. Callers use errors.Is against these, not against the package-local
// sentinels of pathcodec/schemacursor/xmltree/mutate/kv. Errors that carry no
// sentinel pass through unchanged: the mutation engine's unknown-element
// errors do not match ErrUnknownNode, and a failing KV write or scan inside
// Put/PutKey does not match ErrKVWriteFailed or ErrKVScanFailed.
var (
	// Input kind.
	ErrMalformedKey = errors.New("datastore: malformed key")
	ErrBadFormat    = errors.New("datastore: bad key format")
	ErrBadOperation = errors.New("datastore: bad operation")

	// Schema kind.
	ErrUnknownNode    = errors.New("datastore: unknown schema node")
	ErrSchemaMismatch = errors.New("datastore: schema mismatch")
	ErrListWithoutKey = errors.New("datastore: list without key")

	// Precondition kind.
	ErrCreateExists  = errors.New("datastore: create target already exists")
	ErrDeleteMissing = errors.New("datastore: delete target does not exist")

	// Backend kind.
	ErrKVScanFailed  = errors.New("datastore: kv scan failed")
	ErrKVWriteFailed = errors.New("datastore: kv write failed")
	ErrKVInitFailed  = errors.New("datastore: kv init failed")
)
