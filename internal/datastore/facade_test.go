package datastore

import (
	"errors"
	"sort"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/sdcio-labs/yangdb/internal/kv"
	"github.com/sdcio-labs/yangdb/internal/mutate"
	"github.com/sdcio-labs/yangdb/internal/yangspec"
)

const dbName = "running"

const testModule = `
module test {
	namespace "urn:test";
	prefix t;
	revision 2024-01-01 { description "init"; }

	container a {
		leaf b { type string; }
	}

	list x {
		key "k1 k2";
		leaf k1 { type string; }
		leaf k2 { type string; }
		leaf v { type string; }
	}

	leaf-list ll { type string; }

	container c {
		leaf n {
			type int32;
			default "42";
		}
	}
}
`

func newFacade(t *testing.T) *Facade {
	t.Helper()
	spec, err := yangspec.LoadSources(map[string]string{"test": testModule})
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	store := kv.NewMemKV()
	f := New(store, spec)
	if err := f.InitDatastore(dbName); err != nil {
		t.Fatalf("InitDatastore: %v", err)
	}
	return f
}

// Scenario 1: bare container.
func TestScenarioBareContainer(t *testing.T) {
	f := newFacade(t)
	if err := f.store.Set(dbName, "/a/b", []byte("7")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	doc, err := f.Get(dbName, "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	b := doc.Root().SelectElement("a").SelectElement("b")
	if b == nil || b.Text() != "7" {
		t.Fatalf("expected <a><b>7</b></a>, got %v", doc.Root())
	}
}

// Scenario 2: list with composite key, including a structural (no-body)
// pair for the list entry itself.
func TestScenarioListCompositeKey(t *testing.T) {
	f := newFacade(t)
	for k, v := range map[string][]byte{
		"/x/1/aa":    nil,
		"/x/1/aa/k1": []byte("1"),
		"/x/1/aa/k2": []byte("aa"),
		"/x/1/aa/v":  []byte("hello"),
	} {
		if err := f.store.Set(dbName, k, v); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	doc, err := f.Get(dbName, "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	x := doc.Root().SelectElement("x")
	if x == nil {
		t.Fatalf("expected <x> element")
	}
	if x.SelectElement("k1").Text() != "1" || x.SelectElement("k2").Text() != "aa" || x.SelectElement("v").Text() != "hello" {
		t.Fatalf("unexpected <x> contents: %v", x)
	}
}

// Scenario 3: leaf-list, two structural-body entries.
func TestScenarioLeafList(t *testing.T) {
	f := newFacade(t)
	for _, k := range []string{"/ll/red", "/ll/blue"} {
		if err := f.store.Set(dbName, k, nil); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	doc, err := f.Get(dbName, "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	lls := doc.Root().SelectElements("ll")
	if len(lls) != 2 {
		t.Fatalf("expected 2 <ll> siblings, got %d", len(lls))
	}
	seen := map[string]bool{}
	for _, ll := range lls {
		seen[ll.Text()] = true
	}
	if !seen["red"] || !seen["blue"] {
		t.Fatalf("expected red and blue bodies, got %v", seen)
	}
}

// Scenario 4: default injection.
func TestScenarioDefaultInjection(t *testing.T) {
	f := newFacade(t)
	doc, err := f.Get(dbName, "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	c := doc.Root().SelectElement("c")
	if c == nil || c.SelectElement("n") == nil || c.SelectElement("n").Text() != "42" {
		t.Fatalf("expected <c><n>42</n></c>, got %v", doc.Root())
	}
}

// Scenario 5: XPath prune keeps only the matched entry with full ancestry.
func TestScenarioXPathPrune(t *testing.T) {
	f := newFacade(t)
	for k, v := range map[string][]byte{
		"/x/1/aa/k1": []byte("1"), "/x/1/aa/k2": []byte("aa"), "/x/1/aa/v": []byte("hello"),
		"/x/2/bb/k1": []byte("2"), "/x/2/bb/k2": []byte("bb"), "/x/2/bb/v": []byte("world"),
	} {
		if err := f.store.Set(dbName, k, v); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	doc, err := f.Get(dbName, "./x[k1='1']")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	entries := doc.Root().SelectElements("x")
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 surviving <x>, got %d", len(entries))
	}
	if entries[0].SelectElement("k1").Text() != "1" {
		t.Fatalf("expected surviving entry to be k1=1, got %v", entries[0])
	}
}

// Scenario 6: put then get round trip; a second identical put does not
// grow the KV pair set.
func TestScenarioPutGetRoundTrip(t *testing.T) {
	f := newFacade(t)
	doc := etree.NewDocument()
	a := doc.CreateElement("a")
	a.CreateElement("b").SetText("7")

	if err := f.Put(dbName, &doc.Element, mutate.OpMerge); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := f.Get(dbName, "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Root().SelectElement("a").SelectElement("b").Text() != "7" {
		t.Fatalf("round trip mismatch: %v", got.Root())
	}

	pairsBefore, err := f.store.RegexScan(dbName, "")
	if err != nil {
		t.Fatalf("RegexScan: %v", err)
	}
	if err := f.Put(dbName, &doc.Element, mutate.OpMerge); err != nil {
		t.Fatalf("Put (again): %v", err)
	}
	pairsAfter, err := f.store.RegexScan(dbName, "")
	if err != nil {
		t.Fatalf("RegexScan: %v", err)
	}
	if len(pairsAfter) != len(pairsBefore) {
		t.Fatalf("expected idempotent merge, pair count grew from %d to %d", len(pairsBefore), len(pairsAfter))
	}
}

// Scenario 7: create conflict leaves the prior value untouched.
func TestScenarioCreateConflict(t *testing.T) {
	f := newFacade(t)
	if err := f.store.Set(dbName, "/a/b", []byte("7")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	err := f.PutKey(dbName, "/a/b", "8", mutate.OpCreate)
	if !errors.Is(err, ErrCreateExists) {
		t.Fatalf("expected ErrCreateExists, got %v", err)
	}
	v, found, err := f.store.Get(dbName, "/a/b")
	if err != nil || !found || string(v) != "7" {
		t.Fatalf("expected value unchanged at 7, got %q found=%v err=%v", v, found, err)
	}
}

// A replace writes exactly the keys the edit tree names, nothing stale and
// nothing extra, checked by diffing the full sorted key set rather than
// spot-checking individual paths.
func TestReplaceWritesExactKeySet(t *testing.T) {
	f := newFacade(t)
	if err := f.store.Set(dbName, "/a/b", []byte("stale")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	doc := etree.NewDocument()
	x := doc.CreateElement("x")
	x.CreateElement("k1").SetText("1")
	x.CreateElement("k2").SetText("aa")
	x.CreateElement("v").SetText("hello")

	if err := f.Put(dbName, &doc.Element, mutate.OpReplace); err != nil {
		t.Fatalf("Put (replace): %v", err)
	}

	pairs, err := f.store.RegexScan(dbName, "")
	if err != nil {
		t.Fatalf("RegexScan: %v", err)
	}
	var keys []string
	for _, p := range pairs {
		keys = append(keys, p.Key)
	}
	sort.Strings(keys)

	want := []string{"/x/1/aa", "/x/1/aa/k1", "/x/1/aa/k2", "/x/1/aa/v"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("unexpected key set after replace (-want +got):\n%s", diff)
	}
}

func TestReplaceResetsDatastore(t *testing.T) {
	f := newFacade(t)
	if err := f.store.Set(dbName, "/a/b", []byte("stale")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	doc := etree.NewDocument()
	x := doc.CreateElement("x")
	x.CreateElement("k1").SetText("1")
	x.CreateElement("k2").SetText("aa")
	x.CreateElement("v").SetText("hello")

	if err := f.Put(dbName, &doc.Element, mutate.OpReplace); err != nil {
		t.Fatalf("Put (replace): %v", err)
	}
	got, err := f.Get(dbName, "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Root().SelectElement("a") != nil {
		t.Fatalf("expected stale /a/b to be gone after replace")
	}
	if got.Root().SelectElement("x") == nil {
		t.Fatalf("expected new x entry to be present after replace")
	}
}
