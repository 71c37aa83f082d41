package kv

import (
	"path/filepath"
	"testing"
)

func newTestBoltKV(t *testing.T) *boltKV {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	k, err := NewBoltKV(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = k.Close() })
	return k
}

func TestBoltKVSetGetDelete(t *testing.T) {
	k := newTestBoltKV(t)
	if err := k.Init("running"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := k.Set("running", "/a/b", []byte("7")); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := k.Get("running", "/a/b")
	if err != nil || !ok || string(v) != "7" {
		t.Fatalf("get = %q, %v, %v", v, ok, err)
	}
	if err := k.Delete("running", "/a/b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, ok, err = k.Get("running", "/a/b")
	if err != nil || ok {
		t.Fatalf("expected absent, got ok=%v err=%v", ok, err)
	}
}

func TestBoltKVRegexScanOrdering(t *testing.T) {
	k := newTestBoltKV(t)
	_ = k.Init("running")
	_ = k.Set("running", "/x/2/bb", nil)
	_ = k.Set("running", "/x/1/aa", nil)
	_ = k.Set("running", "/x/1/aa/k1", []byte("1"))

	pairs, err := k.RegexScan("running", "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i-1].Key > pairs[i].Key {
			t.Fatalf("expected sorted keys, got %v", pairs)
		}
	}
}

func TestBoltKVUnlink(t *testing.T) {
	k := newTestBoltKV(t)
	_ = k.Init("candidate")
	_ = k.Set("candidate", "/a", []byte("1"))
	if err := k.Unlink("candidate"); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	pairs, err := k.RegexScan("candidate", "")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("expected empty after unlink, got %v", pairs)
	}
}
