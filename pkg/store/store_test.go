package store

import (
	"path/filepath"
	"reflect"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissing(t *testing.T) {
	s := tempStore(t)
	_, found, err := s.Get(Digest("never stored"))
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("Get of a missing digest reports found")
	}
}

func TestPutGetRoundtrip(t *testing.T) {
	s := tempStore(t)
	want := Outcome{Diagnostics: []Diagnostic{{From: 5, To: 6, Message: "expected \"then\""}}}
	if err := s.Put(Digest("if 1 t"), want); err != nil {
		t.Fatal(err)
	}
	got, found, err := s.Get(Digest("if 1 t"))
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("stored outcome not found")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestCleanOutcome(t *testing.T) {
	s := tempStore(t)
	if err := s.Put(Digest("1"), Outcome{}); err != nil {
		t.Fatal(err)
	}
	got, found, err := s.Get(Digest("1"))
	if err != nil || !found {
		t.Fatalf("Get -> %v, found=%v", err, found)
	}
	if len(got.Diagnostics) != 0 {
		t.Errorf("clean outcome has diagnostics: %+v", got)
	}
}

func TestDigestDiffers(t *testing.T) {
	if string(Digest("a")) == string(Digest("b")) {
		t.Error("digests of different sources collide")
	}
}
