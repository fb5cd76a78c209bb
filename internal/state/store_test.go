package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/runlog/internal/logparse"
)

func TestStore_PutAndSnapshot(t *testing.T) {
	var s Store

	before := time.Now()
	changed := s.Put(logparse.Source{ID: "job:1", Name: "build", Text: "##[group]Run\nok\n"})
	if !changed {
		t.Fatalf("Put reported no change for a new document")
	}

	snap := s.Snapshot()
	if len(snap.Entries) != 1 {
		t.Fatalf("snapshot entries = %d, want 1", len(snap.Entries))
	}
	e := snap.Entries[0]
	if e.ID != "job:1" || e.Name != "build" || !e.Ready() {
		t.Fatalf("entry = %+v", e)
	}
	if e.Doc.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2", e.Doc.LineCount())
	}
	if e.FetchedAt.Before(before) {
		t.Fatalf("FetchedAt = %v, want >= %v", e.FetchedAt, before)
	}
	if snap.Generation == 0 {
		t.Fatalf("Generation not bumped")
	}
}

func TestStore_IdenticalRefetchKeepsParse(t *testing.T) {
	var s Store
	src := logparse.Source{ID: "a", Text: "hello\n"}
	s.Put(src)
	first, err := s.Get("a")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	if s.Put(src) {
		t.Fatalf("Put reported change for identical text")
	}
	second, _ := s.Get("a")
	if second.Doc != first.Doc {
		t.Fatalf("identical refetch should reuse the parsed document")
	}
	if second.FetchedAt.Before(first.FetchedAt) {
		t.Fatalf("FetchedAt went backwards")
	}

	if !s.Put(logparse.Source{ID: "a", Text: "hello\nworld\n"}) {
		t.Fatalf("Put reported no change for new text")
	}
	third, _ := s.Get("a")
	if third.Doc == first.Doc || third.Doc.LineCount() != 2 {
		t.Fatalf("changed text should replace the document")
	}
}

func TestStore_FailKeepsPreviousDocument(t *testing.T) {
	var s Store
	s.Put(logparse.Source{ID: "a", Text: "x"})
	prev, _ := s.Get("a")

	origErr := errors.New("boom")
	s.Fail("a", "", origErr)

	e, err := s.Get("a")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if e.Doc != prev.Doc {
		t.Fatalf("document changed on failure")
	}
	if e.LastError == nil || e.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", e.LastError)
	}
	if !errors.Is(e.LastError, origErr) {
		t.Fatalf("LastError should wrap the original")
	}
	if reflect.ValueOf(e.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Get should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	s.Fail("job:9", "deploy", errors.New("fail 1"))
	e, _ := s.Get("job:9")
	if e.ConsecutiveFailures != 1 || e.IsOffline() || e.Ready() {
		t.Fatalf("after 1 failure: %+v", e)
	}
	if e.Name != "deploy" {
		t.Fatalf("Name = %q, want deploy", e.Name)
	}

	s.Fail("job:9", "deploy", errors.New("fail 2"))
	e, _ = s.Get("job:9")
	if e.ConsecutiveFailures != 2 || !e.IsOffline() {
		t.Fatalf("after 2 failures: %+v", e)
	}

	s.Put(logparse.Source{ID: "job:9", Name: "deploy", Text: "ok"})
	e, _ = s.Get("job:9")
	if e.ConsecutiveFailures != 0 || e.IsOffline() || e.LastError != nil {
		t.Fatalf("success should reset failures: %+v", e)
	}
}

func TestStore_UnknownAndInvalidate(t *testing.T) {
	var s Store
	if _, err := s.Get("nope"); !errors.Is(err, ErrUnknownDocument) {
		t.Fatalf("Get error = %v, want ErrUnknownDocument", err)
	}
	if err := s.Invalidate("nope"); !errors.Is(err, ErrUnknownDocument) {
		t.Fatalf("Invalidate error = %v, want ErrUnknownDocument", err)
	}

	s.Put(logparse.Source{ID: "a", Text: "1"})
	s.Put(logparse.Source{ID: "b", Text: "2"})
	s.Put(logparse.Source{ID: "c", Text: "3"})
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("IDs = %v", got)
	}

	gen := s.Generation()
	if err := s.Invalidate("b"); err != nil {
		t.Fatalf("Invalidate returned error: %v", err)
	}
	if s.Generation() == gen {
		t.Fatalf("Invalidate did not bump generation")
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("IDs after invalidate = %v", got)
	}
	if _, ok := s.Snapshot().Find("b"); ok {
		t.Fatalf("invalidated entry still in snapshot")
	}
}

func TestStore_SnapshotIsIndependent(t *testing.T) {
	var s Store
	s.Put(logparse.Source{ID: "a", Text: "1"})
	snap := s.Snapshot()
	snap.Entries[0].Name = "changed"
	if e, _ := s.Get("a"); e.Name == "changed" {
		t.Fatalf("Snapshot should copy entries")
	}
	if (&Store{}).Snapshot().Entries != nil {
		t.Fatalf("empty store snapshot should have no entries")
	}
}

func TestStore_TrackKeepsOrder(t *testing.T) {
	var s Store
	s.Track("b", "second")
	s.Track("a", "first")
	s.Track("b", "renamed")

	s.Put(logparse.Source{ID: "a", Name: "first", Text: "x"})
	s.Fail("b", "second", errors.New("boom"))

	if got := s.IDs(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("IDs = %v, want [b a]", got)
	}
	e, err := s.Get("b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if e.Name != "second" || e.Ready() || e.ConsecutiveFailures != 1 {
		t.Fatalf("entry = %+v", e)
	}
}
