package pager

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mveigas/quire/internal/document"
	"github.com/mveigas/quire/internal/watch"
)

type fakeProber struct {
	fp  watch.Fingerprint
	err error
}

func (f *fakeProber) Probe() (watch.Fingerprint, error) { return f.fp, f.err }

func writeDoc(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func openSession(t *testing.T, path string) (*Session, *Reconciler) {
	t.Helper()
	h, err := document.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { h.Close() })

	s := NewSession(h, passRenderer{})
	r, err := NewReconciler(s, watch.NewHashProbe(path))
	if err != nil {
		t.Fatalf("reconciler: %v", err)
	}
	return s, r
}

func TestReconcilerUnchangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	writeDoc(t, path, "one\ftwo")
	_, r := openSession(t, path)

	outcome := r.Check()
	if outcome.Kind != OutcomeUnchanged || outcome.Err != nil {
		t.Fatalf("outcome = %+v, want unchanged", outcome)
	}
	if got := r.State(); got != StateIdle {
		t.Fatalf("state = %s, want idle", got)
	}
}

func TestReconcilerReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	writeDoc(t, path, "one\ftwo")
	s, r := openSession(t, path)
	s.Goto(1)

	writeDoc(t, path, "uno\fdos\ftres")
	outcome := r.Check()
	if outcome.Kind != OutcomeReloaded {
		t.Fatalf("outcome = %+v, want reloaded", outcome)
	}
	if outcome.Cursor.Current != 1 || outcome.Cursor.Total != 3 {
		t.Fatalf("cursor = %+v, want position preserved across growth", outcome.Cursor)
	}
	if outcome.Generation != 2 {
		t.Fatalf("generation = %d, want 2", outcome.Generation)
	}

	a, err := s.CurrentArtifact()
	if err != nil {
		t.Fatalf("artifact: %v", err)
	}
	if a.Text != "dos" {
		t.Fatalf("artifact = %q, want new incarnation content", a.Text)
	}

	// The fingerprint was committed, so the same content reads as quiet.
	if outcome := r.Check(); outcome.Kind != OutcomeUnchanged {
		t.Fatalf("second check = %+v, want unchanged", outcome)
	}
}

func TestReconcilerShrinkClampsToFinalPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	writeDoc(t, path, "p1\fp2\fp3\fp4\fp5")
	s, r := openSession(t, path)
	s.End()

	writeDoc(t, path, "n1\fn2\fn3")
	outcome := r.Check()
	if outcome.Kind != OutcomeReloaded {
		t.Fatalf("outcome = %+v, want reloaded", outcome)
	}
	if outcome.Previous.Current != 4 || outcome.Cursor.Current != 2 {
		t.Fatalf("cursor %+v -> %+v, want 4 -> 2", outcome.Previous, outcome.Cursor)
	}
	if got := s.cache.Len(); got != 0 {
		t.Fatalf("cache len = %d, want 0 after reload", got)
	}

	st := s.Status()
	if !st.IsLast || st.Label != "page 3 / 3" {
		t.Fatalf("status = %+v", st)
	}
}

func TestReconcilerProbeFailureIsNoChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	writeDoc(t, path, "one\ftwo")
	s, r := openSession(t, path)
	s.Goto(1)

	// Simulates the window where a build tool has removed the file but
	// not yet written its replacement.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	outcome := r.Check()
	if outcome.Kind != OutcomeUnchanged || outcome.Err == nil {
		t.Fatalf("outcome = %+v, want unchanged with probe error", outcome)
	}
	st := s.Status()
	if st.Current != 1 || st.Total != 2 || st.Generation != 1 {
		t.Fatalf("session disturbed by probe failure: %+v", st)
	}

	// The replacement lands; the next pass picks it up whole.
	writeDoc(t, path, "a\fb\fc\fd")
	outcome = r.Check()
	if outcome.Kind != OutcomeReloaded || outcome.Cursor.Total != 4 {
		t.Fatalf("outcome after rewrite = %+v, want reloaded with 4 pages", outcome)
	}
}

func TestReconcilerReopenFailureRetriesNextSignal(t *testing.T) {
	src := newFakeSource("one", "two", "three")
	src.next = []string{"n1", "n2"}
	s := NewSession(src, passRenderer{})
	s.Goto(2)

	probe := &fakeProber{fp: "v1"}
	r, err := NewReconciler(s, probe)
	if err != nil {
		t.Fatalf("reconciler: %v", err)
	}

	probe.fp = "v2"
	src.reopenErr = errors.New("torn file")
	outcome := r.Check()
	if outcome.Kind != OutcomeFailed || outcome.Err == nil {
		t.Fatalf("outcome = %+v, want failed", outcome)
	}
	if got := r.State(); got != StateFailed {
		t.Fatalf("state = %s, want failed", got)
	}
	if got := r.Fingerprint(); got != "v1" {
		t.Fatalf("fingerprint = %q, committed despite failure", got)
	}
	if st := s.Status(); st.Current != 2 || st.Total != 3 || st.Generation != 1 {
		t.Fatalf("session disturbed by failed reload: %+v", st)
	}

	// The file settles; the uncommitted fingerprint forces a fresh pass.
	src.reopenErr = nil
	outcome = r.Check()
	if outcome.Kind != OutcomeReloaded {
		t.Fatalf("retry outcome = %+v, want reloaded", outcome)
	}
	if outcome.Cursor.Current != 1 || outcome.Cursor.Total != 2 {
		t.Fatalf("cursor = %+v, want clamped onto 2 pages", outcome.Cursor)
	}
	if got := r.Fingerprint(); got != "v2" {
		t.Fatalf("fingerprint = %q, want v2 after success", got)
	}
	if got := r.State(); got != StateIdle {
		t.Fatalf("state = %s, want idle", got)
	}
}

func TestNewReconcilerProbeFailure(t *testing.T) {
	s := NewSession(newFakeSource("one"), passRenderer{})
	probe := &fakeProber{err: errors.New("no such file")}

	if _, err := NewReconciler(s, probe); err == nil {
		t.Fatal("expected constructor failure when the initial probe fails")
	}
}
