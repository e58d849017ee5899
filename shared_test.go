package shared

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/shared/errors"
)

func expectPanic(t *testing.T, op errors.Op, kind errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with [%s] %s, got none", op, kind)
		}
		err, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("expected *errors.Error panic, got %T: %v", r, r)
		}
		if !stderrors.Is(err, &errors.Error{Op: op, Kind: kind}) {
			t.Fatalf("expected [%s] %s, got %v", op, kind, err)
		}
	}()
	fn()
}

func TestReadAndWriteNumbers(t *testing.T) {
	x := New(10)
	if x.Get() != 10 {
		t.Fatalf("expected 10, got %d", x.Get())
	}

	*x.Borrow() += 5
	if x.Get() != 15 {
		t.Fatalf("expected 15, got %d", x.Get())
	}

	x.Release()
}

func TestWorksWithStrings(t *testing.T) {
	s := New("Shared")
	if s.Get() != "Shared" {
		t.Fatalf("expected %q, got %q", "Shared", s.Get())
	}

	*s.Borrow() += " pointer!"
	if s.Get() != "Shared pointer!" {
		t.Fatalf("expected %q, got %q", "Shared pointer!", s.Get())
	}

	s.Release()
}

func TestWorksWithStructs(t *testing.T) {
	type point struct {
		x, y int
	}

	p := New(point{x: 1, y: 2})
	if p.Get() != (point{x: 1, y: 2}) {
		t.Fatalf("unexpected initial value: %+v", p.Get())
	}

	v := p.Borrow()
	v.x = 10
	v.y = 20
	if p.Get() != (point{x: 10, y: 20}) {
		t.Fatalf("unexpected value after mutation: %+v", p.Get())
	}

	p.Release()
}

func TestWorksWithSlices(t *testing.T) {
	v := New([]int{1, 2, 3})

	*v.Borrow() = append(*v.Borrow(), 4)

	got := v.Get()
	want := []int{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	v.Release()
}

func TestMultipleClones(t *testing.T) {
	a := New(100)
	b := a.Clone()
	c := a.Clone()

	if a.Get() != 100 || b.Get() != 100 || c.Get() != 100 {
		t.Fatalf("expected all handles to read 100, got %d %d %d", a.Get(), b.Get(), c.Get())
	}
	if a.RefCount() != 3 {
		t.Fatalf("expected count 3, got %d", a.RefCount())
	}

	*b.Borrow() += 50
	if a.Get() != 150 || b.Get() != 150 || c.Get() != 150 {
		t.Fatalf("expected all handles to read 150, got %d %d %d", a.Get(), b.Get(), c.Get())
	}

	a.Release()
	b.Release()
	if c.RefCount() != 1 {
		t.Fatalf("expected count 1, got %d", c.RefCount())
	}
	c.Release()
}

func TestCloneNeverCopiesPayload(t *testing.T) {
	a := New([4096]byte{})
	b := a.Clone()

	// Same block means the same payload address through any handle.
	if a.Borrow() != b.Borrow() {
		t.Fatal("clone produced a distinct payload")
	}

	a.Borrow()[0] = 42
	if b.Borrow()[0] != 42 {
		t.Fatal("mutation through one handle not visible through another")
	}

	a.Release()
	b.Release()
}

func TestMutationVisibleToLaterClones(t *testing.T) {
	a := New(1)
	*a.Borrow() = 2

	// A clone created after the mutation observes it too.
	b := a.Clone()
	if b.Get() != 2 {
		t.Fatalf("expected 2, got %d", b.Get())
	}

	b.Set(3)
	if a.Get() != 3 {
		t.Fatalf("expected 3, got %d", a.Get())
	}

	a.Release()
	b.Release()
}

type dropFlag struct {
	released *bool
}

func (d dropFlag) Drop() {
	if *d.released {
		panic("teardown ran twice")
	}
	*d.released = true
}

func TestTeardownRunsOnceAtLastRelease(t *testing.T) {
	released := false

	a := New(dropFlag{released: &released})
	b := a.Clone()

	b.Release()
	if released {
		t.Fatal("teardown ran while a handle was still live")
	}

	a.Release()
	if !released {
		t.Fatal("teardown did not run after the last release")
	}
}

func TestTeardownHook(t *testing.T) {
	var got string
	s := NewWithTeardown("payload", func(v string) { got = v })

	s.Release()
	if got != "payload" {
		t.Fatalf("teardown hook saw %q", got)
	}
}

func TestTeardownHookTakesPrecedenceOverDropper(t *testing.T) {
	released := false
	hooked := false

	s := NewWithTeardown(dropFlag{released: &released}, func(dropFlag) { hooked = true })
	s.Release()

	if !hooked {
		t.Fatal("explicit hook did not run")
	}
	if released {
		t.Fatal("Dropper ran despite explicit hook")
	}
}

func TestCreateReleaseRoundTrip(t *testing.T) {
	released := false

	s := New(dropFlag{released: &released})
	if s.RefCount() != 1 {
		t.Fatalf("expected count 1, got %d", s.RefCount())
	}

	s.Release()
	if !released {
		t.Fatal("teardown did not run for the only handle")
	}
}

func TestDoubleReleasePanics(t *testing.T) {
	s := New(1)
	s.Release()

	expectPanic(t, errors.OpRelease, errors.KindDoubleRelease, func() {
		s.Release()
	})
}

func TestUseAfterReleasePanics(t *testing.T) {
	s := New(1)
	s.Release()

	expectPanic(t, errors.OpBorrow, errors.KindUseAfterRelease, func() {
		s.Get()
	})
	expectPanic(t, errors.OpClone, errors.KindUseAfterRelease, func() {
		s.Clone()
	})
}

func TestReleaseConfinedToOneHandle(t *testing.T) {
	a := New("alive")
	b := a.Clone()
	b.Release()

	// a is untouched by b's end-of-life.
	if a.Get() != "alive" {
		t.Fatalf("expected %q, got %q", "alive", a.Get())
	}
	if a.RefCount() != 1 {
		t.Fatalf("expected count 1, got %d", a.RefCount())
	}
	a.Release()
}
