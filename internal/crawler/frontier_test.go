package crawler

import (
	"strconv"
	"testing"
)

func TestFrontier(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()
		if f.Len() != 0 {
			t.Errorf("Len() = %d, want 0", f.Len())
		}
		if _, ok := f.Pop(); ok {
			t.Error("Pop() on empty frontier should report false")
		}
		if _, ok := f.Peek(); ok {
			t.Error("Peek() on empty frontier should report false")
		}
	})

	t.Run("fifo order", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()
		f.Push("a", 0)
		f.Push("b", 1)
		f.Push("c", 1)

		head, ok := f.Peek()
		if !ok || head.url != "a" {
			t.Fatalf("Peek() = %+v, %v", head, ok)
		}
		if f.Len() != 3 {
			t.Fatalf("Len() = %d, want 3", f.Len())
		}

		for _, want := range []frontierEntry{{"a", 0}, {"b", 1}, {"c", 1}} {
			got, ok := f.Pop()
			if !ok || got != want {
				t.Errorf("Pop() = %+v, %v, want %+v", got, ok, want)
			}
		}
		if f.Len() != 0 {
			t.Errorf("Len() = %d, want 0", f.Len())
		}
	})

	t.Run("order survives compaction", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()
		next := 0
		for i := range 500 {
			f.Push(strconv.Itoa(i), i)
			if i%3 == 0 {
				got, ok := f.Pop()
				if !ok || got.depth != next {
					t.Fatalf("Pop() = %+v, want depth %d", got, next)
				}
				next++
			}
		}
		for f.Len() > 0 {
			got, _ := f.Pop()
			if got.depth != next {
				t.Fatalf("Pop() = %+v, want depth %d", got, next)
			}
			next++
		}
		if next != 500 {
			t.Errorf("popped %d entries, want 500", next)
		}
	})
}
