package render

import (
	"sync"
	"testing"
)

func TestSurfaceLatestTicketWins(t *testing.T) {
	s := NewSurface(nil)
	older, newer := s.Begin(), s.Begin()
	a, b := &Scene{Width: 1}, &Scene{Width: 2}

	if !s.Commit(newer, b) {
		t.Fatal("newer commit rejected")
	}
	if s.Commit(older, a) {
		t.Error("stale commit accepted")
	}
	if s.Current() != b {
		t.Error("stale scene replaced newer one")
	}
}

func TestSurfaceInOrderCommits(t *testing.T) {
	var swaps int
	s := NewSurface(func(*Scene) { swaps++ })
	t1, t2 := s.Begin(), s.Begin()
	s.Commit(t1, &Scene{})
	s.Commit(t2, &Scene{Width: 7})

	if swaps != 2 {
		t.Errorf("swaps = %d, want 2", swaps)
	}
	if s.Current().Width != 7 {
		t.Errorf("current width = %v, want 7", s.Current().Width)
	}
	if !s.Stale(t1) || s.Stale(t2) {
		t.Error("Stale reports wrong tickets")
	}
}

func TestSurfaceSwap(t *testing.T) {
	s := NewSurface(nil)
	pending := s.Begin()
	s.Swap(&Scene{Width: 3})
	if s.Commit(pending, &Scene{}) {
		t.Error("request issued before Swap overwrote it")
	}
	if s.Current().Width != 3 {
		t.Error("Swap did not install scene")
	}
}

func TestSurfaceConcurrent(t *testing.T) {
	s := NewSurface(nil)
	tickets := make([]Ticket, 32)
	for i := range tickets {
		tickets[i] = s.Begin()
	}
	last := tickets[len(tickets)-1]

	var wg sync.WaitGroup
	for i := len(tickets) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(tk Ticket) {
			defer wg.Done()
			s.Commit(tk, &Scene{Width: float64(tk.Seq)})
		}(tickets[i])
	}
	wg.Wait()

	if got := s.Current().Width; got != float64(last.Seq) {
		t.Errorf("current scene from ticket %v, want %d", got, last.Seq)
	}
}
