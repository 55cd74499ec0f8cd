package render

import (
	"sync"

	"github.com/google/uuid"
)

// Ticket identifies one render request issued by [Surface.Begin].
type Ticket struct {
	Seq uint64
	ID  string // for log correlation
}

// Surface owns the scene currently on display.
//
// Requests are sequenced: a scene is installed only if its ticket is at
// least as new as the ticket of the scene already shown. Results that
// resolve out of order are discarded instead of overwriting newer output.
// A Surface is safe for concurrent use.
type Surface struct {
	mu        sync.Mutex
	issued    uint64
	committed uint64
	scene     *Scene
	onSwap    func(*Scene)
}

// NewSurface returns an empty surface. onSwap, if non-nil, is called with
// every installed scene while the surface lock is held.
func NewSurface(onSwap func(*Scene)) *Surface {
	return &Surface{onSwap: onSwap}
}

// Begin issues a ticket for a new render request.
func (s *Surface) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return Ticket{Seq: s.issued, ID: uuid.NewString()}
}

// Commit installs scene if t is not older than the last committed ticket.
// It reports whether the scene was installed.
func (s *Surface) Commit(t Ticket, scene *Scene) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Seq < s.committed {
		return false
	}
	s.committed = t.Seq
	s.scene = scene
	if s.onSwap != nil {
		s.onSwap(scene)
	}
	return true
}

// Swap installs scene unconditionally, ahead of every ticket issued so far.
func (s *Surface) Swap(scene *Scene) {
	s.Commit(s.Begin(), scene)
}

// Current returns the scene on display, or nil before the first commit.
func (s *Surface) Current() *Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene
}

// Stale reports whether a newer request has been issued since t.
func (s *Surface) Stale(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.Seq < s.issued
}
