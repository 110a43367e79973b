package audio

import (
	"context"
	"io"
	"sync"
)

// Session owns the live resources of one utterance: the playback handle, the
// temp-file resource backing it, and the cancellation of any request still in
// flight. Release tears all three down exactly once.
type Session struct {
	playback Playback
	resource io.Closer
	cancel   context.CancelFunc
	once     sync.Once
}

func NewSession(playback Playback, resource io.Closer, cancel context.CancelFunc) *Session {
	return &Session{playback: playback, resource: resource, cancel: cancel}
}

func (s *Session) Release() {
	s.once.Do(func() {
		if s.playback != nil {
			s.playback.Stop()
		}
		if s.resource != nil {
			s.resource.Close()
		}
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Slot is a controller's single audio-output slot. Installing a new session
// always releases the previous one first, so no two sessions hold live
// resources at the same time.
type Slot struct {
	mu     sync.Mutex
	active *Session
}

// Swap releases the current session, if any, before installing next. A nil
// next just clears the slot.
func (s *Slot) Swap(next *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		s.active.Release()
	}
	s.active = next
}

// Release clears the slot and releases whatever it held.
func (s *Slot) Release() {
	s.Swap(nil)
}

// ReleaseIf releases sess only while it is still the active session. An
// end-of-playback callback racing a supersession must not tear down the
// successor.
func (s *Slot) ReleaseIf(sess *Session) {
	s.mu.Lock()
	current := s.active == sess
	if current {
		s.active = nil
	}
	s.mu.Unlock()

	if current {
		sess.Release()
	}
}

// Active reports whether the slot currently holds a session.
func (s *Slot) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}
