package keywrap

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Session holds the unlocked root key, or nothing when locked.
// The key is kept sealed in a memguard Enclave and only decrypted into a
// guarded buffer for the duration of a read.
//
// Session is safe for concurrent use: writers take the exclusive lock,
// readers share it.
type Session struct {
	mu      sync.RWMutex
	enclave *memguard.Enclave
}

// set replaces the session key. key is wiped by memguard.
func (s *Session) set(key []byte) {
	enclave := memguard.NewEnclave(key)
	s.mu.Lock()
	s.enclave = enclave
	s.mu.Unlock()
}

// clear returns the session to the locked state.
func (s *Session) clear() {
	s.mu.Lock()
	s.enclave = nil
	s.mu.Unlock()
}

// Unlocked reports whether a root key is held.
func (s *Session) Unlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enclave != nil
}

// Key returns a copy of the root key, or false when locked.
func (s *Session) Key() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.enclave == nil {
		return nil, false
	}

	buf, err := s.enclave.Open()
	if err != nil {
		return nil, false
	}
	defer buf.Destroy()

	key := make([]byte, buf.Size())
	copy(key, buf.Bytes())
	return key, true
}
