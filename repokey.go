package keywrap

import "github.com/awnumar/memguard"

// EncryptRepoKey wraps a repository key under the unlocked root key.
// Each call draws a fresh envelope salt, so wrapping the same key twice
// yields different envelopes.
//
// Returns ErrLocked when no root key is unlocked.
func (m *Manager) EncryptRepoKey(repoKey []byte) (Envelope, error) {
	if m.closed.Load() {
		return "", ErrManagerClosed
	}

	rootKey, ok := m.session.Key()
	if !ok {
		return "", ErrLocked
	}
	defer memguard.WipeBytes(rootKey)

	return wrap(m.config.random, repoKey, rootKey)
}

// DecryptRepoKey opens an envelope produced by EncryptRepoKey.
// Returns ErrLocked when no root key is unlocked and ErrAuthenticationFailed
// when env was wrapped under a different root key.
func (m *Manager) DecryptRepoKey(env Envelope) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}

	rootKey, ok := m.session.Key()
	if !ok {
		return nil, ErrLocked
	}
	defer memguard.WipeBytes(rootKey)

	return Unwrap(env, rootKey)
}
