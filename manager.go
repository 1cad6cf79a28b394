package keywrap

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/awnumar/memguard"
)

// Manager wraps and unwraps a root key under a passphrase and holds the
// unlocked root key for the rest of the process.
//
// The passphrase is stretched with Argon2id into a KEK, and the KEK seeds a
// single-use HKDF subkey for each envelope. Operations that change the session
// are serialized; reading the unlocked key is not.
//
// Manager is safe for concurrent use. Each passphrase operation spends
// hundreds of milliseconds in Argon2id, so callers with an event loop should
// run them off that loop.
type Manager struct {
	mu      sync.Mutex // serializes session mutations
	session Session
	config  *config
	closed  atomic.Bool
}

// NewManager creates a locked Manager.
// Returns ErrKDFConfig if the key derivation parameters are invalid.
func NewManager(opts ...Option) (*Manager, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.kdf.validate(); err != nil {
		return nil, err
	}

	return &Manager{config: cfg}, nil
}

// deriveKEK stretches passphrase with the Manager's Argon2id parameters.
// The caller must wipe the result.
func (m *Manager) deriveKEK(passphrase, salt []byte) ([]byte, error) {
	return m.config.kdf.derive(passphrase, salt)
}

// Initialize wraps rootKey under a KEK derived from passphrase and salt and
// unlocks the session with it. Any key already unlocked is replaced.
//
// The session key is taken from unwrapping the new envelope rather than from
// rootKey directly, so a successful Initialize proves the envelope opens.
// The caller persists the returned Envelope and discards any older one.
func (m *Manager) Initialize(passphrase, salt, rootKey []byte) (Envelope, error) {
	if m.closed.Load() {
		return "", ErrManagerClosed
	}
	if len(rootKey) < KeySize {
		return "", ErrInvalidKeySize
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kek, err := m.deriveKEK(passphrase, salt)
	if err != nil {
		return "", err
	}
	defer memguard.WipeBytes(kek)

	env, err := m.sealRootKey(kek, rootKey)
	if err != nil {
		return "", err
	}

	m.config.logger.Infof("root key wrapped, session unlocked")
	return env, nil
}

// sealRootKey wraps rootKey under kek, verifies the envelope opens, and
// stores the recovered key in the session. m.mu must be held.
func (m *Manager) sealRootKey(kek, rootKey []byte) (Envelope, error) {
	env, err := wrap(m.config.random, rootKey, kek)
	if err != nil {
		return "", err
	}

	recovered, err := Unwrap(env, kek)
	if err != nil {
		return "", err
	}

	m.session.set(recovered)
	return env, nil
}

// Unlock derives the KEK from passphrase and salt and tries to open env.
// On success the recovered root key becomes the session key and Unlock
// returns true.
//
// A wrong passphrase, a corrupted envelope and a malformed envelope all
// return false with a nil error and leave the session unchanged; the caller
// cannot tell them apart. An error is returned only for an unusable salt or
// KDF configuration.
func (m *Manager) Unlock(passphrase, salt []byte, env Envelope) (bool, error) {
	if m.closed.Load() {
		return false, ErrManagerClosed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kek, err := m.deriveKEK(passphrase, salt)
	if err != nil {
		return false, err
	}
	defer memguard.WipeBytes(kek)

	recovered, err := Unwrap(env, kek)
	switch {
	case isRejection(err):
		m.config.logger.Debugf("unlock rejected")
		return false, nil
	case err != nil:
		return false, err
	}

	// An envelope holding a short secret is not a root key.
	if len(recovered) < KeySize {
		memguard.WipeBytes(recovered)
		m.config.logger.Debugf("unlock rejected")
		return false, nil
	}

	m.session.set(recovered)
	m.config.logger.Infof("session unlocked")
	return true, nil
}

// isRejection reports whether err means the envelope could not be opened
// with the given passphrase, for whatever reason.
func isRejection(err error) bool {
	return errors.Is(err, ErrAuthenticationFailed) ||
		errors.Is(err, ErrMalformedEnvelope) ||
		errors.Is(err, ErrEncoding)
}

// EncryptSecret wraps plaintext under a KEK derived from passphrase and salt.
// It does not read or change the session.
func (m *Manager) EncryptSecret(passphrase, salt, plaintext []byte) (Envelope, error) {
	if m.closed.Load() {
		return "", ErrManagerClosed
	}

	kek, err := m.deriveKEK(passphrase, salt)
	if err != nil {
		return "", err
	}
	defer memguard.WipeBytes(kek)

	return wrap(m.config.random, plaintext, kek)
}

// DecryptSecret opens an envelope produced by EncryptSecret.
// Returns ErrAuthenticationFailed for a wrong passphrase or corrupted data.
func (m *Manager) DecryptSecret(passphrase, salt []byte, env Envelope) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrManagerClosed
	}

	kek, err := m.deriveKEK(passphrase, salt)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(kek)

	return Unwrap(env, kek)
}

// CurrentRootKey returns a copy of the unlocked root key, or false when locked.
func (m *Manager) CurrentRootKey() ([]byte, bool) {
	if m.closed.Load() {
		return nil, false
	}
	return m.session.Key()
}

// IsUnlocked reports whether a root key is held.
func (m *Manager) IsUnlocked() bool {
	return !m.closed.Load() && m.session.Unlocked()
}

// Lock discards the unlocked root key.
func (m *Manager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session.clear()
	m.config.logger.Infof("session locked")
}

// Close locks the session. After calling Close, the Manager is no longer usable.
func (m *Manager) Close() {
	m.closed.Store(true)
	m.Lock()
}
