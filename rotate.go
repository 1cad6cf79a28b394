package keywrap

import "github.com/awnumar/memguard"

// ChangePassphrase re-wraps the root key in env under a new passphrase and salt.
// The root key is unchanged; the session is unlocked with it.
//
// Returns ErrAuthenticationFailed if oldPassphrase does not open env. The
// caller persists the returned Envelope and discards env.
func (m *Manager) ChangePassphrase(oldPassphrase, oldSalt []byte, env Envelope, newPassphrase, newSalt []byte) (Envelope, error) {
	if m.closed.Load() {
		return "", ErrManagerClosed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	oldKEK, err := m.deriveKEK(oldPassphrase, oldSalt)
	if err != nil {
		return "", err
	}
	defer memguard.WipeBytes(oldKEK)

	rootKey, err := Unwrap(env, oldKEK)
	if err != nil {
		return "", err
	}
	defer memguard.WipeBytes(rootKey)

	if len(rootKey) < KeySize {
		return "", ErrInvalidKeySize
	}

	newKEK, err := m.deriveKEK(newPassphrase, newSalt)
	if err != nil {
		return "", err
	}
	defer memguard.WipeBytes(newKEK)

	newEnv, err := m.sealRootKey(newKEK, rootKey)
	if err != nil {
		return "", err
	}

	m.config.logger.Infof("passphrase changed, session unlocked")
	return newEnv, nil
}

// EnvelopeSalt extracts the subkey salt from an envelope without decrypting.
func EnvelopeSalt(env Envelope) ([]byte, error) {
	salt, _, err := parseEnvelope(env)
	if err != nil {
		return nil, err
	}
	return salt, nil
}
