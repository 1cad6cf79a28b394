package keywrap

import (
	"unicode/utf8"

	"github.com/awnumar/memguard"
	"github.com/mr-tron/base58"
)

// EncryptString wraps a text secret under passphrase and salt.
func (m *Manager) EncryptString(passphrase, salt []byte, s string) (Envelope, error) {
	return m.EncryptSecret(passphrase, salt, []byte(s))
}

// DecryptString opens a text secret.
// Returns ErrInvalidUTF8 if the recovered bytes are not valid UTF-8.
func (m *Manager) DecryptString(passphrase, salt []byte, env Envelope) (string, error) {
	plaintext, err := m.DecryptSecret(passphrase, salt, env)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plaintext) {
		return "", ErrInvalidUTF8
	}
	return string(plaintext), nil
}

// CurrentRootKeyEncoded returns the unlocked root key as base58 text, the
// form the storage process takes on its command line.
// Returns ErrLocked when no key is unlocked.
func (m *Manager) CurrentRootKeyEncoded() (string, error) {
	if m.closed.Load() {
		return "", ErrManagerClosed
	}
	key, ok := m.session.Key()
	if !ok {
		return "", ErrLocked
	}
	defer memguard.WipeBytes(key)
	return base58.Encode(key), nil
}

// EncodeKey renders a key as base58 text.
func EncodeKey(key []byte) string {
	return base58.Encode(key)
}

// DecodeKey parses base58 key text.
// Returns ErrEncoding for invalid text and ErrInvalidKeySize for keys under 32 bytes.
func DecodeKey(s string) ([]byte, error) {
	key, err := base58.Decode(s)
	if err != nil {
		return nil, ErrEncoding
	}
	if len(key) < KeySize {
		memguard.WipeBytes(key)
		return nil, ErrInvalidKeySize
	}
	return key, nil
}
