package keywrap

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/chacha20poly1305"
)

// zeroNonce is the ChaCha20-Poly1305 nonce used for every envelope.
//
// A constant nonce is only sound because every envelope is sealed under a
// fresh subkey: Wrap draws a new random salt on each call, and the subkey is
// HKDF(baseKey, salt). Never reuse a salt or a subkey for a second Seal.
var zeroNonce [chacha20poly1305.NonceSize]byte

// Wrap seals plaintext under a fresh subkey of baseKey and returns the Envelope.
// baseKey must be at least 32 bytes.
func Wrap(plaintext, baseKey []byte) (Envelope, error) {
	return wrap(rand.Reader, plaintext, baseKey)
}

func wrap(random io.Reader, plaintext, baseKey []byte) (Envelope, error) {
	if len(baseKey) < KeySize {
		return "", ErrInvalidKeySize
	}

	salt, err := readSalt(random)
	if err != nil {
		return "", fmt.Errorf("keywrap: read salt: %w", err)
	}

	subkey, err := deriveSubkey(baseKey, salt, EnvelopeInfo)
	if err != nil {
		return "", err
	}
	defer memguard.WipeBytes(subkey[:])

	aead, err := chacha20poly1305.New(subkey[:])
	if err != nil {
		return "", err
	}

	ciphertext := aead.Seal(nil, zeroNonce[:], plaintext, nil)
	return formatEnvelope(salt, ciphertext), nil
}

// Unwrap opens an Envelope produced by Wrap with the same baseKey.
//
// Returns ErrMalformedEnvelope or ErrEncoding for unparseable input, and
// ErrAuthenticationFailed when the key is wrong or the data was modified.
func Unwrap(e Envelope, baseKey []byte) ([]byte, error) {
	if len(baseKey) < KeySize {
		return nil, ErrInvalidKeySize
	}

	salt, ciphertext, err := parseEnvelope(e)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < chacha20poly1305.Overhead {
		return nil, ErrAuthenticationFailed
	}

	subkey, err := deriveSubkey(baseKey, salt, EnvelopeInfo)
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(subkey[:])

	aead, err := chacha20poly1305.New(subkey[:])
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, zeroNonce[:], ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}
