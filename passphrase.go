package keywrap

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Every KEK in the system is derived with this set;
// changing any value makes previously issued envelopes undecryptable.
const (
	argonMemory  = 64 * 1024 // KiB
	argonTime    = 2
	argonThreads = 8

	// KeySize is the length of every derived key (KEK and subkey).
	KeySize = 32

	// MinKEKSaltSize is the shortest salt Argon2 accepts.
	MinKEKSaltSize = 8
)

// kdfParams is an Argon2id parameter set.
type kdfParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

// defaultKDFParams are the production parameters, tuned for interactive unlock.
var defaultKDFParams = kdfParams{
	memory:  argonMemory,
	time:    argonTime,
	threads: argonThreads,
	keyLen:  KeySize,
}

// validate reports ErrKDFConfig for parameter sets Argon2 cannot run.
// argon2.IDKey panics on some of these, so they are rejected up front.
func (p kdfParams) validate() error {
	if p.time < 1 || p.threads < 1 || p.keyLen != KeySize {
		return ErrKDFConfig
	}
	if p.memory < 8*uint32(p.threads) {
		return ErrKDFConfig
	}
	return nil
}

// derive runs Argon2id over passphrase and salt.
//
// Any passphrase is accepted, including the empty one: Argon2 hashes the
// input with BLAKE2b first, so a very long passphrase only costs time
// linear in its length.
func (p kdfParams) derive(passphrase, salt []byte) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(salt) < MinKEKSaltSize {
		return nil, ErrInvalidSalt
	}
	return argon2.IDKey(passphrase, salt, p.time, p.memory, p.threads, p.keyLen), nil
}

// DeriveKEK derives a 32-byte key-encryption key from a passphrase and salt
// using Argon2id (64 MiB, 2 passes, 8 lanes). The result is deterministic.
//
// The caller owns the returned slice and should wipe it when done.
func DeriveKEK(passphrase, salt []byte) ([]byte, error) {
	return defaultKDFParams.derive(passphrase, salt)
}

// GenerateSalt returns SaltSize bytes from crypto/rand, suitable as a KEK salt
// when the caller does not already have one.
func GenerateSalt() ([]byte, error) {
	return readSalt(rand.Reader)
}

func readSalt(r io.Reader) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, err
	}
	return salt, nil
}
