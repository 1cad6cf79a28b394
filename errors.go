package keywrap

import "errors"

var (
	// ErrKDFConfig indicates the Argon2id parameter set is invalid. This is a static
	// misconfiguration and never depends on the passphrase being derived.
	ErrKDFConfig = errors.New("keywrap: invalid key derivation parameters")

	// ErrMalformedEnvelope indicates the envelope does not have exactly two fields.
	ErrMalformedEnvelope = errors.New("keywrap: malformed envelope")

	// ErrEncoding indicates an envelope field is not valid base58 or has the wrong length.
	ErrEncoding = errors.New("keywrap: invalid envelope encoding")

	// ErrAuthenticationFailed indicates AEAD authentication failed.
	// Wrong passphrase, wrong key and corrupted data all map to this error.
	ErrAuthenticationFailed = errors.New("keywrap: authentication failed")

	// ErrInvalidUTF8 indicates a decrypted text secret is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("keywrap: decrypted secret is not valid UTF-8")

	// ErrInvalidSalt indicates the passphrase salt is shorter than MinKEKSaltSize.
	ErrInvalidSalt = errors.New("keywrap: salt must be at least 8 bytes")

	// ErrInvalidKeySize indicates a base or root key shorter than 32 bytes.
	ErrInvalidKeySize = errors.New("keywrap: key must be at least 32 bytes")

	// ErrLocked indicates no root key is unlocked.
	ErrLocked = errors.New("keywrap: session is locked")

	// ErrManagerClosed indicates the Manager was used after Close() was called.
	ErrManagerClosed = errors.New("keywrap: manager is closed")
)
