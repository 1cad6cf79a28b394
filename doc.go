// Package keywrap protects a repository root key behind a passphrase and
// encrypts small secrets under a passphrase.
//
// Neither the passphrase nor the unwrapped root key is ever written anywhere.
// The caller persists the Envelope returned by Initialize or EncryptSecret.
//
// # Key Derivation
//
// A passphrase and a caller-held salt are stretched with Argon2id
// (64 MiB, 2 passes, 8 lanes) into a 32-byte key-encryption key (KEK).
// Every envelope then gets its own subkey:
//
//	subkey = HKDF-SHA256(salt = 32 random bytes, ikm = KEK, info = EnvelopeInfo)
//
// # Envelope Format
//
//	base58(salt) ":" base58(ChaCha20-Poly1305(subkey, nonce = 0^12, plaintext) || tag)
//
// The nonce is constant. This is sound only because each subkey seals exactly
// one message: Wrap draws a fresh 32-byte salt from crypto/rand on every call.
// Code that reuses a salt or a subkey breaks the construction.
//
// # Basic Usage
//
//	mgr, err := keywrap.NewManager()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Account creation: wrap the root key and persist env.
//	env, err := mgr.Initialize(passphrase, salt, rootKey)
//
//	// Later: unlock with the stored envelope.
//	ok, err := mgr.Unlock(passphrase, salt, env)
//	if err == nil && !ok {
//	    // incorrect passphrase
//	}
//	key, _ := mgr.CurrentRootKeyEncoded()
//
// # Errors
//
// ErrAuthenticationFailed covers wrong passphrases and tampered data alike.
// Unlock folds it, ErrMalformedEnvelope and ErrEncoding into a plain false.
package keywrap
