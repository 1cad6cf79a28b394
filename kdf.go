package keywrap

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// EnvelopeInfo is the HKDF info string for envelope subkeys. It names the
// scheme version; a revised scheme must use a new string so keys derived
// for different versions never coincide.
const EnvelopeInfo = "cognitechbridge.com/v1/ChaCha20Poly1350"

// deriveSubkey expands a single-use AEAD key from baseKey using HKDF-SHA256.
//
//	PRK    = HKDF-Extract(salt, baseKey)
//	subkey = HKDF-Expand(PRK, info, 32)
//
// Each (baseKey, salt) pair must feed exactly one encryption.
func deriveSubkey(baseKey, salt []byte, info string) ([KeySize]byte, error) {
	var out [KeySize]byte
	if err := hkdfDerive(baseKey, salt, info, out[:]); err != nil {
		return out, err
	}
	return out, nil
}

// hkdfDerive performs HKDF-SHA256 key derivation into out.
// The only failure mode is an out length beyond 255*32 bytes.
func hkdfDerive(baseKey, salt []byte, info string, out []byte) error {
	reader := hkdf.New(sha256.New, baseKey, salt, []byte(info))
	_, err := io.ReadFull(reader, out)
	return err
}
