package keywrap

import (
	"strings"

	"github.com/mr-tron/base58"
)

// Envelope format:
//
//	base58(salt) ":" base58(ciphertext || tag)
//
// salt is SaltSize random bytes. The 16-byte Poly1305 tag stays appended to
// the ciphertext. base58 has no padding and no ':' in its alphabet, so the
// split is unambiguous.

const (
	// SaltSize is the length of an envelope salt.
	SaltSize = 32

	envelopeSeparator = ":"
)

// Envelope is the persisted, text form of a wrapped secret.
type Envelope string

// String implements fmt.Stringer.
func (e Envelope) String() string {
	return string(e)
}

// formatEnvelope assembles an Envelope from its raw parts.
func formatEnvelope(salt, ciphertext []byte) Envelope {
	return Envelope(base58.Encode(salt) + envelopeSeparator + base58.Encode(ciphertext))
}

// parseEnvelope splits and decodes an Envelope.
// Returns ErrMalformedEnvelope unless there is exactly one separator, and
// ErrEncoding if either part is empty, not base58, or the salt is the wrong size.
func parseEnvelope(e Envelope) (salt, ciphertext []byte, err error) {
	parts := strings.Split(string(e), envelopeSeparator)
	if len(parts) != 2 {
		err = ErrMalformedEnvelope
		return
	}

	if parts[0] == "" || parts[1] == "" {
		err = ErrEncoding
		return
	}

	salt, err = base58.Decode(parts[0])
	if err != nil || len(salt) != SaltSize {
		salt, err = nil, ErrEncoding
		return
	}

	ciphertext, err = base58.Decode(parts[1])
	if err != nil {
		salt, ciphertext, err = nil, nil, ErrEncoding
		return
	}

	return
}

// ParseEnvelope validates the text form of an envelope without decrypting it.
func ParseEnvelope(s string) (Envelope, error) {
	e := Envelope(strings.TrimSpace(s))
	if _, _, err := parseEnvelope(e); err != nil {
		return "", err
	}
	return e, nil
}
