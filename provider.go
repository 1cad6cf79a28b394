package keywrap

// KeyProvider supplies the currently unlocked root key to code that hands it
// on, such as the launcher of the storage process. *Manager implements it.
type KeyProvider interface {
	// CurrentRootKey returns a copy of the root key, or false when locked.
	CurrentRootKey() ([]byte, bool)
}

// StaticKeyProvider is a fixed in-memory KeyProvider.
// Useful for testing code that consumes a KeyProvider.
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider creates a StaticKeyProvider holding a copy of key.
// A nil key yields a provider that reports locked.
func NewStaticKeyProvider(key []byte) *StaticKeyProvider {
	if key == nil {
		return &StaticKeyProvider{}
	}
	keyCopy := make([]byte, len(key))
	copy(keyCopy, key)
	return &StaticKeyProvider{key: keyCopy}
}

// CurrentRootKey implements KeyProvider.
func (p *StaticKeyProvider) CurrentRootKey() ([]byte, bool) {
	if p.key == nil {
		return nil, false
	}
	keyCopy := make([]byte, len(p.key))
	copy(keyCopy, p.key)
	return keyCopy, true
}

// Close zeros out the key. After calling Close, the provider reports locked.
func (p *StaticKeyProvider) Close() {
	for i := range p.key {
		p.key[i] = 0
	}
	p.key = nil
}

var _ KeyProvider = (*Manager)(nil)
