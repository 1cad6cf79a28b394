package keywrap

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures log lines so tests can assert nothing secret leaks.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) add(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(msg, args...))
}

func (l *recordingLogger) Debugf(msg string, args ...any) { l.add("debug", msg, args...) }
func (l *recordingLogger) Infof(msg string, args ...any)  { l.add("info", msg, args...) }
func (l *recordingLogger) Warnf(msg string, args ...any)  { l.add("warn", msg, args...) }

func newTestManager(t testing.TB, opts ...Option) *Manager {
	t.Helper()
	m, err := NewManager(append([]Option{withKDFParams(fastKDF)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

var accountSalt = []byte("user@example.com-salt")

func TestNewManager_Defaults(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, defaultKDFParams, m.config.kdf)
	require.False(t, m.IsUnlocked())

	key, ok := m.CurrentRootKey()
	require.False(t, ok)
	require.Nil(t, key)
}

func TestNewManager_InvalidKDF(t *testing.T) {
	_, err := NewManager(withKDFParams(kdfParams{memory: 64, time: 0, threads: 1, keyLen: KeySize}))
	require.ErrorIs(t, err, ErrKDFConfig)
}

func TestManager_InitializeUnlock_RoundTrip(t *testing.T) {
	m := newTestManager(t)
	rootKey := testKey("root")

	env, err := m.Initialize([]byte("passphrase"), accountSalt, rootKey)
	require.NoError(t, err)
	require.True(t, m.IsUnlocked())

	got, ok := m.CurrentRootKey()
	require.True(t, ok)
	require.Equal(t, rootKey, got)

	m.Lock()
	require.False(t, m.IsUnlocked())

	ok, err = m.Unlock([]byte("passphrase"), accountSalt, env)
	require.NoError(t, err)
	require.True(t, ok)

	got, ok = m.CurrentRootKey()
	require.True(t, ok)
	require.Equal(t, rootKey, got)
}

func TestManager_Initialize_DoesNotAliasCallerKey(t *testing.T) {
	m := newTestManager(t)
	rootKey := testKey("root")

	_, err := m.Initialize([]byte("pw"), accountSalt, rootKey)
	require.NoError(t, err)
	require.Equal(t, testKey("root"), rootKey, "caller's slice must be left intact")

	rootKey[0] ^= 0xff
	got, _ := m.CurrentRootKey()
	require.Equal(t, testKey("root"), got)
}

func TestManager_Initialize_InvalidInputs(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Initialize([]byte("pw"), accountSalt, make([]byte, 31))
	require.ErrorIs(t, err, ErrInvalidKeySize)

	_, err = m.Initialize([]byte("pw"), []byte("short"), testKey("root"))
	require.ErrorIs(t, err, ErrInvalidSalt)

	require.False(t, m.IsUnlocked())
}

func TestManager_Initialize_OverwritesUnlockedKey(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Initialize([]byte("pw1"), accountSalt, testKey("first"))
	require.NoError(t, err)

	_, err = m.Initialize([]byte("pw2"), accountSalt, testKey("second"))
	require.NoError(t, err)

	got, ok := m.CurrentRootKey()
	require.True(t, ok)
	require.Equal(t, testKey("second"), got)
}

func TestManager_Unlock_WrongPassphrase(t *testing.T) {
	m := newTestManager(t)

	env, err := m.Initialize([]byte("p1"), accountSalt, testKey("root"))
	require.NoError(t, err)
	m.Lock()

	for _, wrong := range []string{"p2", "", "P1", "p1 ", "p"} {
		ok, err := m.Unlock([]byte(wrong), accountSalt, env)
		require.NoError(t, err)
		require.False(t, ok, "passphrase %q", wrong)
		require.False(t, m.IsUnlocked())
	}
}

func TestManager_Unlock_WrongSalt(t *testing.T) {
	m := newTestManager(t)

	env, err := m.Initialize([]byte("p1"), accountSalt, testKey("root"))
	require.NoError(t, err)
	m.Lock()

	ok, err := m.Unlock([]byte("p1"), []byte("another-account-salt"), env)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestManager_Unlock_FailureKeepsPriorState(t *testing.T) {
	m := newTestManager(t)

	env, err := m.Initialize([]byte("p1"), accountSalt, testKey("root"))
	require.NoError(t, err)

	ok, err := m.Unlock([]byte("p2"), accountSalt, env)
	require.NoError(t, err)
	require.False(t, ok)

	got, ok := m.CurrentRootKey()
	require.True(t, ok)
	require.Equal(t, testKey("root"), got)
}

func TestManager_Unlock_MalformedEnvelope(t *testing.T) {
	m := newTestManager(t)

	for _, env := range []Envelope{"", "abc", "a:b:c", ":", "0OIl:0OIl"} {
		require.NotPanics(t, func() {
			ok, err := m.Unlock([]byte("pw"), accountSalt, env)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
	require.False(t, m.IsUnlocked())
}

func TestManager_Unlock_ShortSecretIsNotRootKey(t *testing.T) {
	m := newTestManager(t)

	env, err := m.EncryptString([]byte("pw"), accountSalt, "hello")
	require.NoError(t, err)

	ok, err := m.Unlock([]byte("pw"), accountSalt, env)
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, m.IsUnlocked())
}

func TestManager_Unlock_InvalidSalt(t *testing.T) {
	m := newTestManager(t)

	ok, err := m.Unlock([]byte("pw"), nil, "a:b")
	require.ErrorIs(t, err, ErrInvalidSalt)
	require.False(t, ok)
}

func TestManager_UniqueEnvelopes(t *testing.T) {
	m := newTestManager(t)
	rootKey := testKey("root")
	passphrase := []byte("same passphrase")

	const n = 10000
	seenSalts := make(map[string]struct{}, n)
	seenCiphertexts := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		env, err := m.Initialize(passphrase, accountSalt, rootKey)
		require.NoError(t, err)

		salt, ciphertext, err := parseEnvelope(env)
		require.NoError(t, err)
		seenSalts[string(salt)] = struct{}{}
		seenCiphertexts[string(ciphertext)] = struct{}{}
	}

	require.Len(t, seenSalts, n)
	require.Len(t, seenCiphertexts, n)
}

func TestManager_DeterministicGivenSaltSource(t *testing.T) {
	// With the salt source pinned, the envelope is a pure function of its inputs.
	salt := testSalt(0x11)

	m1 := newTestManager(t, withRandom(bytes.NewReader(salt)))
	m2 := newTestManager(t, withRandom(bytes.NewReader(salt)))

	e1, err := m1.Initialize([]byte("pw"), accountSalt, testKey("root"))
	require.NoError(t, err)
	e2, err := m2.Initialize([]byte("pw"), accountSalt, testKey("root"))
	require.NoError(t, err)

	require.Equal(t, e1, e2)
}

func TestManager_EncryptDecryptSecret(t *testing.T) {
	m := newTestManager(t)

	env, err := m.EncryptSecret([]byte("pw"), accountSalt, []byte{0x00, 0xff, 0x10})
	require.NoError(t, err)
	require.False(t, m.IsUnlocked(), "secret operations do not touch the session")

	got, err := m.DecryptSecret([]byte("pw"), accountSalt, env)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0xff, 0x10}, got)

	_, err = m.DecryptSecret([]byte("wrong"), accountSalt, env)
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	_, err = m.DecryptSecret([]byte("pw"), accountSalt, "a:b:c")
	require.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestManager_SecretsIndependentOfSession(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Initialize([]byte("pw"), accountSalt, testKey("root"))
	require.NoError(t, err)

	env, err := m.EncryptString([]byte("other"), accountSalt, "token")
	require.NoError(t, err)

	got, ok := m.CurrentRootKey()
	require.True(t, ok)
	require.Equal(t, testKey("root"), got)

	s, err := m.DecryptString([]byte("other"), accountSalt, env)
	require.NoError(t, err)
	require.Equal(t, "token", s)
}

func TestManager_Closed(t *testing.T) {
	m := newTestManager(t)

	env, err := m.Initialize([]byte("pw"), accountSalt, testKey("root"))
	require.NoError(t, err)

	m.Close()
	require.False(t, m.IsUnlocked())

	_, err = m.Initialize([]byte("pw"), accountSalt, testKey("root"))
	require.ErrorIs(t, err, ErrManagerClosed)

	_, err = m.Unlock([]byte("pw"), accountSalt, env)
	require.ErrorIs(t, err, ErrManagerClosed)

	_, err = m.EncryptSecret([]byte("pw"), accountSalt, []byte("x"))
	require.ErrorIs(t, err, ErrManagerClosed)

	_, err = m.DecryptSecret([]byte("pw"), accountSalt, env)
	require.ErrorIs(t, err, ErrManagerClosed)

	_, err = m.CurrentRootKeyEncoded()
	require.ErrorIs(t, err, ErrManagerClosed)

	_, ok := m.CurrentRootKey()
	require.False(t, ok)
}

func TestManager_LoggerNeverSeesSecrets(t *testing.T) {
	log := &recordingLogger{}
	m := newTestManager(t, WithLogger(log))
	passphrase := "correct horse battery staple"
	rootKey := testKey("root")

	env, err := m.Initialize([]byte(passphrase), accountSalt, rootKey)
	require.NoError(t, err)
	_, err = m.Unlock([]byte("wrong"), accountSalt, env)
	require.NoError(t, err)
	_, err = m.Unlock([]byte(passphrase), accountSalt, env)
	require.NoError(t, err)
	m.Lock()

	require.NotEmpty(t, log.lines)
	encoded := EncodeKey(rootKey)
	for _, line := range log.lines {
		require.NotContains(t, line, passphrase)
		require.NotContains(t, line, "wrong")
		require.NotContains(t, line, encoded)
		require.NotContains(t, line, string(rootKey))
	}
	require.Contains(t, log.lines, "debug unlock rejected")
	require.NotContains(t, log.lines, "warn unlock rejected")
}

func TestWithLogger_Nil(t *testing.T) {
	m := newTestManager(t, WithLogger(nil))
	require.IsType(t, noopLogger{}, m.config.logger)
}

func TestManager_ConcurrentUnlockAndRead(t *testing.T) {
	m := newTestManager(t)
	rootKey := testKey("root")

	env, err := m.Initialize([]byte("pw"), accountSalt, rootKey)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			pass := "pw"
			if i%2 == 1 {
				pass = "nope"
			}
			ok, err := m.Unlock([]byte(pass), accountSalt, env)
			assert.NoError(t, err)
			assert.Equal(t, i%2 == 0, ok)
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got, ok := m.CurrentRootKey(); ok {
					assert.Equal(t, rootKey, got)
				}
			}
		}()
	}
	wg.Wait()

	got, ok := m.CurrentRootKey()
	require.True(t, ok)
	require.Equal(t, rootKey, got)
}
