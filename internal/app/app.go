// Package app is the boundary between the UI layer and keywrap.
//
// An App is the explicitly owned application state: it holds the Manager
// (and so the unlocked root key) and is passed to every boundary call.
// Each passphrase operation runs on its own goroutine because Argon2id takes
// hundreds of milliseconds; callers either receive the result on a channel
// (Go) or block on a boundary method. A boundary method checks its context
// only before starting: once an operation has begun it always runs to
// completion and its outcome is what the caller gets.
package app

import (
	"context"
	"strings"

	"github.com/ai8future/keywrap"
	"github.com/awnumar/memguard"
	"github.com/google/uuid"
)

// Logger is the logging surface App needs. logger.Logger satisfies it.
type Logger interface {
	Debugf(msg string, args ...any)
	Infof(msg string, args ...any)
	Warnf(msg string, args ...any)
	Errorf(msg string, args ...any)
}

// CredentialFlag is the storage process flag that carries the root key.
const CredentialFlag = "--key"

// App exposes the passphrase operations to the UI layer.
type App struct {
	manager *keywrap.Manager
	keys    keywrap.KeyProvider
	log     Logger
}

// New creates an App around m. The App does not take ownership of m's lifetime;
// call Close to lock and close it.
func New(m *keywrap.Manager, log Logger) *App {
	return &App{manager: m, keys: m, log: log}
}

// Result carries the outcome of an operation started with Go.
type Result[T any] struct {
	Value T
	Err   error
}

// Go runs fn on a new goroutine and delivers its result on the returned channel.
// The channel is buffered, so the goroutine never blocks if nobody reads it.
func Go[T any](fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		v, err := fn()
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}

// run executes fn off the caller's goroutine and waits for it.
// ctx is checked once before fn starts; fn may commit session state, so a
// started operation is never abandoned.
func run[T any](ctx context.Context, a *App, op string, fn func() (T, error)) (T, error) {
	id := uuid.NewString()
	if err := ctx.Err(); err != nil {
		a.log.Debugf("%s [%s] not started: %v", op, id, err)
		var zero T
		return zero, err
	}
	a.log.Debugf("%s [%s] started", op, id)

	r := <-Go(fn)
	if r.Err != nil {
		a.log.Debugf("%s [%s] failed: %v", op, id, r.Err)
	} else {
		a.log.Debugf("%s [%s] done", op, id)
	}
	return r.Value, r.Err
}

// SetNewSecret wraps the base58 root key under passphrase and salt, unlocks
// the session with it, and returns the envelope text to persist.
func (a *App) SetNewSecret(ctx context.Context, passphrase, salt, rootKeyEncoded string) (string, error) {
	return run(ctx, a, "set_new_secret", func() (string, error) {
		rootKey, err := keywrap.DecodeKey(strings.TrimSpace(rootKeyEncoded))
		if err != nil {
			return "", err
		}
		defer memguard.WipeBytes(rootKey)

		env, err := a.manager.Initialize([]byte(passphrase), []byte(salt), rootKey)
		if err != nil {
			return "", err
		}
		return env.String(), nil
	})
}

// CheckSetSecret tries to unlock the session with passphrase, salt and the
// stored envelope. False means the passphrase is incorrect or the envelope
// is unusable; the two are not distinguished.
func (a *App) CheckSetSecret(ctx context.Context, passphrase, salt, envelope string) (bool, error) {
	return run(ctx, a, "check_set_secret", func() (bool, error) {
		return a.manager.Unlock([]byte(passphrase), []byte(salt), keywrap.Envelope(strings.TrimSpace(envelope)))
	})
}

// ChangeSecret re-wraps the root key in envelope under a new passphrase and
// salt and returns the new envelope text.
func (a *App) ChangeSecret(ctx context.Context, oldPassphrase, oldSalt, envelope, newPassphrase, newSalt string) (string, error) {
	return run(ctx, a, "change_secret", func() (string, error) {
		env, err := a.manager.ChangePassphrase(
			[]byte(oldPassphrase), []byte(oldSalt), keywrap.Envelope(strings.TrimSpace(envelope)),
			[]byte(newPassphrase), []byte(newSalt),
		)
		if err != nil {
			return "", err
		}
		return env.String(), nil
	})
}

// EncryptBySecret encrypts a short text secret under passphrase and salt.
func (a *App) EncryptBySecret(ctx context.Context, passphrase, salt, plaintext string) (string, error) {
	return run(ctx, a, "encrypt_by_secret", func() (string, error) {
		env, err := a.manager.EncryptString([]byte(passphrase), []byte(salt), plaintext)
		if err != nil {
			return "", err
		}
		return env.String(), nil
	})
}

// DecryptBySecret decrypts a text secret produced by EncryptBySecret.
func (a *App) DecryptBySecret(ctx context.Context, passphrase, salt, envelope string) (string, error) {
	return run(ctx, a, "decrypt_by_secret", func() (string, error) {
		return a.manager.DecryptString([]byte(passphrase), []byte(salt), keywrap.Envelope(strings.TrimSpace(envelope)))
	})
}

// EncryptRepoKey wraps a base58 repository key under the unlocked root key
// and returns the envelope text. Returns keywrap.ErrLocked when locked.
func (a *App) EncryptRepoKey(ctx context.Context, repoKeyEncoded string) (string, error) {
	return run(ctx, a, "encrypt_repo_key", func() (string, error) {
		repoKey, err := keywrap.DecodeKey(strings.TrimSpace(repoKeyEncoded))
		if err != nil {
			return "", err
		}
		defer memguard.WipeBytes(repoKey)

		env, err := a.manager.EncryptRepoKey(repoKey)
		if err != nil {
			return "", err
		}
		return env.String(), nil
	})
}

// DecryptRepoKey opens a repository key envelope with the unlocked root key
// and returns the key as base58 text.
func (a *App) DecryptRepoKey(ctx context.Context, envelope string) (string, error) {
	return run(ctx, a, "decrypt_repo_key", func() (string, error) {
		repoKey, err := a.manager.DecryptRepoKey(keywrap.Envelope(strings.TrimSpace(envelope)))
		if err != nil {
			return "", err
		}
		defer memguard.WipeBytes(repoKey)
		return keywrap.EncodeKey(repoKey), nil
	})
}

// CurrentRootKeyEncoded returns the unlocked root key as base58 text.
func (a *App) CurrentRootKeyEncoded() (string, error) {
	key, ok := a.keys.CurrentRootKey()
	if !ok {
		return "", keywrap.ErrLocked
	}
	defer memguard.WipeBytes(key)
	return keywrap.EncodeKey(key), nil
}

// CredentialArgs prepends the root key credential to args for the storage
// process command line. Returns keywrap.ErrLocked when locked.
func (a *App) CredentialArgs(args ...string) ([]string, error) {
	encoded, err := a.CurrentRootKeyEncoded()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(args)+2)
	out = append(out, CredentialFlag, encoded)
	return append(out, args...), nil
}

// Unlocked reports whether the session holds a root key.
func (a *App) Unlocked() bool {
	return a.manager.IsUnlocked()
}

// Lock discards the unlocked root key.
func (a *App) Lock() {
	a.manager.Lock()
}

// Close locks and closes the underlying Manager.
func (a *App) Close() {
	a.manager.Close()
}
