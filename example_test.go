package keywrap_test

import (
	"fmt"

	"github.com/ai8future/keywrap"
)

func Example() {
	mgr, err := keywrap.NewManager()
	if err != nil {
		panic(err)
	}
	defer mgr.Close()

	passphrase := []byte("correct horse battery staple")
	salt := []byte("alice@example.com") // stored with the account
	rootKey := make([]byte, 32)          // in production, generated elsewhere

	// Wrap the root key; the caller persists env.
	env, err := mgr.Initialize(passphrase, salt, rootKey)
	if err != nil {
		panic(err)
	}
	mgr.Lock()

	ok, _ := mgr.Unlock([]byte("wrong"), salt, env)
	fmt.Println("wrong passphrase:", ok)

	ok, _ = mgr.Unlock(passphrase, salt, env)
	fmt.Println("right passphrase:", ok)

	encoded, _ := mgr.CurrentRootKeyEncoded()
	fmt.Println(encoded)

	// Output:
	// wrong passphrase: false
	// right passphrase: true
	// 11111111111111111111111111111111
}

func ExampleManager_EncryptString() {
	mgr, _ := keywrap.NewManager()
	defer mgr.Close()

	salt := []byte("alice@example.com")

	env, _ := mgr.EncryptString([]byte("pw"), salt, "hello")
	s, _ := mgr.DecryptString([]byte("pw"), salt, env)
	fmt.Println(s)

	// Output: hello
}

func ExampleWrap() {
	kek := []byte("01234567890123456789012345678901")

	env, _ := keywrap.Wrap([]byte("repository key"), kek)

	plaintext, _ := keywrap.Unwrap(env, kek)
	fmt.Println(string(plaintext))

	_, err := keywrap.Unwrap(env, []byte("10987654321098765432109876543210"))
	fmt.Println(err)

	// Output:
	// repository key
	// keywrap: authentication failed
}
