// Package store is the CLI's on-disk key/value store for envelopes.
//
// The keywrap library never decides where envelopes live; this package is
// the caller-side persistence the CLI uses. Records are kept in a single TOML
// file with 0600 permissions. Only wrapped material is stored: the KEK salt
// and the envelope, never a passphrase or an unwrapped key.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrNotFound indicates no record exists under the requested name.
var ErrNotFound = errors.New("store: record not found")

// Record is one stored envelope together with the salt its KEK was derived from.
type Record struct {
	Salt      string    `toml:"salt"`
	Envelope  string    `toml:"envelope"`
	UpdatedAt time.Time `toml:"updated_at"`
}

type document struct {
	Records map[string]Record `toml:"records"`
}

// Store is a TOML-file-backed record store. It is safe for concurrent use
// within one process.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// Open returns a Store backed by path. The file is created on first Put.
func Open(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() (*document, error) {
	doc := &document{Records: make(map[string]Record)}
	if _, err := toml.DecodeFile(s.path, doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("failed to read store %s: %w", s.path, err)
	}
	if doc.Records == nil {
		doc.Records = make(map[string]Record)
	}
	return doc, nil
}

// save writes doc atomically via a temp file and rename.
func (s *Store) save(doc *document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".store-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := toml.NewEncoder(tmp).Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

// Get returns the record stored under name.
func (s *Store) Get(name string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return Record{}, err
	}
	rec, ok := doc.Records[name]
	if !ok {
		return Record{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return rec, nil
}

// Put stores rec under name, replacing any previous record.
func (s *Store) Put(name string, rec Record) error {
	if name == "" {
		return errors.New("store: record name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	rec.UpdatedAt = s.now().UTC().Truncate(time.Second)
	doc.Records[name] = rec
	return s.save(doc)
}

// Delete removes the record under name. Deleting a missing record is not an error.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Records[name]; !ok {
		return nil
	}
	delete(doc.Records, name)
	return s.save(doc)
}

// Names returns all record names, sorted alphabetically.
func (s *Store) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Records))
	for name := range doc.Records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
