// Package gitstore provides a Git plumbing-based implementation of domain.KVStore.
package gitstore

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/crypto"
)

// Store implements domain.KVStore using Git refs and blobs.
//
// Data structure:
//
//	refs/<namespace>/
//	  kv/
//	    <key>  → blob (value, optionally encrypted)
//
// Every Set writes a new blob and moves the key's ref, so older values stay in the
// object database until the repository is garbage collected.
type Store struct {
	repo      *git.Repository
	encryptor *crypto.Encryptor
	namespace string
	mu        sync.RWMutex
}

// Ensure Store implements domain.KVStore interface.
var _ domain.KVStore = (*Store)(nil)

// Ensure Store implements domain.StoreInitializer interface.
var _ domain.StoreInitializer = (*Store)(nil)

// Open opens the repository at path, creating a bare one if none exists.
// If encryptionKey is empty, values are stored in plain text.
func Open(path, namespace, encryptionKey string) (*Store, error) {
	repo, err := git.PlainOpen(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(path, true)
	}
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}

	var encryptor *crypto.Encryptor
	if encryptionKey != "" {
		encryptor, err = crypto.NewEncryptor(encryptionKey)
		if err != nil {
			return nil, fmt.Errorf("create encryptor: %w", err)
		}
	}
	return NewWithRepo(repo, namespace, encryptor), nil
}

// NewWithRepo creates a Store over an existing repository. encryptor may be nil.
func NewWithRepo(repo *git.Repository, namespace string, encryptor *crypto.Encryptor) *Store {
	if namespace == "" {
		namespace = domain.DefaultGitNamespace
	}
	return &Store{
		repo:      repo,
		namespace: namespace,
		encryptor: encryptor,
	}
}

// keyRef returns the ref name for a key.
func (s *Store) keyRef(key string) plumbing.ReferenceName {
	return plumbing.ReferenceName("refs/" + s.namespace + "/kv/" + key)
}

// Get returns the value stored under key, or nil if the key was never set.
func (s *Store) Get(key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, err := s.repo.Reference(s.keyRef(key), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ref: %w", err)
	}
	return s.readBlob(ref.Hash())
}

// Set stores value under key. The ref moves only after the blob is written,
// so a failed Set leaves the previous value in place.
func (s *Store) Set(key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := s.writeBlob(value)
	if err != nil {
		return err
	}
	ref := plumbing.NewHashReference(s.keyRef(key), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set ref: %w", err)
	}
	return nil
}

// Initialize is a no-op: the repository is created by Open and keys appear on first Set.
func (s *Store) Initialize() error {
	return nil
}

// writeBlob writes data to a blob and returns the hash.
// If encryption is enabled, the data is encrypted before writing.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	blobData := data
	if s.encryptor != nil {
		encrypted, err := s.encryptor.Encrypt(data)
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("encrypt data: %w", err)
		}
		blobData = encrypted
	}

	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(blobData)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}
	if _, writeErr := writer.Write(blobData); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	if err := writer.Close(); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("close blob writer: %w", err)
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}
	return hash, nil
}

// readBlob reads and optionally decrypts data from a blob.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}
	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}

	if s.encryptor != nil {
		decrypted, err := s.encryptor.Decrypt(data)
		if err != nil {
			return nil, fmt.Errorf("decrypt data: %w", err)
		}
		return decrypted, nil
	}
	return data, nil
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, " ~^:?*[\\") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
