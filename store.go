package stash

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	fsbilly "github.com/jmgilman/go/fs/billy"
	"github.com/jmgilman/go/fs/core"
)

// Store is a hybrid memory+disk key-value store bound to a single directory.
//
// Every entry lives as one flat file under the store folder and, once saved
// or loaded, as a live value in the in-process memory cache. Saves write
// through to both tiers; loads read the cache first and fall back to disk.
//
// A Store is constructed once and lives for the process or scope that holds
// it; there is no explicit teardown. Individual cache and filesystem
// operations are safe for concurrent use, but a save's cache write and disk
// write (or a load's cache check and disk read) are not atomic with each
// other. Two concurrent saves of the same key may leave cache and disk
// reflecting different writers.
type Store struct {
	fs     core.FS
	codec  Codec
	images ImageCodec
	cache  *memoryCache

	dir      string // Resolved engine folder; all entries live directly under it
	fileMode fs.FileMode
	dirMode  fs.FileMode

	opts Options
}

// Stats provides statistics about the on-disk contents of a store.
type Stats struct {
	// Entries is the number of entry files in the store folder.
	Entries int

	// TotalSize is the combined size of all entry files in bytes.
	TotalSize int64
}

// New creates a Store for the given application identifier.
//
// The identifier namespaces this application's entries under the OS-provided
// root; it is required and must be passed explicitly rather than derived from
// ambient process identity. The store folder is
// <root>/<appID>/<folder>, resolved once here. Construction is idempotent:
// creating a second store with the same options binds to the same folder
// without disturbing existing entries.
//
// Construction fails with ErrDirectoryResolution if the OS root cannot be
// resolved or created, ErrCreateDirectory if the store folder cannot be
// created, and ErrAttribute if the folder's protection attributes cannot be
// applied on a filesystem that supports them.
//
// Example:
//
//	store, err := stash.New("com.example.myapp",
//	    stash.WithDirectoryKind(stash.KindConfig),
//	    stash.WithFolder("sessions"))
func New(appID string, opts ...Option) (*Store, error) {
	if appID == "" {
		return nil, newStorageError("new", "", fmt.Errorf("application identifier is required"))
	}

	// Apply options with defaults
	options := Options{
		Kind:       KindCache,
		Folder:     "stash",
		Codec:      JSONCodec{},
		ImageCodec: PNGCodec{},
		FileMode:   0o600,
		DirMode:    0o700,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.FS == nil {
		options.FS = fsbilly.NewLocal() // Default to the local filesystem
	}
	if options.Folder == "" {
		return nil, newStorageError("new", "", fmt.Errorf("folder name is required"))
	}

	// Resolve the root directory, creating it if absent.
	root := options.BasePath
	if root == "" {
		resolved, err := resolveRoot(options.Kind)
		if err != nil {
			return nil, newStorageError("new", "", fmt.Errorf("%w: %w", ErrDirectoryResolution, err))
		}
		root = resolved
	}
	exists, err := options.FS.Exists(root)
	if err != nil {
		return nil, newStorageError("new", "", fmt.Errorf("%w: %w", ErrDirectoryResolution, err))
	}
	if !exists {
		if err := options.FS.MkdirAll(root, 0o755); err != nil {
			return nil, newStorageError("new", "", fmt.Errorf("%w: %w", ErrDirectoryResolution, err))
		}
	}

	// Create the store folder, including intermediate directories. The
	// existence check short-circuits recreation on repeated construction.
	dir := filepath.Join(root, appID, options.Folder)
	exists, err = options.FS.Exists(dir)
	if err != nil {
		return nil, newStorageError("new", "", fmt.Errorf("%w: %w", ErrCreateDirectory, err))
	}
	if !exists {
		if err := options.FS.MkdirAll(dir, options.DirMode); err != nil {
			return nil, newStorageError("new", "", fmt.Errorf("%w: %w", ErrCreateDirectory, err))
		}
	}

	s := &Store{
		fs:       options.FS,
		codec:    options.Codec,
		images:   options.ImageCodec,
		cache:    newMemoryCache(),
		dir:      dir,
		fileMode: options.FileMode,
		dirMode:  options.DirMode,
		opts:     options,
	}

	if err := s.applyAttributes(); err != nil {
		return nil, newStorageError("new", "", err)
	}

	return s, nil
}

// applyAttributes applies the folder protection mode on filesystems that
// support metadata operations. Filesystems without the concept are a no-op.
// A rejected attribute set is a hard failure, never swallowed.
func (s *Store) applyAttributes() error {
	mfs, ok := s.fs.(core.MetadataFS)
	if !ok {
		return nil
	}
	if err := mfs.Chmod(s.dir, s.dirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrAttribute, err)
	}
	return nil
}

// Dir returns the resolved folder this store persists entries under.
func (s *Store) Dir() string {
	return s.dir
}

// Exists reports whether an entry file for key exists on disk. The memory
// cache is not consulted: any cached entry has also been written to disk by
// the time its save completed, so disk presence is authoritative. Exists has
// no side effects.
func (s *Store) Exists(key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, newStorageError("exists", key, err)
	}
	exists, err := s.fs.Exists(s.entryPath(key))
	if err != nil {
		return false, newStorageError("exists", key, err)
	}
	return exists, nil
}

// Remove deletes the entry file for key and evicts the key from the memory
// cache. A filesystem failure, including removal of a key that does not
// exist on disk, propagates to the caller.
func (s *Store) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return newStorageError("remove", key, err)
	}
	s.cache.delete(key)
	if err := s.fs.Remove(s.entryPath(key)); err != nil {
		return newStorageError("remove", key, err)
	}
	return nil
}

// RemoveAll clears the memory cache, deletes the entire store folder, and
// recreates an empty folder at the same path, restoring the invariant that
// the folder exists while the store does.
//
// If any step fails the error propagates and the store's state is
// indeterminate; callers should treat a failed RemoveAll as requiring store
// reconstruction.
func (s *Store) RemoveAll() error {
	s.cache.clear()
	if err := s.fs.RemoveAll(s.dir); err != nil {
		return newStorageError("removeAll", "", err)
	}
	if err := s.fs.MkdirAll(s.dir, s.dirMode); err != nil {
		return newStorageError("removeAll", "", fmt.Errorf("%w: %w", ErrCreateDirectory, err))
	}
	if err := s.applyAttributes(); err != nil {
		return newStorageError("removeAll", "", err)
	}
	return nil
}

// Keys returns the keys of all entries currently on disk, sorted. The memory
// cache is not consulted.
func (s *Store) Keys() ([]string, error) {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		return nil, newStorageError("keys", "", err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		keys = append(keys, entry.Name())
	}
	sort.Strings(keys)
	return keys, nil
}

// Stats reports the number of entries on disk and their combined size.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	err := s.fs.Walk(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		stats.Entries++
		stats.TotalSize += info.Size()
		return nil
	})
	if err != nil {
		return nil, newStorageError("stats", "", err)
	}
	return stats, nil
}

// entryPath returns the file path for key under the store folder.
func (s *Store) entryPath(key string) string {
	return filepath.Join(s.dir, key)
}

// validateKey rejects keys that are empty or would escape the store folder
// when used as a file name.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q is not a valid file name", ErrInvalidKey, key)
	}
	return nil
}
