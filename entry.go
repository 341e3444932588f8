package stash

import (
	"bytes"
	"fmt"
	"os"
)

// Save persists value under key in both tiers of the store.
//
// The value is inserted into the memory cache first, unconditionally and
// before any disk I/O: even if the disk write subsequently fails, in-process
// readers see the fresh value for the remainder of the session. The value is
// then encoded and written to <folder>/<key>, overwriting any existing file.
//
// If the codec cannot represent the value at the document root (bare scalars,
// typically), Save transparently retries with a single-field envelope around
// it. Callers never need to know whether their type required wrapping; Load
// undoes it symmetrically. Save fails with ErrEncodeData when both encode
// attempts fail and ErrCreateFile when the filesystem rejects the write.
func Save[T any](s *Store, key string, value T) error {
	if err := validateKey(key); err != nil {
		return newStorageError("save", key, err)
	}

	s.cache.put(key, value)

	data, err := s.codec.Marshal(value)
	if err != nil {
		data, err = s.codec.Marshal(envelope[T]{Value: value})
		if err != nil {
			return newStorageError("save", key, fmt.Errorf("%w: %w", ErrEncodeData, err))
		}
	}
	if err := s.fs.WriteFile(s.entryPath(key), data, s.fileMode); err != nil {
		return newStorageError("save", key, fmt.Errorf("%w: %w", ErrCreateFile, err))
	}
	return nil
}

// Load retrieves the value for key as type T.
//
// A cache entry with the requested dynamic type is returned immediately with
// no disk I/O. A cache entry of a different type is treated as a miss, not a
// hard error, and the disk copy is consulted instead. On a miss the entry
// file is read and decoded, first directly as T and then as an envelope
// around T; the decoded value is inserted into the memory cache before it is
// returned, so subsequent loads are served from memory.
//
// Load fails with ErrNotFound when no entry file exists and ErrDecodeData
// when the bytes parse as neither shape.
func Load[T any](s *Store, key string) (T, error) {
	var zero T
	if err := validateKey(key); err != nil {
		return zero, newStorageError("load", key, err)
	}

	if raw, ok := s.cache.get(key); ok {
		if v, ok := raw.(T); ok {
			return v, nil
		}
		// Cached under a different type; fall through to disk.
	}

	data, err := s.fs.ReadFile(s.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return zero, newStorageError("load", key, ErrNotFound)
		}
		return zero, newStorageError("load", key, err)
	}

	var value T
	if derr := s.codec.Unmarshal(data, &value); derr != nil {
		var env envelope[T]
		if eerr := s.codec.Unmarshal(data, &env); eerr != nil {
			return zero, newStorageError("load", key, fmt.Errorf("%w: %w", ErrDecodeData, derr))
		}
		value = env.Value
	}

	s.cache.put(key, value)
	return value, nil
}

// SaveBytes persists raw bytes under key, bypassing the codec. The file
// contains the bytes verbatim, which keeps entries readable by other tools.
// The cache-then-disk ordering matches Save. The stored slice is copied, so
// later mutation of data does not affect the cached entry.
func (s *Store) SaveBytes(key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return newStorageError("save", key, err)
	}

	s.cache.put(key, bytes.Clone(data))

	if err := s.fs.WriteFile(s.entryPath(key), data, s.fileMode); err != nil {
		return newStorageError("save", key, fmt.Errorf("%w: %w", ErrCreateFile, err))
	}
	return nil
}

// LoadBytes retrieves the raw bytes for key, from the memory cache when warm
// and from disk otherwise. There is no decode step, so the only failure modes
// are ErrNotFound and filesystem read errors. The returned slice is shared
// with the cache and must be treated as read-only.
func (s *Store) LoadBytes(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, newStorageError("load", key, err)
	}

	if raw, ok := s.cache.get(key); ok {
		if b, ok := raw.([]byte); ok {
			return b, nil
		}
	}

	data, err := s.fs.ReadFile(s.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newStorageError("load", key, ErrNotFound)
		}
		return nil, newStorageError("load", key, err)
	}

	s.cache.put(key, data)
	return data, nil
}
