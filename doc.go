// Package stash provides a hybrid memory+disk key-value store for
// application-local persistent caching.
//
// Values are kept in an in-process memory cache and written through to flat
// files on disk, one file per key. Reads consult the memory cache first and
// fall back to disk, repopulating the cache on the way out. Key features:
//   - Write-through saves and read-through loads with a single coherence rule
//   - Pluggable serialization codecs (JSON by default, CBOR and YAML included)
//   - Transparent envelope fallback for scalar values the codec cannot
//     serialize at the document root
//   - Image storage through a pluggable image codec (PNG by default)
//   - Filesystem abstraction for testing and custom storage
//
// Basic usage:
//
//	store, err := stash.New("com.example.myapp")
//	if err != nil {
//	    return err
//	}
//
//	// Save any serializable value
//	err = stash.Save(store, "profile", profile)
//
//	// Load it back, from cache if warm, from disk otherwise
//	profile, err := stash.Load[Profile](store, "profile")
//
//	// Scalars round-trip too; the envelope fallback is invisible
//	err = stash.Save(store, "launch-count", 42)
//
//	// In-memory filesystem for tests
//	store, err := stash.New("com.example.myapp",
//	    stash.WithFilesystem(billy.NewMemory()),
//	    stash.WithBasePath("/cache"),
//	)
//
// A Store is bound to exactly one directory, resolved once at construction
// from an OS-provided root, the application identifier, and a folder name.
// Stores with different folder names are isolated from each other.
package stash
