package stash

import (
	"fmt"
	"os"
)

// DirectoryKind selects which OS-provided directory root a store persists
// under. The kind changes the durability and visibility class of the stored
// data (e.g., cache directories may be purged by the OS, config directories
// are preserved and often backed up).
type DirectoryKind int

const (
	// KindCache stores entries under the user cache directory
	// (os.UserCacheDir). Suitable for data the application can regenerate.
	KindCache DirectoryKind = iota

	// KindConfig stores entries under the user configuration directory
	// (os.UserConfigDir). Suitable for data that should survive cache purges.
	KindConfig

	// KindHome stores entries under the user home directory (os.UserHomeDir).
	KindHome

	// KindTemporary stores entries under the system temporary directory
	// (os.TempDir). Data may disappear between runs.
	KindTemporary
)

// String returns a string representation of the DirectoryKind.
func (k DirectoryKind) String() string {
	switch k {
	case KindCache:
		return "cache"
	case KindConfig:
		return "config"
	case KindHome:
		return "home"
	case KindTemporary:
		return "temporary"
	default:
		return "unknown"
	}
}

// resolveRoot returns the OS-provided root directory for the given kind.
// Resolution consults the ambient environment (HOME, XDG variables, etc.)
// and fails when the OS cannot provide a location for the kind.
func resolveRoot(kind DirectoryKind) (string, error) {
	switch kind {
	case KindCache:
		return os.UserCacheDir()
	case KindConfig:
		return os.UserConfigDir()
	case KindHome:
		return os.UserHomeDir()
	case KindTemporary:
		return os.TempDir(), nil
	default:
		return "", fmt.Errorf("unknown directory kind %d", int(kind))
	}
}
