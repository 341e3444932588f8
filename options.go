// Package stash provides hybrid memory+disk key-value storage.
// This file contains functional options for store configuration.
package stash

import (
	"io/fs"

	"github.com/jmgilman/go/fs/core"
)

// Options contains configuration options for a Store.
// Options are fixed at construction time; a Store never observes later
// mutations of the Options value it was created from.
type Options struct {
	// Kind selects the OS-provided directory root to persist under.
	// Ignored when BasePath is set. Defaults to KindCache.
	Kind DirectoryKind

	// BasePath overrides OS root resolution with an explicit directory.
	// Primarily useful for tests and for callers that manage their own
	// directory layout.
	BasePath string

	// Folder is the namespace subdirectory under the application identifier.
	// Stores with different folder names are isolated from each other.
	// Defaults to "stash".
	Folder string

	// Codec serializes and deserializes values. Defaults to JSONCodec.
	Codec Codec

	// ImageCodec encodes and decodes images. Defaults to PNGCodec.
	ImageCodec ImageCodec

	// FS provides filesystem operations for all entry I/O.
	// If nil, a default OS-backed filesystem will be used.
	FS core.FS

	// FileMode is the permission mode for entry files. Defaults to 0o600.
	FileMode fs.FileMode

	// DirMode is the permission mode for the store folder. When the
	// filesystem supports metadata operations, the mode is applied to the
	// folder at construction time as a protection attribute.
	// Defaults to 0o700.
	DirMode fs.FileMode
}

// Option is a functional option for configuring a Store.
type Option func(*Options)

// WithDirectoryKind selects which OS-provided directory root to use.
//
// Example:
//
//	store, err := stash.New("com.example.myapp",
//	    stash.WithDirectoryKind(stash.KindConfig))
func WithDirectoryKind(kind DirectoryKind) Option {
	return func(opts *Options) {
		opts.Kind = kind
	}
}

// WithBasePath sets an explicit root directory, bypassing OS resolution.
// The store folder becomes <path>/<appID>/<folder>.
//
// Example:
//
//	store, err := stash.New("com.example.myapp",
//	    stash.WithBasePath("/var/cache"))
func WithBasePath(path string) Option {
	return func(opts *Options) {
		opts.BasePath = path
	}
}

// WithFolder sets the namespace subdirectory for this store.
// Stores created with different folder names never see each other's entries.
//
// Example:
//
//	thumbnails, err := stash.New("com.example.myapp",
//	    stash.WithFolder("thumbnails"))
func WithFolder(name string) Option {
	return func(opts *Options) {
		opts.Folder = name
	}
}

// WithCodec sets the serialization codec controlling the on-disk byte format.
//
// Example:
//
//	store, err := stash.New("com.example.myapp",
//	    stash.WithCodec(stash.NewCBORCodec()))
func WithCodec(codec Codec) Option {
	return func(opts *Options) {
		opts.Codec = codec
	}
}

// WithImageCodec sets the codec used by SaveImage and LoadImage.
func WithImageCodec(codec ImageCodec) Option {
	return func(opts *Options) {
		opts.ImageCodec = codec
	}
}

// WithFilesystem sets the filesystem to use for all store operations.
// If not provided, the store uses the local OS filesystem.
//
// This option is primarily useful for testing, allowing use of in-memory
// or other virtual filesystems.
//
// Example:
//
//	store, err := stash.New("com.example.myapp",
//	    stash.WithFilesystem(billy.NewMemory()),
//	    stash.WithBasePath("/cache"))
func WithFilesystem(fs core.FS) Option {
	return func(opts *Options) {
		opts.FS = fs
	}
}

// WithFileMode sets the permission mode for entry files.
func WithFileMode(mode fs.FileMode) Option {
	return func(opts *Options) {
		opts.FileMode = mode
	}
}

// WithDirMode sets the permission mode applied to the store folder.
func WithDirMode(mode fs.FileMode) Option {
	return func(opts *Options) {
		opts.DirMode = mode
	}
}
