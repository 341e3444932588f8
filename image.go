package stash

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
)

// ImageCodec encodes and decodes images for the media-specific save and load
// paths. Unlike Codec, an image codec is always a direct byte transform;
// there is no envelope fallback on this path.
type ImageCodec interface {
	// EncodeImage produces the on-disk bytes for an image.
	EncodeImage(img image.Image) ([]byte, error)

	// DecodeImage parses on-disk bytes back into an image.
	DecodeImage(data []byte) (image.Image, error)
}

// PNGCodec stores images as PNG. It is the default image codec: PNG is
// lossless, so a saved image decodes with identical dimensions and pixel
// data.
type PNGCodec struct{}

// EncodeImage encodes an image to PNG bytes.
func (PNGCodec) EncodeImage(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeImage decodes PNG bytes into an image.
func (PNGCodec) DecodeImage(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
}

// SaveImage persists an image under key using the store's image codec.
//
// The structure matches Save: the live image goes into the memory cache
// first, then the encoded bytes are written to disk. There is no envelope
// fallback on this path. SaveImage fails with ErrEncodeData when the image
// codec cannot produce bytes and ErrCreateFile when the write fails.
func (s *Store) SaveImage(key string, img image.Image) error {
	if err := validateKey(key); err != nil {
		return newStorageError("save", key, err)
	}

	s.cache.put(key, img)

	data, err := s.images.EncodeImage(img)
	if err != nil {
		return newStorageError("save", key, fmt.Errorf("%w: %w", ErrEncodeData, err))
	}
	if err := s.fs.WriteFile(s.entryPath(key), data, s.fileMode); err != nil {
		return newStorageError("save", key, fmt.Errorf("%w: %w", ErrCreateFile, err))
	}
	return nil
}

// LoadImage retrieves the image for key, from the memory cache when warm and
// decoded from disk otherwise. A cached entry of a non-image type is treated
// as a miss. LoadImage fails with ErrNotFound when no entry file exists and
// ErrDecodeData when the image codec cannot parse the bytes.
func (s *Store) LoadImage(key string) (image.Image, error) {
	if err := validateKey(key); err != nil {
		return nil, newStorageError("load", key, err)
	}

	if raw, ok := s.cache.get(key); ok {
		if img, ok := raw.(image.Image); ok {
			return img, nil
		}
	}

	data, err := s.fs.ReadFile(s.entryPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newStorageError("load", key, ErrNotFound)
		}
		return nil, newStorageError("load", key, err)
	}

	img, err := s.images.DecodeImage(data)
	if err != nil {
		return nil, newStorageError("load", key, fmt.Errorf("%w: %w", ErrDecodeData, err))
	}

	s.cache.put(key, img)
	return img, nil
}
