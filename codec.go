package stash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
)

// Codec serializes values to bytes and back. Implementations control the
// on-disk byte format of a store.
//
// Required property: Unmarshal MUST fail cleanly when the byte stream does
// not match the shape of the target value; it must never silently produce
// wrong data. The store distinguishes a directly encoded value from an
// enveloped one purely by which decode attempt succeeds, so a codec whose
// decode tolerates mismatched shapes (e.g., by ignoring unknown fields) is
// unsafe to use here. All codecs shipped with this package satisfy the
// property.
//
// Codecs are also allowed to reject values they cannot represent at the
// document root (e.g., bare scalars in formats whose top level must be an
// object or array). The store absorbs such rejections transparently by
// wrapping the value in a single-field envelope and retrying.
type Codec interface {
	// Marshal encodes a value to bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes bytes into the value pointed to by v.
	Unmarshal(data []byte, v any) error
}

// envelope wraps a single value so that codecs which only accept container
// types at the document root can serialize scalars. It exists only during
// encode and decode; callers always get back the unwrapped value.
type envelope[T any] struct {
	Value T `json:"value" yaml:"value" cbor:"value"`
}

// errNonContainerRoot is returned by the shipped codecs when asked to encode
// a value whose root is not a container type. The store reacts by retrying
// with an envelope; callers never observe this error directly unless the
// enveloped encode also fails.
type errNonContainerRoot struct {
	kind reflect.Kind
}

func (e *errNonContainerRoot) Error() string {
	return fmt.Sprintf("%s is not supported at the document root", e.kind)
}

// containerRoot reports whether v is a container type (struct, map, slice,
// or array) after unwrapping pointers and interfaces. Nil values are not
// containers.
func containerRoot(v any) (bool, reflect.Kind) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false, rv.Kind()
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return true, rv.Kind()
	default:
		return false, rv.Kind()
	}
}

// JSONCodec serializes values as JSON documents. It is the default codec.
//
// The document root must be a container type (struct, map, slice, or array);
// scalar roots are rejected so that the store's envelope fallback handles
// them. Decoding is strict: unknown object fields and trailing data are
// errors. Strict decoding is what makes the direct-then-enveloped decode
// protocol unambiguous.
type JSONCodec struct{}

// Marshal encodes v as a JSON document.
func (JSONCodec) Marshal(v any) ([]byte, error) {
	if ok, kind := containerRoot(v); !ok {
		return nil, &errNonContainerRoot{kind: kind}
	}
	return json.Marshal(v)
}

// Unmarshal decodes a JSON document into v, rejecting unknown fields and
// trailing data.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	// A valid entry holds exactly one document.
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return fmt.Errorf("trailing data after JSON document")
	}
	return nil
}
