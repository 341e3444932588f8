package stash

import (
	"github.com/fxamacker/cbor/v2"
)

// CBORCodec serializes values as CBOR documents. It produces a compact
// binary format while keeping the same root and strictness contract as
// JSONCodec: container-only document roots and decode failures on unknown
// fields or mismatched shapes.
type CBORCodec struct {
	dec cbor.DecMode
}

// NewCBORCodec creates a CBOR codec with strict decoding enabled.
func NewCBORCodec() *CBORCodec {
	// ExtraDecErrorUnknownField is a statically valid option set; DecMode
	// cannot fail for it.
	dec, err := cbor.DecOptions{
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return &CBORCodec{dec: dec}
}

// Marshal encodes v as a CBOR document.
func (c *CBORCodec) Marshal(v any) ([]byte, error) {
	if ok, kind := containerRoot(v); !ok {
		return nil, &errNonContainerRoot{kind: kind}
	}
	return cbor.Marshal(v)
}

// Unmarshal decodes a CBOR document into v. Unknown struct fields and
// trailing data are errors.
func (c *CBORCodec) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}
