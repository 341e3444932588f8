package stash

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLCodec serializes values as YAML documents, useful when entries should
// stay human-readable and editable on disk. It keeps the same root and
// strictness contract as JSONCodec: container-only document roots, and decode
// failures on unknown fields or mismatched shapes.
type YAMLCodec struct{}

// Marshal encodes v as a YAML document.
func (YAMLCodec) Marshal(v any) ([]byte, error) {
	if ok, kind := containerRoot(v); !ok {
		return nil, &errNonContainerRoot{kind: kind}
	}
	return yaml.Marshal(v)
}

// Unmarshal decodes a YAML document into v, rejecting unknown fields and
// additional documents in the same stream.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return err
	}
	// A valid entry holds exactly one document.
	var extra yaml.Node
	if err := dec.Decode(&extra); err != io.EOF {
		return fmt.Errorf("trailing document after YAML document")
	}
	return nil
}
