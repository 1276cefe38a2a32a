package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// ErrInvalidJSON is returned by DecodeJSON for malformed input.
var ErrInvalidJSON = errors.New("invalid JSON document")

// DecodeYAML decodes a YAML document whose root is a mapping into a Container.
// Mapping order of the document is preserved. An empty document yields an empty Container.
func DecodeYAML(data []byte, opts ...ConvertOption) (*Container, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewContainer(), nil
	}

	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	return ContainerFromAny(v, opts...)
}

// DecodeJSON decodes a JSON object into a Container, keeping the key order of the document.
func DecodeJSON(data []byte, opts ...ConvertOption) (*Container, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}

	// JSON is YAML flow syntax, which lets the ordered YAML decoder keep key order.
	return DecodeYAML(data, opts...)
}
