// Package treeflat flattens nested key-value documents into single-level
// maps keyed by dot-joined paths.
//
// The heavy lifting lives in the tree and flatten packages; this package
// glues decoding and flattening together for the common cases.
package treeflat

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ehsanranjbar/treeflat/flatten"
	"github.com/ehsanranjbar/treeflat/tree"
)

// Format is the encoding of a document.
type Format uint8

const (
	// YAML documents. JSON is accepted too as it is a subset of YAML.
	YAML Format = iota
	// JSON documents.
	JSON
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// FormatOf guesses the format of a file from its extension, defaulting to YAML.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return JSON
	default:
		return YAML
	}
}

type options struct {
	convert []tree.ConvertOption
	flatten []flatten.Option
}

// Option configures decoding and flattening.
type Option func(*options)

// WithConvertOptions sets the options used to turn decoded values into a tree.
func WithConvertOptions(opts ...tree.ConvertOption) Option {
	return func(o *options) {
		o.convert = append(o.convert, opts...)
	}
}

// WithFlattenOptions sets the options of the flattener.
func WithFlattenOptions(opts ...flatten.Option) Option {
	return func(o *options) {
		o.flatten = append(o.flatten, opts...)
	}
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Flatten flattens root.
func Flatten(root *tree.Container, opts ...Option) (flatten.Output, error) {
	o := collect(opts)
	return flatten.New(o.flatten...).Flatten(root)
}

// FlattenAny converts v, typically the result of json.Unmarshal, and flattens it.
func FlattenAny(v any, opts ...Option) (flatten.Output, error) {
	o := collect(opts)
	root, err := tree.ContainerFromAny(v, o.convert...)
	if err != nil {
		return nil, err
	}
	return flatten.New(o.flatten...).Flatten(root)
}

// FlattenJSON decodes a JSON object and flattens it.
func FlattenJSON(data []byte, opts ...Option) (flatten.Output, error) {
	return Decode(data, JSON, opts...)
}

// FlattenYAML decodes a YAML mapping and flattens it.
func FlattenYAML(data []byte, opts ...Option) (flatten.Output, error) {
	return Decode(data, YAML, opts...)
}

// Decode decodes a document of the given format and flattens it.
func Decode(data []byte, format Format, opts ...Option) (flatten.Output, error) {
	o := collect(opts)

	var (
		root *tree.Container
		err  error
	)
	switch format {
	case JSON:
		root, err = tree.DecodeJSON(data, o.convert...)
	case YAML:
		root, err = tree.DecodeYAML(data, o.convert...)
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, err
	}

	return flatten.New(o.flatten...).Flatten(root)
}
