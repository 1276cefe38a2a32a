package docstore

import (
	"bytes"
	"fmt"

	"github.com/ehsanranjbar/treeflat/tree"
	msgpack "github.com/vmihailenco/msgpack/v5"
)

// encodeLeaf encodes a leaf as a msgpack string or array.
func encodeLeaf(leaf tree.Leaf) ([]byte, error) {
	enc := msgpack.GetEncoder()
	var buf bytes.Buffer
	enc.Reset(&buf)
	defer msgpack.PutEncoder(enc)

	err := enc.Encode(tree.ToAny(leaf))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeLeaf is the inverse of encodeLeaf. A nil array decodes as an empty Array.
func decodeLeaf(bz []byte) (tree.Leaf, error) {
	dec := msgpack.GetDecoder()
	dec.Reset(bytes.NewReader(bz))
	dec.UseLooseInterfaceDecoding(true)
	defer msgpack.PutDecoder(dec)

	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case string:
		return tree.Scalar(v), nil
	case []any:
		return tree.Array(v), nil
	case nil:
		return tree.Array{}, nil
	default:
		return nil, fmt.Errorf("unexpected stored value of type %T", v)
	}
}
