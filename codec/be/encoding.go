// Package be encodes numbers big-endian so that their byte order matches their numeric order.
package be

import (
	"bytes"

	"golang.org/x/exp/constraints"
)

// EncodeUint encodes v in size bytes, dropping the high bytes that do not fit.
func EncodeUint[N constraints.Unsigned](v N, size int) []byte {
	b := make([]byte, size)
	for i := size - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// DecodeUint is the inverse of EncodeUint.
func DecodeUint[N constraints.Unsigned](b []byte) N {
	var v N
	for _, c := range b {
		v = v<<8 | N(c)
	}
	return v
}

// IncrementLex increments the given byte slice in place so that it would be the next in lexicographical order.
// On overflow a slice one byte longer than b is returned.
func IncrementLex(b []byte) []byte {
	for i := len(b) - 1; i >= 0; i-- {
		b[i]++
		if b[i] > 0x00 {
			return b
		}
	}
	return append(bytes.Repeat([]byte{0xff}, len(b)), 0x01)
}
