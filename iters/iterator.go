// Package iters provides combinators over keyed iterators that follow the
// badger iteration protocol of Rewind, Valid and Next.
package iters

// Iterator iterates over key-value pairs.
type Iterator[K, V any] interface {
	Close()
	Next()
	Rewind()
	Valid() bool
	Key() K
	Value() (value V, err error)
}
