package internal

import (
	"iter"
)

// Concat2 chains key/value sequences. Keys repeated in later sequences are
// yielded again, so collecting into a map lets the later sequence win.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// Filter2 yields only the pairs accepted by keep.
func Filter2[K any, V any](seq iter.Seq2[K, V], keep func(K, V) bool) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for key, value := range seq {
			if keep(key, value) && !yield(key, value) {
				return
			}
		}
	}
}
