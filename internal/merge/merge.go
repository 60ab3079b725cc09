// Package merge interleaves date-ordered streams.
package merge

import (
	"container/heap"
	"iter"
	"time"
)

// Dated is a value tagged with the date it happens on.
type Dated[T any] struct {
	Date  time.Time
	Value T
}

// Event is a merged value along with the index of the stream it came from.
type Event[T any] struct {
	Date   time.Time
	Source int
	Value  T
}

// Priority merges sources, each already in non-decreasing date order, into a
// single stream ordered by date. Values on the same date come out in source
// order, then in the order their source produced them.
//
// Sources may be infinite; they are pulled one value at a time and released
// when the consumer stops.
func Priority[T any](sources ...iter.Seq[Dated[T]]) iter.Seq[Event[T]] {
	return func(yield func(Event[T]) bool) {
		nexts := make([]func() (Dated[T], bool), len(sources))
		h := make(eventHeap[T], 0, len(sources))

		for i, src := range sources {
			next, stop := iter.Pull(src)
			defer stop()
			nexts[i] = next
			if d, ok := next(); ok {
				h = append(h, Event[T]{Date: d.Date, Source: i, Value: d.Value})
			}
		}
		heap.Init(&h)

		// Each source has at most one value in the heap, so values from one
		// source can never overtake each other.
		for h.Len() > 0 {
			ev := heap.Pop(&h).(Event[T])
			if !yield(ev) {
				return
			}
			if d, ok := nexts[ev.Source](); ok {
				heap.Push(&h, Event[T]{Date: d.Date, Source: ev.Source, Value: d.Value})
			}
		}
	}
}

// Dates drops the source index from a merged stream.
func Dates[T any](events iter.Seq[Event[T]]) iter.Seq[Dated[T]] {
	return func(yield func(Dated[T]) bool) {
		for ev := range events {
			if !yield(Dated[T]{Date: ev.Date, Value: ev.Value}) {
				return
			}
		}
	}
}

// Slice returns a stream over a fixed list of values.
func Slice[T any](items ...Dated[T]) iter.Seq[Dated[T]] {
	return func(yield func(Dated[T]) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}

type eventHeap[T any] []Event[T]

func (h eventHeap[T]) Len() int { return len(h) }

func (h eventHeap[T]) Less(i, j int) bool {
	if c := h[i].Date.Compare(h[j].Date); c != 0 {
		return c < 0
	}
	return h[i].Source < h[j].Source
}

func (h eventHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap[T]) Push(x any) { *h = append(*h, x.(Event[T])) }

func (h *eventHeap[T]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
