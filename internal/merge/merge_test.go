package merge

import (
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(n int) time.Time {
	return time.Date(2000, 1, n, 0, 0, 0, 0, time.UTC)
}

func days(label string, ns ...int) iter.Seq[Dated[string]] {
	items := make([]Dated[string], len(ns))
	for i, n := range ns {
		items[i] = Dated[string]{Date: day(n), Value: label}
	}
	return Slice(items...)
}

// forever yields the given label on every day from start.
func forever(label string, start int) iter.Seq[Dated[string]] {
	return func(yield func(Dated[string]) bool) {
		for n := start; ; n++ {
			if !yield(Dated[string]{Date: day(n), Value: label}) {
				return
			}
		}
	}
}

type pos struct {
	day    int
	source int
}

func TestPriorityOrdering(t *testing.T) {
	var got []pos
	for ev := range Priority(days("a", 1, 3, 5), days("b", 1, 2, 3)) {
		got = append(got, pos{ev.Date.Day(), ev.Source})
	}

	assert.Equal(t, []pos{{1, 0}, {1, 1}, {2, 1}, {3, 0}, {3, 1}, {5, 0}}, got)
}

func TestPriorityKeepsEmissionOrderWithinSource(t *testing.T) {
	src0 := Slice(
		Dated[string]{Date: day(1), Value: "first"},
		Dated[string]{Date: day(1), Value: "second"},
	)
	src1 := Slice(Dated[string]{Date: day(1), Value: "other"})

	var got []string
	for ev := range Priority(src0, src1) {
		got = append(got, ev.Value)
	}
	assert.Equal(t, []string{"first", "second", "other"}, got)
}

func TestPriorityWithInfiniteSources(t *testing.T) {
	var got []pos
	for ev := range Priority(forever("a", 3), forever("b", 1)) {
		got = append(got, pos{ev.Date.Day(), ev.Source})
		if len(got) == 6 {
			break
		}
	}
	assert.Equal(t, []pos{{1, 1}, {2, 1}, {3, 0}, {3, 1}, {4, 0}, {4, 1}}, got)
}

func TestPriorityEmptySources(t *testing.T) {
	count := 0
	for range Priority[string]() {
		count++
	}
	assert.Zero(t, count)

	for ev := range Priority(days("a"), days("b", 2)) {
		assert.Equal(t, 1, ev.Source)
		count++
	}
	assert.Equal(t, 1, count)
}

func TestDates(t *testing.T) {
	var got []string
	for d := range Dates(Priority(days("a", 2), days("b", 1))) {
		got = append(got, d.Date.Format("02")+d.Value)
	}
	assert.Equal(t, []string{"01b", "02a"}, got)
}
