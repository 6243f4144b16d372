// Package loss tracks which sequence numbers have been received and
// reports the gaps between the release cursor and the highest sequence
// number seen. The resulting ranges feed an acknowledgment generator;
// deciding when to request retransmission is left to the caller.
package loss

import (
	"github.com/google/btree"

	"github.com/mstream-net/mstream/pkg/seq"
)

// Range is an inclusive range of missing sequence numbers.
type Range struct {
	From seq.Num
	To   seq.Num
}

type item seq.Num

func (a item) Less(b btree.Item) bool {
	return seq.Num(a).Less(seq.Num(b.(item)))
}

// Tracker records received sequence numbers. Like the reorder window it
// is owned by a single receive path and performs no locking.
type Tracker struct {
	seen *btree.BTree
	max  seq.Num
	some bool
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: btree.New(2)}
}

// Add marks a sequence number as received.
func (t *Tracker) Add(n seq.Num) {
	t.seen.ReplaceOrInsert(item(n))
	if !t.some || t.max.Less(n) {
		t.max = n
		t.some = true
	}
}

// Advance forgets every sequence number below the release cursor.
func (t *Tracker) Advance(head seq.Num) {
	for {
		min, ok := t.seen.Min().(item)
		if !ok || !seq.Num(min).Less(head) {
			return
		}
		t.seen.Delete(min)
	}
}

// Missing returns the gap ranges between head and the highest sequence
// number seen, in ascending order. Nil when nothing is missing.
func (t *Tracker) Missing(head seq.Num) []Range {
	if !t.some || t.max.Less(head) {
		return nil
	}

	var ranges []Range
	expected := head
	t.seen.AscendGreaterOrEqual(item(head), func(i btree.Item) bool {
		got := seq.Num(i.(item))
		if expected.Less(got) {
			ranges = append(ranges, Range{From: expected, To: got - 1})
		}
		expected = got.Inc()
		return true
	})
	return ranges
}

// Len returns the number of tracked sequence numbers.
func (t *Tracker) Len() int {
	return t.seen.Len()
}
