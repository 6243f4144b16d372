package loss

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mstream-net/mstream/pkg/seq"
)

func TestTrackerEmpty(t *testing.T) {
	tr := NewTracker()

	assert.Nil(t, tr.Missing(seq.Num(5)))
	assert.Equal(t, 0, tr.Len())
}

func TestTrackerNoGaps(t *testing.T) {
	tr := NewTracker()
	tr.Add(seq.Num(5))
	tr.Add(seq.Num(6))
	tr.Add(seq.Num(7))

	assert.Nil(t, tr.Missing(seq.Num(5)))
}

func TestTrackerSingleGap(t *testing.T) {
	tr := NewTracker()
	tr.Add(seq.Num(5))
	tr.Add(seq.Num(7))

	assert.Equal(t, []Range{{From: 6, To: 6}}, tr.Missing(seq.Num(5)))
}

func TestTrackerMultipleGaps(t *testing.T) {
	tr := NewTracker()
	tr.Add(seq.Num(5))
	tr.Add(seq.Num(8))
	tr.Add(seq.Num(9))
	tr.Add(seq.Num(13))

	assert.Equal(t, []Range{
		{From: 6, To: 7},
		{From: 10, To: 12},
	}, tr.Missing(seq.Num(5)))
}

func TestTrackerHeadMissing(t *testing.T) {
	tr := NewTracker()
	tr.Add(seq.Num(7))

	assert.Equal(t, []Range{{From: 5, To: 6}}, tr.Missing(seq.Num(5)))
}

func TestTrackerAdvance(t *testing.T) {
	tr := NewTracker()
	tr.Add(seq.Num(5))
	tr.Add(seq.Num(6))
	tr.Add(seq.Num(9))

	tr.Advance(seq.Num(7))

	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, []Range{{From: 7, To: 8}}, tr.Missing(seq.Num(7)))
}

func TestTrackerDuplicateAdd(t *testing.T) {
	tr := NewTracker()
	tr.Add(seq.Num(5))
	tr.Add(seq.Num(5))

	assert.Equal(t, 1, tr.Len())
}
