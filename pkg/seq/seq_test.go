package seq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumOrdering(t *testing.T) {
	assert.True(t, Num(3).Less(Num(5)))
	assert.False(t, Num(5).Less(Num(3)))
	assert.False(t, Num(5).Less(Num(5)))

	assert.Equal(t, -1, Num(3).Cmp(Num(5)))
	assert.Equal(t, 1, Num(5).Cmp(Num(3)))
	assert.Equal(t, 0, Num(5).Cmp(Num(5)))
}

func TestNumWraparound(t *testing.T) {
	max := Num(math.MaxUint32)

	assert.Equal(t, Num(0), max.Inc())
	assert.Equal(t, Num(2), max.Add(3))

	// the number just before the wrap precedes the one just after it
	assert.True(t, max.Less(Num(0)))
	assert.False(t, Num(0).Less(max))
	assert.Equal(t, uint32(1), Num(0).Sub(max))
	assert.Equal(t, uint32(5), Num(2).Sub(Num(math.MaxUint32-2)))
}

func TestNumSub(t *testing.T) {
	assert.Equal(t, uint32(0), Num(7).Sub(Num(7)))
	assert.Equal(t, uint32(4), Num(11).Sub(Num(7)))
}
