// Package seq implements wraparound-aware sequence-number arithmetic for
// the mstream transport. Comparisons follow serial-number arithmetic, so
// ordering stays correct across the uint32 wrap boundary as long as the
// live window is narrower than 2^31.
package seq

// Num is the sequence number assigned to each packet by the sender.
type Num uint32

// Add returns n advanced by count packets.
func (n Num) Add(count uint32) Num {
	return n + Num(count)
}

// Inc returns the sequence number directly after n.
func (n Num) Inc() Num {
	return n + 1
}

// Sub returns the number of packets between other and n, assuming
// other <= n in window order.
func (n Num) Sub(other Num) uint32 {
	return uint32(n - other)
}

// Less reports whether n precedes other in window order.
func (n Num) Less(other Num) bool {
	return int32(n-other) < 0
}

// Cmp compares n and other in window order: -1 if n precedes other,
// 0 if equal, 1 if n follows other.
func (n Num) Cmp(other Num) int {
	d := int32(n - other)
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}
