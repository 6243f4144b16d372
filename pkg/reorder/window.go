// Package reorder implements the receive-side reorder-and-reassembly
// window: packets arrive in arbitrary order, are buffered until a
// contiguous run spanning a complete message is available, and are
// released in order as reassembled messages.
package reorder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mstream-net/mstream/pkg/packet"
	"github.com/mstream-net/mstream/pkg/seq"
)

// ErrHeadNotFirst is returned when the packet at the front of the window
// does not carry the First flag. The upstream packet stream is malformed;
// the owning connection decides whether to terminate.
var ErrHeadNotFirst = errors.New("reorder: packet at head of window lacks FIRST flag")

// Window buffers out-of-order packets between the release cursor and the
// highest sequence number received. It is owned by a single connection's
// receive path and performs no locking.
type Window struct {
	// slots[i] holds the packet with sequence number head+i, nil if that
	// packet has not arrived yet.
	slots []*packet.Data

	// head is the next to be released sequence number.
	head seq.Num
}

// NewWindow creates an empty Window expecting head as the first sequence
// number.
func NewWindow(head seq.Num) *Window {
	return &Window{head: head}
}

// NextRelease returns the sequence number of the next packet required to
// make forward progress. It never decreases.
func (w *Window) NextRelease() seq.Num {
	return w.head
}

// Add buffers a packet. Packets below the release cursor are dropped:
// their message has already been released. A duplicate sequence number
// overwrites the previously stored packet.
func (w *Window) Add(p *packet.Data) {
	if p.Seq.Less(w.head) {
		logrus.Debugf("reorder: dropping stale %s, head %d", p, w.head)
		return
	}

	off := int(p.Seq.Sub(w.head))
	if off >= len(w.slots) {
		w.slots = append(w.slots, make([]*packet.Data, off+1-len(w.slots))...)
	}

	w.slots[off] = p
}

// Ready reports whether a complete message occupies the front of the
// window, returning the number of packets it spans. 0 means no message is
// ready. ErrHeadNotFirst is returned when the front packet exists but
// does not open a message.
func (w *Window) Ready() (count int, err error) {
	if len(w.slots) == 0 || w.slots[0] == nil {
		return 0, nil
	}

	if !w.slots[0].Loc.Has(packet.First) {
		return 0, ErrHeadNotFirst
	}

	for _, p := range w.slots {
		if p == nil {
			return 0, nil
		}
		count++
		if p.Loc.Has(packet.Last) {
			return count, nil
		}
	}

	// ran off the end of stored slots without finding Last
	return 0, nil
}

// Next extracts the next complete message, advancing the release cursor
// by the number of packets consumed. A nil message with a nil error means
// no message is ready yet.
func (w *Window) Next() ([]byte, error) {
	count, err := w.Ready()
	if err != nil || count == 0 {
		return nil, err
	}

	w.head = w.head.Add(uint32(count))

	// single packet messages are released without recopying
	if count == 1 {
		msg := w.slots[0].Payload
		w.pop(1)
		return msg, nil
	}

	size := 0
	for _, p := range w.slots[:count] {
		size += len(p.Payload)
	}

	msg := make([]byte, 0, size)
	for _, p := range w.slots[:count] {
		msg = append(msg, p.Payload...)
	}

	w.pop(count)
	return msg, nil
}

// Len returns the number of currently allocated slots, present or not.
func (w *Window) Len() int {
	return len(w.slots)
}

// pop removes n slots from the front of the window.
func (w *Window) pop(n int) {
	m := copy(w.slots, w.slots[n:])
	for i := m; i < len(w.slots); i++ {
		w.slots[i] = nil
	}
	w.slots = w.slots[:m]
}

// String renders the buffered slots for log output: sequence number and
// location flags for present slots, an underscore for gaps.
func (w *Window) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, p := range w.slots {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if p == nil {
			sb.WriteByte('_')
			continue
		}
		fmt.Fprintf(&sb, "<seq:%d %s>", p.Seq, p.Loc)
	}
	sb.WriteByte(']')
	return sb.String()
}
