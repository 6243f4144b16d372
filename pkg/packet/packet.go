// Package packet defines the mstream data packet and its wire codec.
package packet

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mstream-net/mstream/pkg/seq"
)

// HeaderLen is the fixed data packet header size:
// seq(4), flags+msgNum(4), timestamp(4), destID(4).
const HeaderLen = 16

// MaxMsgNum is the largest message number that fits the 29-bit field.
const MaxMsgNum = 1<<29 - 1

// ErrTooShort is returned by Unmarshal for a truncated packet.
var ErrTooShort = errors.New("packet: too short")

// Location marks where a packet falls within its message.
type Location byte

// Location flags. A packet carrying both First and Last is a complete
// single-packet message.
const (
	Middle Location = 0x0
	First  Location = 0x1
	Last   Location = 0x2
	Only   Location = First | Last
)

// Has reports whether all flags in l2 are set on l.
func (l Location) Has(l2 Location) bool { return l&l2 == l2 }

func (l Location) String() string {
	switch l {
	case Middle:
		return "MIDDLE"
	case First:
		return "FIRST"
	case Last:
		return "LAST"
	case Only:
		return "ONLY"
	}
	return fmt.Sprintf("UNKNOWN:%d", byte(l))
}

// Data is one unit of transmission: a slice of one application message
// plus boundary metadata. InOrder is a delivery hint carried through the
// codec but not consumed by the reorder window.
type Data struct {
	Seq       seq.Num
	Loc       Location
	InOrder   bool
	MsgNum    uint32
	Timestamp uint32
	DestID    uint32
	Payload   []byte
}

// Flag word layout (bytes 4-7 of the header):
// bit 31 First, bit 30 Last, bit 29 InOrder, bits 0-28 message number.
const (
	flagFirst   = 1 << 31
	flagLast    = 1 << 30
	flagInOrder = 1 << 29
)

// Marshal serializes the packet to wire format.
func (p *Data) Marshal() []byte {
	buf := make([]byte, HeaderLen+len(p.Payload))
	binary.BigEndian.PutUint32(buf[0:4], uint32(p.Seq))

	flags := p.MsgNum & MaxMsgNum
	if p.Loc.Has(First) {
		flags |= flagFirst
	}
	if p.Loc.Has(Last) {
		flags |= flagLast
	}
	if p.InOrder {
		flags |= flagInOrder
	}
	binary.BigEndian.PutUint32(buf[4:8], flags)

	binary.BigEndian.PutUint32(buf[8:12], p.Timestamp)
	binary.BigEndian.PutUint32(buf[12:16], p.DestID)
	copy(buf[HeaderLen:], p.Payload)
	return buf
}

// Unmarshal parses a packet from wire bytes. The payload is copied out
// of data, so the input buffer may be reused.
func Unmarshal(data []byte) (*Data, error) {
	if len(data) < HeaderLen {
		return nil, ErrTooShort
	}

	flags := binary.BigEndian.Uint32(data[4:8])
	var loc Location
	if flags&flagFirst != 0 {
		loc |= First
	}
	if flags&flagLast != 0 {
		loc |= Last
	}

	p := &Data{
		Seq:       seq.Num(binary.BigEndian.Uint32(data[0:4])),
		Loc:       loc,
		InOrder:   flags&flagInOrder != 0,
		MsgNum:    flags & MaxMsgNum,
		Timestamp: binary.BigEndian.Uint32(data[8:12]),
		DestID:    binary.BigEndian.Uint32(data[12:16]),
	}

	if len(data) > HeaderLen {
		p.Payload = make([]byte, len(data)-HeaderLen)
		copy(p.Payload, data[HeaderLen:])
	}

	return p, nil
}

// String implements fmt.Stringer for log output.
func (p *Data) String() string {
	return fmt.Sprintf("<seq:%d><loc:%s><msg:%d><size:%d>", p.Seq, p.Loc, p.MsgNum, len(p.Payload))
}
