package packet

import "github.com/mstream-net/mstream/pkg/seq"

// Split packetizes one application message into data packets of at most
// size payload bytes, with consecutive sequence numbers starting at
// start. The first packet carries First, the last carries Last; a
// message that fits one packet carries both. An empty message still
// produces one packet so the receive side sees the boundary.
func Split(msg []byte, start seq.Num, msgNum, destID uint32, size int) []*Data {
	if size <= 0 {
		size = len(msg)
	}
	if size == 0 {
		size = 1
	}

	count := (len(msg) + size - 1) / size
	if count == 0 {
		count = 1
	}

	packets := make([]*Data, 0, count)
	for i := 0; i < count; i++ {
		lo, hi := i*size, (i+1)*size
		if hi > len(msg) {
			hi = len(msg)
		}

		var loc Location
		if i == 0 {
			loc |= First
		}
		if i == count-1 {
			loc |= Last
		}

		packets = append(packets, &Data{
			Seq:     start.Add(uint32(i)),
			Loc:     loc,
			MsgNum:  msgNum & MaxMsgNum,
			DestID:  destID,
			Payload: msg[lo:hi],
		})
	}
	return packets
}
