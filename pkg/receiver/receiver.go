// Package receiver wires the reorder window and loss tracker to a
// net.PacketConn, turning a stream of out-of-order datagrams into
// in-order reassembled messages.
package receiver

import (
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mstream-net/mstream/pkg/loss"
	"github.com/mstream-net/mstream/pkg/packet"
	"github.com/mstream-net/mstream/pkg/reorder"
	"github.com/mstream-net/mstream/pkg/seq"
)

// readBufSize covers the largest UDP datagram.
const readBufSize = 65535

// Receiver owns one connection's receive path: it reads datagrams,
// feeds the reorder window, and emits reassembled messages on a channel.
type Receiver struct {
	id   uuid.UUID
	conn net.PacketConn
	log  *logrus.Entry

	mu      sync.Mutex
	window  *reorder.Window
	tracker *loss.Tracker

	destID uint32
	msgCh  chan []byte
	doneCh chan struct{}
	once   sync.Once

	errMu sync.Mutex
	err   error
}

// New constructs a Receiver for packets addressed to destID, expecting
// head as the first sequence number, and starts serving conn. A nil log
// falls back to the standard logger.
func New(conn net.PacketConn, destID uint32, head seq.Num, log *logrus.Logger) *Receiver {
	if log == nil {
		log = logrus.StandardLogger()
	}

	r := &Receiver{
		id:      uuid.New(),
		conn:    conn,
		destID:  destID,
		window:  reorder.NewWindow(head),
		tracker: loss.NewTracker(),
		msgCh:   make(chan []byte),
		doneCh:  make(chan struct{}),
	}
	r.log = log.WithField("receiver", r.id)

	go r.serveLoop()
	return r
}

// Messages returns the channel of reassembled messages, delivered in
// order. It is closed when the receiver stops.
func (r *Receiver) Messages() <-chan []byte {
	return r.msgCh
}

// NextRelease returns the next expected sequence number, for use by an
// acknowledgment generator.
func (r *Receiver) NextRelease() seq.Num {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.window.NextRelease()
}

// Missing returns the currently known missing sequence ranges.
func (r *Receiver) Missing() []loss.Range {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tracker.Missing(r.window.NextRelease())
}

// Buffered returns the reorder window's current slot count.
func (r *Receiver) Buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.window.Len()
}

// Err returns the error that stopped the receiver, if any.
func (r *Receiver) Err() error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return r.err
}

// Close stops the receiver and closes the underlying conn. Safe to call
// more than once.
func (r *Receiver) Close() error {
	r.once.Do(func() { close(r.doneCh) })
	return r.conn.Close()
}

func (r *Receiver) setErr(err error) {
	r.errMu.Lock()
	if r.err == nil {
		r.err = err
	}
	r.errMu.Unlock()
}

func (r *Receiver) serveLoop() {
	defer close(r.msgCh)

	buf := make([]byte, readBufSize)
	for {
		n, _, err := r.conn.ReadFrom(buf)
		if err != nil {
			select {
			case <-r.doneCh:
			default:
				r.setErr(err)
			}
			return
		}

		p, err := packet.Unmarshal(buf[:n])
		if err != nil {
			r.log.WithError(err).Warn("dropping undecodable datagram")
			continue
		}

		if p.DestID != r.destID {
			r.log.Debugf("dropping %s for other destination %d", p, p.DestID)
			continue
		}

		msgs, err := r.push(p)
		if err != nil {
			// malformed upstream stream, the connection owner decides
			r.setErr(err)
			r.log.WithError(err).Error("stopping receive path")
			return
		}

		for _, msg := range msgs {
			select {
			case r.msgCh <- msg:
			case <-r.doneCh:
				return
			}
		}
	}
}

// push inserts one packet and drains every message that became ready.
func (r *Receiver) push(p *packet.Data) ([][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.window.Add(p)
	r.tracker.Add(p.Seq)

	var msgs [][]byte
	for {
		count, err := r.window.Ready()
		if err != nil {
			return nil, err
		}
		if count == 0 {
			break
		}

		msg, err := r.window.Next()
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}

	r.tracker.Advance(r.window.NextRelease())
	return msgs, nil
}
