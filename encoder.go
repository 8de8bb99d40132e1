package rtmp

import (
	"io"
	"sync"
)

// Encoder writes packets to the outbound byte stream. It can be used from several goroutines at once, and from a
// different goroutine than the Decoder of the same session.
type Encoder struct {
	mu      sync.Mutex
	writer  io.Writer
	session *SessionState
	buf     []byte
}

func NewEncoder(w io.Writer, session *SessionState) *Encoder {
	return &Encoder{
		writer:  w,
		session: session,
	}
}

// WritePacket serializes p and writes it as one or more chunks. The chunk header of the first chunk uses the most
// compact form allowed by the previous header sent on the same chunk stream, every following chunk is preceded by
// a continuation header. If the writer is a Flusher it's flushed once the whole message has been written.
//
// p is not modified: the message type, length and chunk header form that were sent are only recorded on the
// session, so a packet returned by a Decoder can be relayed as is.
func (e *Encoder) WritePacket(p Packet) error {
	body, err := p.MarshalBody()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	h := *p.PacketHeader()
	h.MessageType = p.Type()
	h.BodyLength = uint32(len(body))
	if len(body) > maxMessageLength {
		return protocolErrorf("write packet", ErrMessageTooLarge, "body length %d", len(body))
	}

	cs := e.session.outboundChunkStream(h.ChunkStreamID)
	var prev *Header
	if ph, ok := cs.PreviousHeader(); ok {
		prev = &ph
	}

	e.buf, err = encodeHeader(e.buf[:0], &h, prev)
	if err != nil {
		return err
	}

	chunkSize := int(e.session.TxChunkSize())
	for offset := 0; ; {
		end := offset + chunkSize
		if end > len(body) {
			end = len(body)
		}
		e.buf = append(e.buf, body[offset:end]...)
		offset = end
		if offset >= len(body) {
			break
		}
		e.buf = appendContinuationHeader(e.buf, &h)
	}

	if _, err = e.writer.Write(e.buf); err != nil {
		return err
	}
	if f, ok := e.writer.(Flusher); ok {
		if err = f.Flush(); err != nil {
			return err
		}
	}
	cs.setPreviousHeader(h)

	// The new chunk size applies to the chunks sent after the Set Chunk Size message.
	if scs, ok := p.(*SetChunkSize); ok {
		if err = e.session.SetTxChunkSize(scs.Size); err != nil {
			return err
		}
	}
	return nil
}
