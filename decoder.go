package rtmp

import (
	"io"

	"go.uber.org/zap"
)

// Decoder turns the inbound byte stream of a connection into packets.
//
// A Decoder is not safe for concurrent use: header fields are inherited from the previous chunk of the same chunk
// stream, so chunks must be decoded strictly in the order they arrive, by a single goroutine.
type Decoder struct {
	reader  io.Reader
	session *SessionState
	logger  *zap.SugaredLogger
	// scratch holds the body bytes of the chunk being read
	scratch []byte
}

// NewDecoder creates a Decoder reading from r. A nil logger discards all log output.
func NewDecoder(r io.Reader, session *SessionState, logger *zap.SugaredLogger) *Decoder {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Decoder{
		reader:  r,
		session: session,
		logger:  logger,
	}
}

// ReadPacket reads a single chunk from the stream.
//
// It returns a packet once the chunk completes a message. It returns a nil packet and a nil error when the message
// needs more chunks, or when the message was consumed by the decoder itself (Set Chunk Size). Errors reading from
// the stream are returned unchanged, anything malformed is reported as a *ProtocolError. After an error the
// connection must be closed.
func (d *Decoder) ReadPacket() (Packet, error) {
	h, cs, err := decodeHeader(d.reader, d.session)
	if err != nil {
		return nil, err
	}
	d.logger.Debugw("read chunk header",
		"chunkType", h.ChunkType,
		"csid", h.ChunkStreamID,
		"messageType", h.MessageType,
		"length", h.BodyLength,
		"timestamp", h.Timestamp,
		"streamID", h.MessageStreamID)

	chunkSize := d.session.RxChunkSize()
	if !cs.inProgress() {
		if limit := d.session.MaxMessageLength(); h.BodyLength > limit {
			return nil, protocolErrorf("read packet", ErrMessageTooLarge,
				"csid %d: message length %d, maximum is %d", h.ChunkStreamID, h.BodyLength, limit)
		}
		cs.begin(h, chunkSize)
	}

	n := cs.remaining()
	if n > chunkSize {
		n = chunkSize
	}
	if uint32(cap(d.scratch)) < n {
		d.scratch = make([]byte, n)
	}
	chunk := d.scratch[:n]
	if err = readFull(d.reader, chunk); err != nil {
		return nil, err
	}

	complete, err := cs.appendChunk(chunk, chunkSize)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, nil
	}

	header, body := cs.take()
	return d.dispatch(header, body)
}

// dispatch builds the packet for a fully assembled message.
func (d *Decoder) dispatch(h Header, body []byte) (Packet, error) {
	p, ok := NewPacket(h.MessageType)
	if !ok {
		return nil, protocolErrorf("dispatch", ErrUnsupportedMessageType,
			"message type %d on csid %d", uint8(h.MessageType), h.ChunkStreamID)
	}
	if err := p.UnmarshalBody(body); err != nil {
		return nil, protocolError("parse body", err)
	}
	*p.PacketHeader() = h

	switch p := p.(type) {
	case *SetChunkSize:
		if err := d.session.SetRxChunkSize(p.Size); err != nil {
			return nil, err
		}
		d.logger.Infow("peer changed chunk size", "size", p.Size)
		return nil, nil
	case *Abort:
		if d.session.abort(p.AbortedChunkStreamID) {
			d.logger.Infow("discarded partial message", "csid", p.AbortedChunkStreamID)
		}
	}
	return p, nil
}
