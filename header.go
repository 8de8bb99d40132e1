package rtmp

import (
	"encoding/binary"
	"io"

	"github.com/torresjeff/rtmpchunk/internal/binary24"
)

const (
	// Timestamp is in indices [0, 3) (half-open range)
	timestampIndexStart = 0
	timestampLength     = 3

	messageLengthIndexStart = 3
	messageLengthLength     = 3

	messageTypeIDIndexStart = 6

	messageStreamIDIndexStart = 7
	messageStreamIDLength     = 4
)

// decodeHeader reads one chunk header. Fields not present for the chunk type are taken from the previous header
// recorded for the chunk stream, and the resulting header becomes the new previous header.
//
// io.EOF is returned unchanged only if the stream ends before the first byte of the header. If it ends in the
// middle of a header, io.ErrUnexpectedEOF is returned.
func decodeHeader(r io.Reader, session *SessionState) (Header, *ChunkStreamState, error) {
	var buf [chunkTypeFullHeaderLength]byte

	chunkType, chunkStreamID, err := readBasicHeader(r, buf[:])
	if err != nil {
		return Header{}, nil, err
	}

	cs := session.chunkStream(chunkStreamID)
	prev, hasPrev := cs.PreviousHeader()

	if chunkType != ChunkTypeContinuation && cs.inProgress() {
		return Header{}, cs, protocolErrorf("decode header", ErrUnexpectedChunkType,
			"csid %d: chunk type %d with %d of %d bytes assembled", chunkStreamID, chunkType, cs.accumulated(), cs.bodyLength)
	}
	if chunkType != ChunkTypeFull && !hasPrev {
		return Header{}, cs, protocolErrorf("decode header", ErrNoPreviousHeader, "csid %d, chunk type %d", chunkStreamID, chunkType)
	}

	h := Header{ChunkType: chunkType, ChunkStreamID: chunkStreamID}
	switch chunkType {
	//0                   1                   2                   3
	//0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
	//+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	//|                   timestamp                   |message length |
	//+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	//|     message length (cont)     |message type id| msg stream id |
	//+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	//|           message stream id (cont)            |
	//+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	case ChunkTypeFull:
		mh := buf[:chunkTypeFullHeaderLength]
		if err = readFull(r, mh); err != nil {
			return Header{}, cs, err
		}
		h.BodyLength = binary24.BigEndian.Uint24(mh[messageLengthIndexStart : messageLengthIndexStart+messageLengthLength])
		h.MessageType = MessageType(mh[messageTypeIDIndexStart])
		// NOTE: message stream ID is stored in little endian format
		h.MessageStreamID = binary.LittleEndian.Uint32(mh[messageStreamIDIndexStart : messageStreamIDIndexStart+messageStreamIDLength])

		timestamp, extended, err := readTimestampField(r, mh[timestampIndexStart:timestampLength])
		if err != nil {
			return Header{}, cs, err
		}
		h.Timestamp = timestamp
		h.TimestampDelta = timestamp
		h.ExtendedTimestamp = extended
	//0                   1                   2                   3
	//0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
	//+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	//|                timestamp delta                |message length |
	//+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	//|     message length (cont)     |message type id|
	//+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	case ChunkTypeSameStreamDelta:
		mh := buf[:chunkTypeSameStreamDeltaHeaderLength]
		if err = readFull(r, mh); err != nil {
			return Header{}, cs, err
		}
		h.BodyLength = binary24.BigEndian.Uint24(mh[messageLengthIndexStart : messageLengthIndexStart+messageLengthLength])
		h.MessageType = MessageType(mh[messageTypeIDIndexStart])
		h.MessageStreamID = prev.MessageStreamID

		delta, extended, err := readTimestampField(r, mh[timestampIndexStart:timestampLength])
		if err != nil {
			return Header{}, cs, err
		}
		h.TimestampDelta = delta
		h.Timestamp = prev.Timestamp + delta
		h.ExtendedTimestamp = extended
	//0                   1                   2
	//0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3
	//+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	//|                timestamp delta                |
	//+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	case ChunkTypeSameLengthDelta:
		mh := buf[:chunkTypeSameLengthDeltaHeaderLength]
		if err = readFull(r, mh); err != nil {
			return Header{}, cs, err
		}
		h.BodyLength = prev.BodyLength
		h.MessageType = prev.MessageType
		h.MessageStreamID = prev.MessageStreamID

		delta, extended, err := readTimestampField(r, mh[timestampIndexStart:timestampLength])
		if err != nil {
			return Header{}, cs, err
		}
		h.TimestampDelta = delta
		h.Timestamp = prev.Timestamp + delta
		h.ExtendedTimestamp = extended
	case ChunkTypeContinuation:
		h = prev
		h.ChunkType = ChunkTypeContinuation

		// The extended timestamp is repeated on continuation chunks when the previous header carried one.
		var extendedTimestamp uint32
		if prev.ExtendedTimestamp {
			ext := buf[:extendedTimestampLength]
			if err = readFull(r, ext); err != nil {
				return Header{}, cs, err
			}
			extendedTimestamp = binary.BigEndian.Uint32(ext)
		}

		// A continuation chunk can also start a new message whose header is entirely derived from the previous one,
		// in that case the previous delta is applied again.
		if !cs.inProgress() {
			if prev.ExtendedTimestamp {
				h.TimestampDelta = extendedTimestamp
			}
			h.Timestamp = prev.Timestamp + h.TimestampDelta
		}
	}

	cs.setPreviousHeader(h)
	return h, cs, nil
}

func readBasicHeader(r io.Reader, buf []byte) (ChunkType, uint32, error) {
	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return 0, 0, err
	}
	// Chunk type (fmt) lives in the 2 highest bits, the chunk stream ID in the lowest 6 bits.
	chunkType := ChunkType(buf[0] >> 6)
	chunkStreamID := uint32(buf[0] & 0x3F)

	// Value 0 indicates the 2 byte form and an ID in the range of 64-319 (the second byte + 64).
	// Value 1 indicates the 3 byte form and an ID in the range of 64-65599 ((the third byte)*256 + the second byte + 64).
	switch chunkStreamID {
	case 0:
		if err := readFull(r, buf[:1]); err != nil {
			return 0, 0, err
		}
		chunkStreamID = uint32(buf[0]) + 64
	case 1:
		if err := readFull(r, buf[:2]); err != nil {
			return 0, 0, err
		}
		chunkStreamID = uint32(binary.LittleEndian.Uint16(buf[:2])) + 64
	}
	return chunkType, chunkStreamID, nil
}

// readTimestampField interprets a 3-byte timestamp (or delta) field, reading the extended timestamp that follows
// the message header when the field holds the marker value.
func readTimestampField(r io.Reader, field []byte) (uint32, bool, error) {
	v := binary24.BigEndian.Uint24(field)
	if v != extendedTimestampMarker {
		return v, false, nil
	}
	var ext [extendedTimestampLength]byte
	if err := readFull(r, ext[:]); err != nil {
		return 0, false, err
	}
	return binary.BigEndian.Uint32(ext[:]), true, nil
}

// readFull is used for every read after the first byte of a chunk, where running out of input means the
// chunk was truncated.
func readFull(r io.Reader, p []byte) error {
	_, err := io.ReadFull(r, p)
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// encodeHeader chooses the most compact chunk type for h given prev, the previous header sent on the same chunk
// stream (nil if there's none), fills in h.ChunkType, h.TimestampDelta and h.ExtendedTimestamp, and appends the
// wire form of the header to b.
func encodeHeader(b []byte, h *Header, prev *Header) ([]byte, error) {
	if h.ChunkStreamID < minChunkStreamID || h.ChunkStreamID > maxChunkStreamID {
		return b, protocolErrorf("encode header", ErrInvalidChunkStreamID, "csid %d", h.ChunkStreamID)
	}
	if h.BodyLength > maxMessageLength {
		return b, protocolErrorf("encode header", ErrMessageTooLarge, "body length %d", h.BodyLength)
	}

	switch {
	case prev == nil || prev.MessageStreamID != h.MessageStreamID || prev.MessageType != h.MessageType ||
		h.Timestamp < prev.Timestamp:
		h.ChunkType = ChunkTypeFull
		h.TimestampDelta = h.Timestamp
	case prev.BodyLength != h.BodyLength:
		h.ChunkType = ChunkTypeSameStreamDelta
		h.TimestampDelta = h.Timestamp - prev.Timestamp
	case h.Timestamp-prev.Timestamp == prev.TimestampDelta && !prev.ExtendedTimestamp:
		h.ChunkType = ChunkTypeContinuation
		h.TimestampDelta = prev.TimestampDelta
	default:
		h.ChunkType = ChunkTypeSameLengthDelta
		h.TimestampDelta = h.Timestamp - prev.Timestamp
	}
	h.ExtendedTimestamp = h.ChunkType != ChunkTypeContinuation && h.TimestampDelta >= extendedTimestampMarker

	b = appendBasicHeader(b, h.ChunkType, h.ChunkStreamID)

	field := h.TimestampDelta
	if h.ExtendedTimestamp {
		field = extendedTimestampMarker
	}
	switch h.ChunkType {
	case ChunkTypeFull:
		b = binary24.BigEndian.AppendUint24(b, field)
		b = binary24.BigEndian.AppendUint24(b, h.BodyLength)
		b = append(b, byte(h.MessageType))
		b = binary.LittleEndian.AppendUint32(b, h.MessageStreamID)
	case ChunkTypeSameStreamDelta:
		b = binary24.BigEndian.AppendUint24(b, field)
		b = binary24.BigEndian.AppendUint24(b, h.BodyLength)
		b = append(b, byte(h.MessageType))
	case ChunkTypeSameLengthDelta:
		b = binary24.BigEndian.AppendUint24(b, field)
	}
	if h.ExtendedTimestamp {
		b = binary.BigEndian.AppendUint32(b, h.TimestampDelta)
	}
	return b, nil
}

// appendContinuationHeader appends the header that precedes every chunk of a message after the first one.
func appendContinuationHeader(b []byte, h *Header) []byte {
	b = appendBasicHeader(b, ChunkTypeContinuation, h.ChunkStreamID)
	if h.ExtendedTimestamp {
		b = binary.BigEndian.AppendUint32(b, h.TimestampDelta)
	}
	return b
}

func appendBasicHeader(b []byte, chunkType ChunkType, chunkStreamID uint32) []byte {
	fmtBits := byte(chunkType) << 6
	switch {
	case chunkStreamID < 64:
		return append(b, fmtBits|byte(chunkStreamID))
	case chunkStreamID < 320:
		return append(b, fmtBits, byte(chunkStreamID-64))
	default:
		id := chunkStreamID - 64
		return append(b, fmtBits|1, byte(id), byte(id>>8))
	}
}
