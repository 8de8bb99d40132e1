package rtmp

// ChunkType is the 2-bit fmt field of the chunk basic header. It selects how much of the message header is
// present on the wire.
type ChunkType uint8

const (
	// ChunkTypeFull carries every header field, with an absolute timestamp.
	ChunkTypeFull ChunkType = iota
	// ChunkTypeSameStreamDelta omits the message stream ID and carries a timestamp delta.
	ChunkTypeSameStreamDelta
	// ChunkTypeSameLengthDelta carries only a timestamp delta.
	ChunkTypeSameLengthDelta
	// ChunkTypeContinuation carries no message header at all.
	ChunkTypeContinuation
)

const (
	chunkTypeFullHeaderLength            = 11
	chunkTypeSameStreamDeltaHeaderLength = 7
	chunkTypeSameLengthDeltaHeaderLength = 3

	extendedTimestampLength = 4
	// A 3-byte timestamp of 0xFFFFFF indicates that a 4-byte extended timestamp follows the message header.
	extendedTimestampMarker = 0xFFFFFF

	// Largest value the 3-byte message length field can carry.
	maxMessageLength = 0xFFFFFF
)

// Chunk stream IDs 0 and 1 are reserved to signal the 2 and 3 byte basic header forms.
const (
	minChunkStreamID = 2
	maxChunkStreamID = 65599
)

// Chunk stream IDs used when sending. Only the protocol channel (csid = 2) is defined by the protocol,
// the rest are used to keep the same kind of data on the same chunk stream.
const (
	ProtocolChannel uint32 = 2
	CommandChannel  uint32 = 3
	AudioChannel    uint32 = 4
	DataChannel     uint32 = 5
	VideoChannel    uint32 = 6
)

// Header is a decoded chunk header. Fields that are not physically present for the chunk type are inherited
// from the previous header seen on the same chunk stream.
type Header struct {
	ChunkType     ChunkType
	ChunkStreamID uint32
	MessageType   MessageType
	BodyLength    uint32
	// Timestamp is always the absolute timestamp of the message, regardless of the chunk type that carried it.
	Timestamp uint32
	// TimestampDelta is the delta carried on the wire (or inherited). For a full header it equals Timestamp.
	TimestampDelta  uint32
	MessageStreamID uint32
	// ExtendedTimestamp is true when the timestamp didn't fit in 3 bytes and a 4-byte extended timestamp was used.
	ExtendedTimestamp bool
}

// PacketHeader returns the header itself. It's promoted to every packet type that embeds a Header.
func (h *Header) PacketHeader() *Header {
	return h
}
