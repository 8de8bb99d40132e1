package rtmp

// BodyMarshaler is implemented by packets that can serialize their message body.
type BodyMarshaler interface {
	MarshalBody() (body []byte, err error)
}

// BodyUnmarshaler is implemented by packets that can parse their message body. The body passed in holds exactly
// the declared message length, and implementations must not retain more of it than their layout describes.
type BodyUnmarshaler interface {
	UnmarshalBody(body []byte) error
}

// Packet is a complete RTMP message: its header plus a typed body.
// Packets returned by the Decoder are not modified by it afterwards.
type Packet interface {
	BodyMarshaler
	BodyUnmarshaler
	// Type is the message type ID the packet is sent with.
	Type() MessageType
	// PacketHeader gives access to the chunk header of the packet. When sending, only ChunkStreamID,
	// MessageStreamID and Timestamp need to be set, the Encoder works out the rest without writing it back.
	PacketHeader() *Header
}
