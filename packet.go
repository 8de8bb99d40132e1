package rtmp

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/torresjeff/rtmpchunk/amf/amf0"
	"github.com/torresjeff/rtmpchunk/audio"
	"github.com/torresjeff/rtmpchunk/video"
)

// packetCodecs maps every message type the engine understands to a constructor of its empty packet.
var packetCodecs = map[MessageType]func() Packet{
	SetChunkSizeMessage:              func() Packet { return &SetChunkSize{} },
	AbortMessage:                     func() Packet { return &Abort{} },
	AcknowledgementMessage:           func() Packet { return &Acknowledgement{} },
	UserControlMessage:               func() Packet { return &UserControl{} },
	WindowAcknowledgementSizeMessage: func() Packet { return &WindowAckSize{} },
	SetPeerBandwidthMessage:          func() Packet { return &SetPeerBandwidth{} },
	AudioMessage:                     func() Packet { return &Audio{} },
	VideoMessage:                     func() Packet { return &Video{} },
	DataMessageAMF0:                  func() Packet { return &Data{} },
	CommandMessageAMF0:               func() Packet { return &Command{} },
}

// NewPacket returns an empty packet for message type t, or false if the engine has no codec for it.
func NewPacket(t MessageType) (Packet, bool) {
	newPacket, ok := packetCodecs[t]
	if !ok {
		return nil, false
	}
	return newPacket(), true
}

func requireBody(t MessageType, body []byte, n int) error {
	if len(body) < n {
		return errors.Wrapf(ErrTruncatedBody, "%s: got %d bytes, need %d", t, len(body), n)
	}
	return nil
}

func uint32Body(v uint32) []byte {
	return binary.BigEndian.AppendUint32(make([]byte, 0, 4), v)
}

// SetChunkSize announces the maximum chunk size the sender will use from now on.
// The decoder applies it to the session and doesn't return it to the caller.
type SetChunkSize struct {
	Header
	Size uint32
}

func NewSetChunkSize(size uint32) *SetChunkSize {
	return &SetChunkSize{Header: Header{ChunkStreamID: ProtocolChannel}, Size: size}
}

func (p *SetChunkSize) Type() MessageType { return SetChunkSizeMessage }

func (p *SetChunkSize) MarshalBody() ([]byte, error) {
	if err := validateChunkSize(p.Size); err != nil {
		return nil, err
	}
	return uint32Body(p.Size), nil
}

func (p *SetChunkSize) UnmarshalBody(body []byte) error {
	if err := requireBody(p.Type(), body, 4); err != nil {
		return err
	}
	p.Size = binary.BigEndian.Uint32(body)
	return nil
}

// Abort tells the receiver to discard the partially received message on a chunk stream.
type Abort struct {
	Header
	AbortedChunkStreamID uint32
}

func NewAbort(chunkStreamID uint32) *Abort {
	return &Abort{Header: Header{ChunkStreamID: ProtocolChannel}, AbortedChunkStreamID: chunkStreamID}
}

func (p *Abort) Type() MessageType { return AbortMessage }

func (p *Abort) MarshalBody() ([]byte, error) {
	return uint32Body(p.AbortedChunkStreamID), nil
}

func (p *Abort) UnmarshalBody(body []byte) error {
	if err := requireBody(p.Type(), body, 4); err != nil {
		return err
	}
	p.AbortedChunkStreamID = binary.BigEndian.Uint32(body)
	return nil
}

// Acknowledgement reports the number of bytes received so far.
type Acknowledgement struct {
	Header
	SequenceNumber uint32
}

func NewAcknowledgement(sequenceNumber uint32) *Acknowledgement {
	return &Acknowledgement{Header: Header{ChunkStreamID: ProtocolChannel}, SequenceNumber: sequenceNumber}
}

func (p *Acknowledgement) Type() MessageType { return AcknowledgementMessage }

func (p *Acknowledgement) MarshalBody() ([]byte, error) {
	return uint32Body(p.SequenceNumber), nil
}

func (p *Acknowledgement) UnmarshalBody(body []byte) error {
	if err := requireBody(p.Type(), body, 4); err != nil {
		return err
	}
	p.SequenceNumber = binary.BigEndian.Uint32(body)
	return nil
}

// WindowAckSize sets the number of bytes the peer may receive before it has to send an Acknowledgement.
type WindowAckSize struct {
	Header
	Size uint32
}

func NewWindowAckSize(size uint32) *WindowAckSize {
	return &WindowAckSize{Header: Header{ChunkStreamID: ProtocolChannel}, Size: size}
}

func (p *WindowAckSize) Type() MessageType { return WindowAcknowledgementSizeMessage }

func (p *WindowAckSize) MarshalBody() ([]byte, error) {
	return uint32Body(p.Size), nil
}

func (p *WindowAckSize) UnmarshalBody(body []byte) error {
	if err := requireBody(p.Type(), body, 4); err != nil {
		return err
	}
	p.Size = binary.BigEndian.Uint32(body)
	return nil
}

type LimitType uint8

const (
	LimitHard    LimitType = 0
	LimitSoft    LimitType = 1
	LimitDynamic LimitType = 2
)

// SetPeerBandwidth limits the output bandwidth of the peer.
type SetPeerBandwidth struct {
	Header
	Size  uint32
	Limit LimitType
}

func NewSetPeerBandwidth(size uint32, limit LimitType) *SetPeerBandwidth {
	return &SetPeerBandwidth{Header: Header{ChunkStreamID: ProtocolChannel}, Size: size, Limit: limit}
}

func (p *SetPeerBandwidth) Type() MessageType { return SetPeerBandwidthMessage }

func (p *SetPeerBandwidth) MarshalBody() ([]byte, error) {
	return append(uint32Body(p.Size), byte(p.Limit)), nil
}

func (p *SetPeerBandwidth) UnmarshalBody(body []byte) error {
	if err := requireBody(p.Type(), body, 5); err != nil {
		return err
	}
	p.Size = binary.BigEndian.Uint32(body)
	p.Limit = LimitType(body[4])
	return nil
}

type UserControlEvent uint16

const (
	EventStreamBegin      UserControlEvent = 0
	EventStreamEOF        UserControlEvent = 1
	EventStreamDry        UserControlEvent = 2
	EventSetBufferLength  UserControlEvent = 3
	EventStreamIsRecorded UserControlEvent = 4
	EventPingRequest      UserControlEvent = 6
	EventPingResponse     UserControlEvent = 7
)

// UserControl carries a 2 byte event type followed by event data. The event data is kept as received.
type UserControl struct {
	Header
	Event     UserControlEvent
	EventData []byte
}

func NewUserControl(event UserControlEvent, data []byte) *UserControl {
	return &UserControl{Header: Header{ChunkStreamID: ProtocolChannel}, Event: event, EventData: data}
}

func NewStreamBegin(streamID uint32) *UserControl {
	return NewUserControl(EventStreamBegin, uint32Body(streamID))
}

func NewPingResponse(timestamp uint32) *UserControl {
	return NewUserControl(EventPingResponse, uint32Body(timestamp))
}

func (p *UserControl) Type() MessageType { return UserControlMessage }

func (p *UserControl) MarshalBody() ([]byte, error) {
	b := make([]byte, 2, 2+len(p.EventData))
	binary.BigEndian.PutUint16(b, uint16(p.Event))
	return append(b, p.EventData...), nil
}

func (p *UserControl) UnmarshalBody(body []byte) error {
	if err := requireBody(p.Type(), body, 2); err != nil {
		return err
	}
	p.Event = UserControlEvent(binary.BigEndian.Uint16(body))
	p.EventData = body[2:len(body):len(body)]
	return nil
}

// StreamID returns the message stream ID the event refers to, for the stream events (begin, EOF, dry,
// set buffer length and is recorded).
func (p *UserControl) StreamID() (uint32, bool) {
	if p.Event > EventStreamIsRecorded || len(p.EventData) < 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(p.EventData), true
}

// BufferLength returns the buffer length in milliseconds of a set buffer length event.
func (p *UserControl) BufferLength() (uint32, bool) {
	if p.Event != EventSetBufferLength || len(p.EventData) < 8 {
		return 0, false
	}
	return binary.BigEndian.Uint32(p.EventData[4:]), true
}

// PingTimestamp returns the timestamp of a ping request or ping response event.
func (p *UserControl) PingTimestamp() (uint32, bool) {
	if (p.Event != EventPingRequest && p.Event != EventPingResponse) || len(p.EventData) < 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(p.EventData), true
}

// Audio is an audio message: one type-flag byte followed by the codec payload, which isn't interpreted here.
type Audio struct {
	Header
	Flags   byte
	Payload []byte
}

func NewAudio(messageStreamID uint32, timestamp uint32, flags byte, payload []byte) *Audio {
	return &Audio{
		Header:  Header{ChunkStreamID: AudioChannel, MessageStreamID: messageStreamID, Timestamp: timestamp},
		Flags:   flags,
		Payload: payload,
	}
}

func (p *Audio) Type() MessageType { return AudioMessage }

func (p *Audio) MarshalBody() ([]byte, error) {
	return flaggedBody(p.Flags, p.Payload), nil
}

func (p *Audio) UnmarshalBody(body []byte) error {
	p.Flags, p.Payload = splitFlaggedBody(body)
	return nil
}

func (p *Audio) Format() audio.Format { return audio.Format((p.Flags >> 4) & 0x0F) }

func (p *Audio) SampleRate() audio.SampleRate { return audio.SampleRate((p.Flags >> 2) & 0x03) }

func (p *Audio) SampleSize() audio.SampleSize { return audio.SampleSize((p.Flags >> 1) & 1) }

func (p *Audio) Channels() audio.Channel { return audio.Channel(p.Flags & 1) }

// AACPacketType returns whether an AAC payload is a sequence header or raw data.
func (p *Audio) AACPacketType() (audio.AACPacketType, bool) {
	if p.Format() != audio.AAC || len(p.Payload) == 0 {
		return 0, false
	}
	return audio.AACPacketType(p.Payload[0]), true
}

// Video is a video message: one type-flag byte followed by the codec payload, which isn't interpreted here.
type Video struct {
	Header
	Flags   byte
	Payload []byte
}

func NewVideo(messageStreamID uint32, timestamp uint32, flags byte, payload []byte) *Video {
	return &Video{
		Header:  Header{ChunkStreamID: VideoChannel, MessageStreamID: messageStreamID, Timestamp: timestamp},
		Flags:   flags,
		Payload: payload,
	}
}

func (p *Video) Type() MessageType { return VideoMessage }

func (p *Video) MarshalBody() ([]byte, error) {
	return flaggedBody(p.Flags, p.Payload), nil
}

func (p *Video) UnmarshalBody(body []byte) error {
	p.Flags, p.Payload = splitFlaggedBody(body)
	return nil
}

func (p *Video) FrameType() video.FrameType { return video.FrameType((p.Flags >> 4) & 0x0F) }

func (p *Video) Codec() video.Codec { return video.Codec(p.Flags & 0x0F) }

// AVCPacketType returns whether an H.264 payload is a sequence header, a NALU or an end of sequence.
func (p *Video) AVCPacketType() (video.AVCPacketType, bool) {
	if p.Codec() != video.H264 || len(p.Payload) == 0 {
		return 0, false
	}
	return video.AVCPacketType(p.Payload[0]), true
}

func flaggedBody(flags byte, payload []byte) []byte {
	b := make([]byte, 1, 1+len(payload))
	b[0] = flags
	return append(b, payload...)
}

// splitFlaggedBody separates the type-flag byte from the codec payload. Some encoders send empty audio and
// video messages, those decode to zero flags and no payload.
func splitFlaggedBody(body []byte) (byte, []byte) {
	if len(body) == 0 {
		return 0, nil
	}
	return body[0], body[1:len(body):len(body)]
}

// Command is an AMF0 command message. Only the command name is decoded, the transaction ID, command object and
// arguments that follow it are kept verbatim in Payload.
type Command struct {
	Header
	Name    string
	Payload []byte
}

func NewCommand(messageStreamID uint32, name string, payload []byte) *Command {
	return &Command{
		Header:  Header{ChunkStreamID: CommandChannel, MessageStreamID: messageStreamID},
		Name:    name,
		Payload: payload,
	}
}

func (p *Command) Type() MessageType { return CommandMessageAMF0 }

func (p *Command) MarshalBody() ([]byte, error) {
	return namedBody(p.Name, p.Payload), nil
}

func (p *Command) UnmarshalBody(body []byte) (err error) {
	p.Name, p.Payload, err = splitNamedBody(p.Type(), body)
	return err
}

// Data is an AMF0 data message, such as @setDataFrame or onMetaData. Only the name is decoded.
type Data struct {
	Header
	Name    string
	Payload []byte
}

func NewData(messageStreamID uint32, name string, payload []byte) *Data {
	return &Data{
		Header:  Header{ChunkStreamID: DataChannel, MessageStreamID: messageStreamID},
		Name:    name,
		Payload: payload,
	}
}

func (p *Data) Type() MessageType { return DataMessageAMF0 }

func (p *Data) MarshalBody() ([]byte, error) {
	return namedBody(p.Name, p.Payload), nil
}

func (p *Data) UnmarshalBody(body []byte) (err error) {
	p.Name, p.Payload, err = splitNamedBody(p.Type(), body)
	return err
}

func namedBody(name string, payload []byte) []byte {
	b := amf0.AppendString(make([]byte, 0, 3+len(name)+len(payload)), name)
	return append(b, payload...)
}

// splitNamedBody reads the AMF0 string at the start of body and returns it with the rest of the body.
func splitNamedBody(t MessageType, body []byte) (string, []byte, error) {
	name, n, err := amf0.ReadString(body)
	if err != nil {
		return "", nil, errors.Wrapf(ErrMalformedBody, "%s name: %v", t, err)
	}
	return name, body[n:len(body):len(body)], nil
}
