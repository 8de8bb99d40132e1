package rtmp

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/torresjeff/rtmpchunk/amf/amf0"
	"github.com/torresjeff/rtmpchunk/audio"
	"github.com/torresjeff/rtmpchunk/video"
)

func TestNewPacket(t *testing.T) {
	for _, mt := range []MessageType{
		SetChunkSizeMessage, AbortMessage, AcknowledgementMessage, UserControlMessage,
		WindowAcknowledgementSizeMessage, SetPeerBandwidthMessage, AudioMessage, VideoMessage,
		DataMessageAMF0, CommandMessageAMF0,
	} {
		p, ok := NewPacket(mt)
		require.True(t, ok, "%s", mt)
		require.Equal(t, mt, p.Type())
	}

	for _, mt := range []MessageType{0, 7, DataMessageAMF3, CommandMessageAMF3, AggregateMessage, 99} {
		_, ok := NewPacket(mt)
		require.False(t, ok, "%s", mt)
	}
}

func TestConstructorsUseChannels(t *testing.T) {
	tests := []struct {
		packet Packet
		csid   uint32
	}{
		{NewSetChunkSize(4096), 2},
		{NewWindowAckSize(2500000), 2},
		{NewCommand(0, "connect", nil), 3},
		{NewAudio(1, 0, 0xAF, nil), 4},
		{NewData(1, "@setDataFrame", nil), 5},
		{NewVideo(1, 0, 0x17, nil), 6},
	}
	for _, tt := range tests {
		require.Equal(t, tt.csid, tt.packet.PacketHeader().ChunkStreamID, "%s", tt.packet.Type())
	}
	require.Equal(t, []uint32{2, 3, 4, 5, 6},
		[]uint32{ProtocolChannel, CommandChannel, AudioChannel, DataChannel, VideoChannel})
}

func TestPacketBodies(t *testing.T) {
	tests := []struct {
		name   string
		packet Packet
		body   []byte
	}{
		{"setChunkSize", NewSetChunkSize(4096), []byte{0x00, 0x00, 0x10, 0x00}},
		{"abort", NewAbort(6), []byte{0x00, 0x00, 0x00, 0x06}},
		{"acknowledgement", NewAcknowledgement(0x01020304), []byte{0x01, 0x02, 0x03, 0x04}},
		{"windowAckSize", NewWindowAckSize(2500000), []byte{0x00, 0x26, 0x25, 0xA0}},
		{"setPeerBandwidth", NewSetPeerBandwidth(2500000, LimitDynamic), []byte{0x00, 0x26, 0x25, 0xA0, 0x02}},
		{"streamBegin", NewStreamBegin(1), []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x01}},
		{"pingResponse", NewPingResponse(99), []byte{0x00, 0x07, 0x00, 0x00, 0x00, 0x63}},
		{"audio", NewAudio(1, 0, 0xAF, []byte{0x01, 0x21}), []byte{0xAF, 0x01, 0x21}},
		{"video", NewVideo(1, 0, 0x17, []byte{0x00}), []byte{0x17, 0x00}},
		{"command", NewCommand(0, "play", []byte{0x05}), []byte{0x02, 0x00, 0x04, 'p', 'l', 'a', 'y', 0x05}},
		{"data", NewData(1, "onMetaData", nil), append([]byte{0x02, 0x00, 0x0A}, "onMetaData"...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := tt.packet.MarshalBody()
			require.NoError(t, err)
			require.Equal(t, tt.body, body)
		})
	}
}

func TestPacketBodies_Truncated(t *testing.T) {
	for _, mt := range []MessageType{
		SetChunkSizeMessage, AbortMessage, AcknowledgementMessage, UserControlMessage,
		WindowAcknowledgementSizeMessage, SetPeerBandwidthMessage,
	} {
		p, _ := NewPacket(mt)
		err := p.UnmarshalBody([]byte{0x00})
		require.ErrorIs(t, err, ErrTruncatedBody, "%s", mt)
	}
}

func TestPacketBodies_TrailingBytesIgnored(t *testing.T) {
	p := &WindowAckSize{}
	require.NoError(t, p.UnmarshalBody([]byte{0x00, 0x00, 0x10, 0x00, 0xFF}))
	require.Equal(t, uint32(4096), p.Size)
}

func TestUserControl_EventData(t *testing.T) {
	p := &UserControl{}
	require.NoError(t, p.UnmarshalBody([]byte{0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x0B, 0xB8}))
	require.Equal(t, EventSetBufferLength, p.Event)
	id, ok := p.StreamID()
	require.True(t, ok)
	require.Equal(t, uint32(1), id)
	length, ok := p.BufferLength()
	require.True(t, ok)
	require.Equal(t, uint32(3000), length)
	_, ok = p.PingTimestamp()
	require.False(t, ok)

	require.NoError(t, p.UnmarshalBody([]byte{0x00, 0x06, 0x00, 0x00, 0x30, 0x39}))
	require.Equal(t, EventPingRequest, p.Event)
	ts, ok := p.PingTimestamp()
	require.True(t, ok)
	require.Equal(t, uint32(12345), ts)
	_, ok = p.StreamID()
	require.False(t, ok)
}

func TestAudio_Flags(t *testing.T) {
	p := NewAudio(1, 0, audio.Flags(audio.AAC, audio.Rate44KHz, audio.Size16Bit, audio.Stereo), []byte{0x00, 0x12, 0x10})
	require.Equal(t, audio.AAC, p.Format())
	require.Equal(t, audio.Rate44KHz, p.SampleRate())
	require.Equal(t, audio.Size16Bit, p.SampleSize())
	require.Equal(t, audio.Stereo, p.Channels())
	pt, ok := p.AACPacketType()
	require.True(t, ok)
	require.Equal(t, audio.AACSequenceHeader, pt)

	mp3 := NewAudio(1, 0, audio.Flags(audio.MP3, audio.Rate44KHz, audio.Size16Bit, audio.Stereo), []byte{0xFF})
	_, ok = mp3.AACPacketType()
	require.False(t, ok)
}

func TestVideo_Flags(t *testing.T) {
	p := NewVideo(1, 0, video.Flags(video.KeyFrame, video.H264), []byte{0x01, 0x00, 0x00, 0x00})
	require.Equal(t, video.KeyFrame, p.FrameType())
	require.Equal(t, video.H264, p.Codec())
	pt, ok := p.AVCPacketType()
	require.True(t, ok)
	require.Equal(t, video.AVCNALU, pt)
}

func TestCommand_PayloadIsKeptVerbatim(t *testing.T) {
	payload, err := amf0.EncodeAll(float64(1), map[string]interface{}{"app": "live"})
	require.NoError(t, err)
	body := amf0.AppendString(nil, "connect")
	body = append(body, payload...)

	p := &Command{}
	require.NoError(t, p.UnmarshalBody(body))
	require.Equal(t, "connect", p.Name)
	require.Equal(t, payload, p.Payload)
	require.Equal(t, len(p.Payload), cap(p.Payload))

	values, err := amf0.DecodeAll(p.Payload)
	require.NoError(t, err)
	require.Equal(t, []interface{}{float64(1), map[string]interface{}{"app": "live"}}, values)
}

func TestSetChunkSize_MarshalValidates(t *testing.T) {
	_, err := NewSetChunkSize(0).MarshalBody()
	require.ErrorIs(t, err, ErrInvalidChunkSize)
	_, err = NewSetChunkSize(0x80000000).MarshalBody()
	require.ErrorIs(t, err, ErrInvalidChunkSize)
}

func TestMessageType_String(t *testing.T) {
	require.Equal(t, "Audio", AudioMessage.String())
	require.Equal(t, "Command", CommandMessageAMF0.String())
}
