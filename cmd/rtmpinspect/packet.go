package main

import (
	"github.com/torresjeff/rtmpchunk"
	"github.com/torresjeff/rtmpchunk/amf/amf0"
	"go.uber.org/zap"
)

func logPacket(logger *zap.SugaredLogger, p rtmp.Packet) {
	h := p.PacketHeader()
	fields := []interface{}{
		"type", p.Type().String(),
		"csid", h.ChunkStreamID,
		"streamID", h.MessageStreamID,
		"timestamp", h.Timestamp,
		"length", h.BodyLength,
	}

	switch p := p.(type) {
	case *rtmp.Command:
		fields = append(fields, "name", p.Name)
		fields = append(fields, amfFields(p.Payload)...)
	case *rtmp.Data:
		fields = append(fields, "name", p.Name)
		fields = append(fields, amfFields(p.Payload)...)
	case *rtmp.Audio:
		fields = append(fields, "format", p.Format().String(), "sampleRate", p.SampleRate().Hz())
		if pt, ok := p.AACPacketType(); ok {
			fields = append(fields, "aacPacketType", pt)
		}
	case *rtmp.Video:
		fields = append(fields, "frameType", p.FrameType().String(), "codec", p.Codec().String())
		if pt, ok := p.AVCPacketType(); ok {
			fields = append(fields, "avcPacketType", pt)
		}
	case *rtmp.UserControl:
		fields = append(fields, "event", p.Event)
		if id, ok := p.StreamID(); ok {
			fields = append(fields, "eventStreamID", id)
		}
		if ts, ok := p.PingTimestamp(); ok {
			fields = append(fields, "pingTimestamp", ts)
		}
	case *rtmp.WindowAckSize:
		fields = append(fields, "size", p.Size)
	case *rtmp.SetPeerBandwidth:
		fields = append(fields, "size", p.Size, "limit", p.Limit)
	case *rtmp.Acknowledgement:
		fields = append(fields, "sequenceNumber", p.SequenceNumber)
	case *rtmp.Abort:
		fields = append(fields, "abortedCsid", p.AbortedChunkStreamID)
	}
	logger.Infow("packet", fields...)
}

// amfFields decodes the AMF0 values that follow the name of a command or data message. A payload that doesn't
// decode is logged by size only.
func amfFields(payload []byte) []interface{} {
	values, err := amf0.DecodeAll(payload)
	if err != nil {
		return []interface{}{"payloadBytes", len(payload), "amfError", err.Error()}
	}
	return []interface{}{"values", values}
}
