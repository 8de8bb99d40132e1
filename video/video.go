// Package video holds the fields packed into the type-flag byte that starts every video message.
package video

// As defined in the FLV spec: https://www.adobe.com/content/dam/acom/en/devnet/flv/video_file_format_spec_v10_1.pdf

type FrameType uint8

const (
	KeyFrame             FrameType = 1
	InterFrame           FrameType = 2
	DisposableInterFrame FrameType = 3
	GeneratedKeyFrame    FrameType = 4
	// Video info/command frame
	CommandFrame FrameType = 5
)

func (f FrameType) String() string {
	switch f {
	case KeyFrame:
		return "keyframe"
	case InterFrame:
		return "inter"
	case DisposableInterFrame:
		return "disposable-inter"
	case GeneratedKeyFrame:
		return "generated-keyframe"
	case CommandFrame:
		return "command"
	}
	return "unknown"
}

type Codec uint8

const (
	SorensonH263    Codec = 2
	ScreenVideo     Codec = 3
	VP6             Codec = 4
	VP6AlphaChannel Codec = 5
	ScreenVideoV2   Codec = 6
	H264            Codec = 7
)

func (c Codec) String() string {
	switch c {
	case SorensonH263:
		return "H263"
	case ScreenVideo:
		return "ScreenVideo"
	case VP6:
		return "VP6"
	case VP6AlphaChannel:
		return "VP6A"
	case ScreenVideoV2:
		return "ScreenVideo2"
	case H264:
		return "H264"
	}
	return "unknown"
}

type AVCPacketType uint8

const (
	AVCSequenceHeader AVCPacketType = 0
	AVCNALU           AVCPacketType = 1
	AVCEndOfSequence  AVCPacketType = 2
)

// Flags packs the frame type and codec into a type-flag byte.
func Flags(frameType FrameType, codec Codec) byte {
	return byte(frameType&0x0F)<<4 | byte(codec&0x0F)
}
