package rtmp

import "strconv"

type MessageType uint8

// Protocol control messages (1-3, 5, 6) and the user control message (4) MUST be sent with message stream ID 0.
const (
	SetChunkSizeMessage MessageType = 1 + iota
	AbortMessage
	AcknowledgementMessage
	UserControlMessage
	WindowAcknowledgementSizeMessage
	SetPeerBandwidthMessage
)

const (
	AudioMessage MessageType = 8
	VideoMessage MessageType = 9

	DataMessageAMF3         MessageType = 15
	SharedObjectMessageAMF3 MessageType = 16
	CommandMessageAMF3      MessageType = 17

	DataMessageAMF0         MessageType = 18
	SharedObjectMessageAMF0 MessageType = 19
	CommandMessageAMF0      MessageType = 20

	AggregateMessage MessageType = 22
)

func (t MessageType) String() string {
	switch t {
	case SetChunkSizeMessage:
		return "SetChunkSize"
	case AbortMessage:
		return "Abort"
	case AcknowledgementMessage:
		return "Acknowledgement"
	case UserControlMessage:
		return "UserControl"
	case WindowAcknowledgementSizeMessage:
		return "WindowAckSize"
	case SetPeerBandwidthMessage:
		return "SetPeerBandwidth"
	case AudioMessage:
		return "Audio"
	case VideoMessage:
		return "Video"
	case DataMessageAMF0:
		return "Data"
	case CommandMessageAMF0:
		return "Command"
	default:
		return "MessageType(" + strconv.Itoa(int(t)) + ")"
	}
}
