package rtmp

import (
	"github.com/pkg/errors"
	"github.com/torresjeff/rtmpchunk/config"
	"github.com/torresjeff/rtmpchunk/rand"
	"go.uber.org/zap"
)

type Stage uint8

const (
	waitingForHandshake Stage = iota
	handshakeCompleted
)

var ErrNextMessageWithoutHandshake = errors.New("NextPacket() was called before completing handshake")

// MessageStream drives one connection: it runs the handshake, then turns the inbound chunks into packets and the
// outbound packets into chunks. Protocol control messages that only affect the connection itself are handled
// here as well: the peer's acknowledgement window is honored and ping requests are answered.
type MessageStream struct {
	logger     *zap.SugaredLogger
	handshaker Handshaker
	reader     ReadByteReaderCounter
	writer     WriteFlusher
	session    *SessionState
	decoder    *Decoder
	encoder    *Encoder
	cfg        config.Config
	// stage represents the current state of the message stream. Initially set to waitingForHandshake.
	// An attempt to call NextPacket() or SendPacket() in the message stream will result in an error if the stage is set to waitingForHandshake.
	stage Stage

	// windowAckSize is the number of bytes the peer wants to receive before we acknowledge them, 0 until the
	// peer sends a Window Acknowledgement Size message.
	windowAckSize uint32
	lastAck       uint64
}

func NewMessageStream(logger *zap.SugaredLogger, reader ReadByteReaderCounter, writer WriteFlusher, handshaker Handshaker, cfg config.Config) *MessageStream {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	logger = logger.With("session", rand.GenerateUuid())
	session := NewSessionStateFromConfig(cfg)
	return &MessageStream{
		logger:     logger,
		handshaker: handshaker,
		reader:     reader,
		writer:     writer,
		session:    session,
		decoder:    NewDecoder(reader, session, logger),
		encoder:    NewEncoder(writer, session),
		cfg:        cfg,
		stage:      waitingForHandshake,
	}
}

// Session returns the chunk stream table of the connection.
func (ms *MessageStream) Session() *SessionState {
	return ms.session
}

// Initialize performs the handshake and changes the internal state of the MessageStream to handshakeCompleted
func (ms *MessageStream) Initialize() error {
	err := ms.handshaker.Handshake(ms.reader, ms.writer)
	if err != nil {
		return err
	}
	ms.stage = handshakeCompleted
	ms.logger.Infow("handshake completed", "bytesRead", ms.reader.ReadBytes())
	return nil
}

// AnnounceSettings sends the configured acknowledgement window, peer bandwidth and outbound chunk size.
func (ms *MessageStream) AnnounceSettings() error {
	packets := []Packet{
		NewWindowAckSize(ms.cfg.WindowAckSize),
		NewSetPeerBandwidth(ms.cfg.WindowAckSize, LimitDynamic),
		NewSetChunkSize(ms.cfg.ChunkSize),
	}
	for _, p := range packets {
		if err := ms.SendPacket(p); err != nil {
			return err
		}
	}
	ms.logger.Infow("announced settings", "windowAckSize", ms.cfg.WindowAckSize, "chunkSize", ms.cfg.ChunkSize)
	return nil
}

// NextPacket reads chunks until a packet is complete and returns it. Set Chunk Size messages are consumed without
// being returned.
func (ms *MessageStream) NextPacket() (Packet, error) {
	if ms.stage == waitingForHandshake {
		return nil, ErrNextMessageWithoutHandshake
	}

	for {
		p, err := ms.decoder.ReadPacket()
		if err != nil {
			return nil, err
		}
		if err = ms.acknowledge(); err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}
		if err = ms.handleControl(p); err != nil {
			return nil, err
		}
		return p, nil
	}
}

// SendPacket writes p to the peer.
func (ms *MessageStream) SendPacket(p Packet) error {
	if ms.stage == waitingForHandshake {
		return ErrNextMessageWithoutHandshake
	}
	return ms.encoder.WritePacket(p)
}

func (ms *MessageStream) handleControl(p Packet) error {
	switch p := p.(type) {
	case *WindowAckSize:
		ms.windowAckSize = p.Size
		ms.logger.Infow("peer changed acknowledgement window", "size", p.Size)
	case *UserControl:
		if ts, ok := p.PingTimestamp(); ok && p.Event == EventPingRequest {
			return ms.SendPacket(NewPingResponse(ts))
		}
	}
	return nil
}

// acknowledge sends an Acknowledgement once the bytes received since the last one reach the peer's window.
func (ms *MessageStream) acknowledge() error {
	if ms.windowAckSize == 0 {
		return nil
	}
	received := ms.reader.ReadBytes()
	if received-ms.lastAck < uint64(ms.windowAckSize) {
		return nil
	}
	ms.lastAck = received
	// The sequence number wraps around like every other 32 bit counter of the protocol.
	ms.logger.Debugw("sending acknowledgement", "bytesRead", received)
	return ms.SendPacket(NewAcknowledgement(uint32(received)))
}
