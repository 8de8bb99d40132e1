package rtmp

import (
	"sync"

	"github.com/torresjeff/rtmpchunk/config"
)

// Largest chunk size allowed by the protocol. The most significant bit of a Set Chunk Size payload must be zero.
const maxChunkSize = 0x7FFFFFFF

// SessionState is the per-connection table of chunk streams plus the negotiated chunk sizes.
//
// The inbound chunk stream table is owned by the single goroutine that decodes the connection. The chunk sizes
// may be read and changed from the encoding goroutine as well, so they're guarded by a mutex.
type SessionState struct {
	mu               sync.RWMutex
	rxChunkSize      uint32
	txChunkSize      uint32
	maxMessageLength uint32

	// rx maps the chunk stream ID to the state of the chunk streams we receive on.
	rx map[uint32]*ChunkStreamState
	// tx holds the previous headers of the chunk streams we send on. Only the encoder touches it, under its own lock.
	tx map[uint32]*ChunkStreamState
}

func NewSessionState() *SessionState {
	return &SessionState{
		rxChunkSize:      config.DefaultChunkSize,
		txChunkSize:      config.DefaultChunkSize,
		maxMessageLength: config.DefaultMaxMessageLength,
		rx:               make(map[uint32]*ChunkStreamState),
		tx:               make(map[uint32]*ChunkStreamState),
	}
}

// NewSessionStateFromConfig creates a session that enforces the configured maximum message length.
func NewSessionStateFromConfig(cfg config.Config) *SessionState {
	s := NewSessionState()
	if cfg.MaxMessageLength != 0 {
		s.maxMessageLength = cfg.MaxMessageLength
	}
	return s
}

func (s *SessionState) RxChunkSize() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rxChunkSize
}

// SetRxChunkSize changes the size of the chunks the peer sends. It applies to every chunk read from now on.
func (s *SessionState) SetRxChunkSize(size uint32) error {
	if err := validateChunkSize(size); err != nil {
		return err
	}
	s.mu.Lock()
	s.rxChunkSize = size
	s.mu.Unlock()
	return nil
}

func (s *SessionState) TxChunkSize() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.txChunkSize
}

// SetTxChunkSize changes the size of the chunks we send.
func (s *SessionState) SetTxChunkSize(size uint32) error {
	if err := validateChunkSize(size); err != nil {
		return err
	}
	s.mu.Lock()
	s.txChunkSize = size
	s.mu.Unlock()
	return nil
}

func (s *SessionState) MaxMessageLength() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxMessageLength
}

// SetMaxMessageLength sets the largest body length accepted from the peer. Zero restores the default.
func (s *SessionState) SetMaxMessageLength(n uint32) {
	if n == 0 || n > maxMessageLength {
		n = config.DefaultMaxMessageLength
	}
	s.mu.Lock()
	s.maxMessageLength = n
	s.mu.Unlock()
}

// ChunkStream returns the inbound state for the given chunk stream ID, if it has been referenced before.
func (s *SessionState) ChunkStream(id uint32) (*ChunkStreamState, bool) {
	cs, ok := s.rx[id]
	return cs, ok
}

// chunkStream locates the inbound state for id, creating it on first reference.
func (s *SessionState) chunkStream(id uint32) *ChunkStreamState {
	cs, ok := s.rx[id]
	if !ok {
		cs = newChunkStreamState(id)
		s.rx[id] = cs
	}
	return cs
}

func (s *SessionState) outboundChunkStream(id uint32) *ChunkStreamState {
	cs, ok := s.tx[id]
	if !ok {
		cs = newChunkStreamState(id)
		s.tx[id] = cs
	}
	return cs
}

// abort discards the partially received message on chunk stream id, if any.
func (s *SessionState) abort(id uint32) bool {
	cs, ok := s.rx[id]
	if !ok || !cs.inProgress() {
		return false
	}
	cs.reset()
	return true
}

func validateChunkSize(size uint32) error {
	if size < 1 || size > maxChunkSize {
		return protocolErrorf("set chunk size", ErrInvalidChunkSize, "size %d", size)
	}
	return nil
}
