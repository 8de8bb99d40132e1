package rtmp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/torresjeff/rtmpchunk/config"
)

func TestNewSessionState(t *testing.T) {
	s := NewSessionState()
	require.Equal(t, config.DefaultChunkSize, s.RxChunkSize())
	require.Equal(t, config.DefaultChunkSize, s.TxChunkSize())
	require.Equal(t, config.DefaultMaxMessageLength, s.MaxMessageLength())

	_, ok := s.ChunkStream(3)
	require.False(t, ok)
	cs := s.chunkStream(3)
	require.Same(t, cs, s.chunkStream(3))
	got, ok := s.ChunkStream(3)
	require.True(t, ok)
	require.Same(t, cs, got)
	require.NotSame(t, cs, s.outboundChunkStream(3))
}

func TestNewSessionStateFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxMessageLength = 4096
	s := NewSessionStateFromConfig(cfg)
	require.Equal(t, uint32(4096), s.MaxMessageLength())
	require.Equal(t, config.DefaultChunkSize, s.RxChunkSize())
}

func TestSessionState_ChunkSizes(t *testing.T) {
	s := NewSessionState()
	require.NoError(t, s.SetRxChunkSize(4096))
	require.NoError(t, s.SetTxChunkSize(60000))
	require.Equal(t, uint32(4096), s.RxChunkSize())
	require.Equal(t, uint32(60000), s.TxChunkSize())

	for _, size := range []uint32{0, 0x80000000, 0xFFFFFFFF} {
		err := s.SetRxChunkSize(size)
		require.True(t, IsProtocolError(err))
		require.ErrorIs(t, err, ErrInvalidChunkSize)
		require.ErrorIs(t, s.SetTxChunkSize(size), ErrInvalidChunkSize)
	}
	require.Equal(t, uint32(4096), s.RxChunkSize())
	require.Equal(t, uint32(60000), s.TxChunkSize())

	require.NoError(t, s.SetRxChunkSize(0x7FFFFFFF))
}

func TestSessionState_SetMaxMessageLength(t *testing.T) {
	s := NewSessionState()
	s.SetMaxMessageLength(100)
	require.Equal(t, uint32(100), s.MaxMessageLength())
	s.SetMaxMessageLength(0)
	require.Equal(t, config.DefaultMaxMessageLength, s.MaxMessageLength())
	s.SetMaxMessageLength(maxMessageLength + 1)
	require.Equal(t, config.DefaultMaxMessageLength, s.MaxMessageLength())
}

func TestSessionState_Abort(t *testing.T) {
	s := NewSessionState()
	require.False(t, s.abort(4))

	cs := s.chunkStream(4)
	require.False(t, s.abort(4))
	cs.begin(Header{ChunkStreamID: 4, BodyLength: 10}, 128)
	require.True(t, s.abort(4))
	require.False(t, cs.inProgress())
}

func TestSessionState_ConcurrentChunkSizeAccess(t *testing.T) {
	s := NewSessionState()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(size uint32) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.SetTxChunkSize(size)
				_ = s.SetRxChunkSize(size)
			}
		}(uint32(128 * (i + 1)))
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if s.TxChunkSize() == 0 || s.RxChunkSize() == 0 {
					t.Error("chunk size read as zero")
					return
				}
			}
		}()
	}
	wg.Wait()
}
