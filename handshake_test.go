package rtmp

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) *Authenticator {
	t.Helper()
	auth, err := NewAuthenticator()
	require.NoError(t, err)
	return auth
}

// runHandshake runs client and server over an in-memory connection and returns both errors.
func runHandshake(t *testing.T, client, server Handshaker) (error, error) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	done := make(chan error, 1)
	go func() {
		err := client.Handshake(bufio.NewReader(clientConn), bufio.NewWriter(clientConn))
		if err != nil {
			clientConn.Close()
		}
		done <- err
	}()
	serverErr := server.Handshake(bufio.NewReader(serverConn), bufio.NewWriter(serverConn))
	if serverErr != nil {
		serverConn.Close()
	}
	return <-done, serverErr
}

func TestHandshake_Complex(t *testing.T) {
	auth := newAuth(t)
	server, err := NewServerHandshaker(auth)
	require.NoError(t, err)
	client, err := NewClientHandshaker(auth, true)
	require.NoError(t, err)

	clientErr, serverErr := runHandshake(t, client, server)
	require.NoError(t, clientErr)
	require.NoError(t, serverErr)
}

func TestHandshake_Simple(t *testing.T) {
	auth := newAuth(t)
	server, err := NewServerHandshaker(auth)
	require.NoError(t, err)
	client, err := NewClientHandshaker(auth, false)
	require.NoError(t, err)

	clientErr, serverErr := runHandshake(t, client, server)
	require.NoError(t, clientErr)
	require.NoError(t, serverErr)
}

func TestServerHandshake_SignsS1AndS2(t *testing.T) {
	auth := newAuth(t)
	server, err := NewServerHandshaker(auth)
	require.NoError(t, err)

	var c1 [handshakePacketSize]byte
	require.NoError(t, generateRandomData(c1[:]))
	copy(c1[4:8], clientVersion[:])
	require.NoError(t, auth.signC1S1(c1[:], clientFullKey, clientPartialKeyLength))
	clientDigest, err := auth.findDigest(c1[:], clientFullKey, clientPartialKeyLength)
	require.NoError(t, err)
	require.NotNil(t, clientDigest)

	in := append([]byte{RtmpVersion3}, c1[:]...)
	in = append(in, make([]byte, handshakePacketSize)...)
	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	require.NoError(t, server.Handshake(bytes.NewReader(in), w))

	s0s1s2 := out.Bytes()
	require.Len(t, s0s1s2, 1+2*handshakePacketSize)
	require.Equal(t, byte(RtmpVersion3), s0s1s2[0])
	s1 := s0s1s2[1 : 1+handshakePacketSize]
	s2 := s0s1s2[1+handshakePacketSize:]

	serverDigest, err := auth.findDigest(s1, serverFullKey, serverPartialKeyLength)
	require.NoError(t, err)
	require.NotNil(t, serverDigest)

	ok, err := auth.verifyC2S2(s2, serverFullKey, clientDigest)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestServerHandshake_Errors(t *testing.T) {
	auth := newAuth(t)
	server, err := NewServerHandshaker(auth)
	require.NoError(t, err)

	t.Run("unsupportedVersion", func(t *testing.T) {
		in := make([]byte, 1+2*handshakePacketSize)
		in[0] = 6
		err := server.Handshake(bytes.NewReader(in), bufio.NewWriter(io.Discard))
		require.ErrorIs(t, err, ErrUnsupportedRTMPVersion)
	})

	t.Run("wrongC2", func(t *testing.T) {
		// All-zero C1 carries no digest, so the simple handshake is used and C2 must echo S1.
		in := make([]byte, 1+2*handshakePacketSize)
		in[0] = RtmpVersion3
		err := server.Handshake(bytes.NewReader(in), bufio.NewWriter(io.Discard))
		require.ErrorIs(t, err, ErrWrongC2Message)
	})

	t.Run("truncated", func(t *testing.T) {
		in := []byte{RtmpVersion3, 0x00, 0x00}
		err := server.Handshake(bytes.NewReader(in), bufio.NewWriter(io.Discard))
		require.Equal(t, io.ErrUnexpectedEOF, err)
	})
}

// tamperingServer answers with a signed S1 but an S2 whose signature doesn't match C1.
type tamperingServer struct {
	auth *Authenticator
}

func (s *tamperingServer) Handshake(reader io.Reader, writer WriteFlusher) error {
	if _, err := readC0C1(reader); err != nil {
		return err
	}
	out := make([]byte, 1+2*handshakePacketSize)
	out[0] = RtmpVersion3
	s1 := out[1 : 1+handshakePacketSize]
	if err := generateRandomData(s1); err != nil {
		return err
	}
	if err := s.auth.signC1S1(s1, serverFullKey, serverPartialKeyLength); err != nil {
		return err
	}
	if err := send(writer, out); err != nil {
		return err
	}
	_, err := readC2(reader)
	return err
}

func TestClientHandshake_RejectsBadS2(t *testing.T) {
	auth := newAuth(t)
	client, err := NewClientHandshaker(auth, true)
	require.NoError(t, err)

	clientErr, _ := runHandshake(t, client, &tamperingServer{auth: auth})
	require.ErrorIs(t, clientErr, ErrWrongS2Message)
}

func TestDigestOffset(t *testing.T) {
	p := make([]byte, handshakePacketSize)
	p[8], p[9], p[10], p[11] = 0xFF, 0xFF, 0xFF, 0xFF
	// 4 * 255 = 1020, 1020 % 728 = 292
	require.Equal(t, 292+8+4, digestOffset(p, digestBaseFirstHalf))
	require.Equal(t, 0+772+4, digestOffset(p, digestBaseSecondHalf))
}
