package rtmp

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/torresjeff/rtmpchunk/rand"
)

var ErrUnsupportedRTMPVersion error = errors.New("The version of RTMP is not supported")
var ErrWrongC2Message error = errors.New("server handshake: s1 and c2 handshake messages do not match")
var ErrWrongS2Message error = errors.New("client handshake: c1 and s2 handshake messages do not match")

const RtmpVersion3 = 3

const (
	handshakePacketSize = 1536
	// C2 and S2 carry their signature in the last 32 bytes.
	handshakeSignatureOffset = handshakePacketSize - DigestLength
	// The digest of C1 and S1 lives either in the first or in the second half of the packet, at an offset derived
	// from the 4 bytes that start each half.
	digestBaseFirstHalf  = 8
	digestBaseSecondHalf = 772
	digestOffsetModulo   = 728

	clientPartialKeyLength = 30
	serverPartialKeyLength = 36
)

var (
	clientVersion = [4]byte{0x09, 0x00, 0x7C, 0x02}
	serverVersion = [4]byte{0x04, 0x05, 0x00, 0x01}

	keySuffix = []byte{
		0xF0, 0xEE, 0xC2, 0x4A, 0x80, 0x68, 0xBE, 0xE8, 0x2E, 0x00, 0xD0, 0xD1,
		0x02, 0x9E, 0x7E, 0x57, 0x6E, 0xEC, 0x5D, 0x2D, 0x29, 0x80, 0x6F, 0xAB,
		0x93, 0xB8, 0xE6, 0x36, 0xCF, 0xEB, 0x31, 0xAE,
	}
	clientFullKey = append([]byte("Genuine Adobe Flash Player 001"), keySuffix...)
	serverFullKey = append([]byte("Genuine Adobe Flash Media Server 001"), keySuffix...)
)

// ServerHandshaker performs the server side of the handshake. Clients that sign C1 get a digest-based (complex)
// handshake, any other client gets the plain echo (simple) handshake.
type ServerHandshaker struct {
	auth *Authenticator
}

// NewServerHandshaker returns a server handshaker that signs and verifies packets with auth.
func NewServerHandshaker(auth *Authenticator) (*ServerHandshaker, error) {
	if auth == nil {
		return nil, errors.Wrap(ErrDigestUnavailable, "server handshake")
	}
	return &ServerHandshaker{auth: auth}, nil
}

func (h *ServerHandshaker) Handshake(reader io.Reader, writer WriteFlusher) error {
	c1, err := readC0C1(reader)
	if err != nil {
		return err
	}

	clientDigest, err := h.auth.findDigest(c1, clientFullKey, clientPartialKeyLength)
	if err != nil {
		return err
	}
	signed := clientDigest != nil

	var s0s1s2 [1 + 2*handshakePacketSize]byte
	s0s1s2[0] = RtmpVersion3
	s1 := s0s1s2[1 : 1+handshakePacketSize]
	s2 := s0s1s2[1+handshakePacketSize:]

	if err = generateRandomData(s1); err != nil {
		return err
	}
	if signed {
		copy(s1[4:8], serverVersion[:])
		if err = h.auth.signC1S1(s1, serverFullKey, serverPartialKeyLength); err != nil {
			return err
		}
		if err = rand.GenerateCryptoSafeRandomData(s2); err != nil {
			return err
		}
		if err = h.auth.signC2S2(s2, serverFullKey, clientDigest); err != nil {
			return err
		}
	} else {
		copy(s2, c1)
	}
	if err = send(writer, s0s1s2[:]); err != nil {
		return err
	}

	c2, err := readC2(reader)
	if err != nil {
		return err
	}
	// Signed C2s aren't checked, a lot of encoders in the wild get the signature wrong.
	if !signed && !bytes.Equal(s1, c2) {
		return ErrWrongC2Message
	}
	return nil
}

// ClientHandshaker performs the client side of the handshake. When Complex is set C1 is signed and the server's
// S2 signature is verified, a server that answers with the simple handshake is accepted as long as it echoes C1.
type ClientHandshaker struct {
	auth    *Authenticator
	Complex bool
}

// NewClientHandshaker returns a client handshaker that signs and verifies packets with auth.
func NewClientHandshaker(auth *Authenticator, signed bool) (*ClientHandshaker, error) {
	if auth == nil {
		return nil, errors.Wrap(ErrDigestUnavailable, "client handshake")
	}
	return &ClientHandshaker{auth: auth, Complex: signed}, nil
}

func (h *ClientHandshaker) Handshake(reader io.Reader, writer WriteFlusher) error {
	c1, clientDigest, err := h.sendC0C1(writer)
	if err != nil {
		return err
	}
	s1, s2, err := readS0S1S2(reader)
	if err != nil {
		return err
	}

	var serverDigest []byte
	if h.Complex {
		if serverDigest, err = h.auth.findDigest(s1, serverFullKey, serverPartialKeyLength); err != nil {
			return err
		}
	}

	var c2 [handshakePacketSize]byte
	if serverDigest != nil {
		ok, err := h.auth.verifyC2S2(s2, serverFullKey, clientDigest)
		if err != nil {
			return err
		}
		if !ok {
			return ErrWrongS2Message
		}
		if err = rand.GenerateCryptoSafeRandomData(c2[:]); err != nil {
			return err
		}
		if err = h.auth.signC2S2(c2[:], clientFullKey, serverDigest); err != nil {
			return err
		}
	} else {
		if !bytes.Equal(c1, s2) {
			return ErrWrongS2Message
		}
		copy(c2[:], s1)
	}
	return send(writer, c2[:])
}

// sendC0C1 returns the C1 message that was sent and, for a complex handshake, its digest.
func (h *ClientHandshaker) sendC0C1(writer WriteFlusher) ([]byte, []byte, error) {
	var c0c1 [1 + handshakePacketSize]byte
	c0c1[0] = RtmpVersion3
	c1 := c0c1[1:]
	if err := generateRandomData(c1); err != nil {
		return nil, nil, err
	}

	var digest []byte
	if h.Complex {
		copy(c1[4:8], clientVersion[:])
		if err := h.auth.signC1S1(c1, clientFullKey, clientPartialKeyLength); err != nil {
			return nil, nil, err
		}
		offset := digestOffset(c1, digestBaseFirstHalf)
		digest = append([]byte(nil), c1[offset:offset+DigestLength]...)
	}
	if err := send(writer, c0c1[:]); err != nil {
		return nil, nil, err
	}
	return c1, digest, nil
}

// Returns s1 and s2
func readS0S1S2(reader io.Reader) ([]byte, []byte, error) {
	var s0s1s2 [1 + 2*handshakePacketSize]byte

	if _, err := io.ReadFull(reader, s0s1s2[:]); err != nil {
		return nil, nil, err
	}

	if s0s1s2[0] != RtmpVersion3 {
		return nil, nil, errors.Wrapf(ErrUnsupportedRTMPVersion, "version %d", s0s1s2[0])
	}

	return s0s1s2[1 : 1+handshakePacketSize], s0s1s2[1+handshakePacketSize:], nil
}

// If successful returns the C1 handshake data (random data sent by the client), it does not return c0 + c1.
func readC0C1(reader io.Reader) ([]byte, error) {
	var c0c1 [1 + handshakePacketSize]byte

	if _, err := io.ReadFull(reader, c0c1[:]); err != nil {
		return nil, err
	}

	if c0c1[0] != RtmpVersion3 {
		return nil, errors.Wrapf(ErrUnsupportedRTMPVersion, "version %d", c0c1[0])
	}

	return c0c1[1:], nil
}

// Returns the C2 message
func readC2(reader io.Reader) ([]byte, error) {
	var c2 [handshakePacketSize]byte
	if _, err := io.ReadFull(reader, c2[:]); err != nil {
		return nil, err
	}
	return c2[:], nil
}

// generateRandomData fills a C1 or S1 message: a zero timestamp, four zero bytes and random data.
func generateRandomData(p []byte) error {
	binary.BigEndian.PutUint32(p[0:4], 0)
	binary.BigEndian.PutUint32(p[4:8], 0)
	return rand.GenerateCryptoSafeRandomData(p[8:])
}

func send(writer WriteFlusher, b []byte) error {
	if _, err := writer.Write(b); err != nil {
		return err
	}
	return writer.Flush()
}

// digestOffset returns where the digest of a C1 or S1 starts, given the base of the half that holds it.
func digestOffset(p []byte, base int) int {
	offset := 0
	for i := 0; i < 4; i++ {
		offset += int(p[base+i])
	}
	return offset%digestOffsetModulo + base + 4
}

// signC1S1 stores the digest of p, keyed with the partial key, in the first half of p.
func (a *Authenticator) signC1S1(p []byte, fullKey []byte, partialKeyLength int) error {
	offset := digestOffset(p, digestBaseFirstHalf)
	digest, err := a.digestSkipping(p, offset, fullKey, partialKeyLength)
	if err != nil {
		return err
	}
	copy(p[offset:], digest)
	return nil
}

// findDigest looks for a valid digest in either half of a C1 or S1. It returns the digest found or nil if p
// isn't signed.
func (a *Authenticator) findDigest(p []byte, fullKey []byte, partialKeyLength int) ([]byte, error) {
	for _, base := range []int{digestBaseSecondHalf, digestBaseFirstHalf} {
		offset := digestOffset(p, base)
		digest, err := a.digestSkipping(p, offset, fullKey, partialKeyLength)
		if err != nil {
			return nil, err
		}
		if bytes.Equal(p[offset:offset+DigestLength], digest) {
			return digest, nil
		}
	}
	return nil, nil
}

// signatureC2S2 computes the signature of a C2 or S2 answering a peer whose C1 or S1 carried peerDigest.
func (a *Authenticator) signatureC2S2(p []byte, fullKey []byte, peerDigest []byte) ([]byte, error) {
	key, err := a.Digest(peerDigest, fullKey, 0)
	if err != nil {
		return nil, err
	}
	return a.Digest(p[:handshakeSignatureOffset], key, 0)
}

func (a *Authenticator) signC2S2(p []byte, fullKey []byte, peerDigest []byte) error {
	signature, err := a.signatureC2S2(p, fullKey, peerDigest)
	if err != nil {
		return err
	}
	copy(p[handshakeSignatureOffset:], signature)
	return nil
}

func (a *Authenticator) verifyC2S2(p []byte, fullKey []byte, peerDigest []byte) (bool, error) {
	signature, err := a.signatureC2S2(p, fullKey, peerDigest)
	if err != nil {
		return false, err
	}
	return bytes.Equal(p[handshakeSignatureOffset:], signature), nil
}
