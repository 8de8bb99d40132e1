package rtmp

import (
	"crypto"
	"crypto/hmac"
	_ "crypto/sha256" // registers crypto.SHA256
	"hash"

	"github.com/pkg/errors"
)

// DigestLength is the size of the HMAC-SHA256 digests exchanged during the handshake.
const DigestLength = 32

// Authenticator computes the keyed digests used to sign and verify handshake packets.
type Authenticator struct {
	hash crypto.Hash
}

// NewAuthenticator returns an HMAC-SHA256 authenticator. It fails with ErrDigestUnavailable when SHA-256 isn't
// linked into the binary, so that no handshake is attempted without a working digest.
func NewAuthenticator() (*Authenticator, error) {
	return newAuthenticator(crypto.SHA256)
}

func newAuthenticator(h crypto.Hash) (*Authenticator, error) {
	if !h.Available() {
		return nil, errors.Wrapf(ErrDigestUnavailable, "hash %d", uint(h))
	}
	return &Authenticator{hash: h}, nil
}

// Digest computes the keyed hash of input. If keyLength is positive only the first keyLength bytes of key are
// used, which is how the handshake picks the partial keys out of the full ones.
func (a *Authenticator) Digest(input []byte, key []byte, keyLength int) ([]byte, error) {
	mac, err := a.newMAC(key, keyLength)
	if err != nil {
		return nil, err
	}
	mac.Write(input)
	return mac.Sum(nil), nil
}

// digestSkipping computes the keyed hash of p leaving out the DigestLength bytes that start at gap, which is
// where the digest itself is stored in C1 and S1.
func (a *Authenticator) digestSkipping(p []byte, gap int, key []byte, keyLength int) ([]byte, error) {
	if gap < 0 || gap+DigestLength > len(p) {
		return nil, errors.Errorf("handshake digest: offset %d out of range for %d bytes", gap, len(p))
	}
	mac, err := a.newMAC(key, keyLength)
	if err != nil {
		return nil, err
	}
	mac.Write(p[:gap])
	mac.Write(p[gap+DigestLength:])
	return mac.Sum(nil), nil
}

func (a *Authenticator) newMAC(key []byte, keyLength int) (hash.Hash, error) {
	if keyLength > 0 {
		if keyLength > len(key) {
			return nil, errors.Errorf("handshake digest: key length %d exceeds key of %d bytes", keyLength, len(key))
		}
		key = key[:keyLength]
	}
	return hmac.New(a.hash.New, key), nil
}
