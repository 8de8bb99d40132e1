// Package rand produces the random material of a connection: handshake filler and session identifiers.
package rand

import (
	cryptoRand "crypto/rand"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// GenerateCryptoSafeRandomData fills b with cryptographically-safe random data.
func GenerateCryptoSafeRandomData(b []byte) error {
	if _, err := cryptoRand.Read(b); err != nil {
		return errors.Wrap(err, "reading random data")
	}
	return nil
}

// GenerateUuid returns a UUID in string format (including hyphens).
func GenerateUuid() string {
	return uuid.NewString()
}
