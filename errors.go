package rtmp

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrNilWriter = errors.New("Expected a non-nil writer, but got a nil value")
var ErrNilReader = errors.New("Expected a non-nil reader, but got a nil value")

// Protocol violations. These are always returned wrapped in a *ProtocolError and are fatal for the connection.
var (
	ErrUnsupportedMessageType = errors.New("unsupported message type")
	ErrMessageTooLarge        = errors.New("declared message length exceeds the configured maximum")
	ErrNoPreviousHeader       = errors.New("received chunk type that depends on a previous chunk, but no previous chunk was found")
	ErrUnexpectedChunkType    = errors.New("received a new message header while a message is still being assembled")
	ErrBodyOverflow           = errors.New("chunk data exceeds the declared message length")
	ErrTruncatedBody          = errors.New("message body is shorter than its layout requires")
	ErrMalformedBody          = errors.New("message body doesn't match its layout")
	ErrInvalidChunkSize       = errors.New("invalid chunk size")
	ErrInvalidChunkStreamID   = errors.New("invalid chunk stream id")
)

// ErrDigestUnavailable is returned when the hash primitive behind the handshake digest cannot be instantiated.
var ErrDigestUnavailable = errors.New("handshake digest: hash function is unavailable")

// ProtocolError reports malformed input from the peer. The connection that produced it must be closed,
// decoding cannot resume after a ProtocolError.
type ProtocolError struct {
	// Op names the decoding step that failed, e.g. "decode header".
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("rtmp: %s: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Cause lets errors.Cause reach the underlying sentinel.
func (e *ProtocolError) Cause() error {
	return e.Err
}

func protocolError(op string, err error) error {
	return &ProtocolError{Op: op, Err: err}
}

func protocolErrorf(op string, err error, format string, args ...interface{}) error {
	return &ProtocolError{Op: op, Err: errors.Wrapf(err, format, args...)}
}

// IsProtocolError reports whether err (or anything it wraps) is a *ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
