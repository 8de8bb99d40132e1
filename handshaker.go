package rtmp

import "io"

// Handshaker exchanges the C0/C1/C2 and S0/S1/S2 packets that open a connection. It must run to completion
// before the first chunk is read or written.
type Handshaker interface {
	Handshake(reader io.Reader, writer WriteFlusher) error
}
