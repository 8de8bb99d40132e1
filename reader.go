package rtmp

import (
	"bufio"
	"io"

	"github.com/torresjeff/rtmpchunk/config"
)

// Reader counts every byte consumed from the underlying stream. The count drives acknowledgements.
type Reader struct {
	reader *bufio.Reader
	n      uint64
}

type ByteCounter interface {
	ReadBytes() uint64
}

// ReadByteReaderCounter is the interface that groups io.Reader, io.ByteReader, and ByteCounter interfaces.
type ReadByteReaderCounter interface {
	io.Reader
	io.ByteReader
	ByteCounter
}

// NewReader wraps r. If r is already a *bufio.Reader it's used as is, otherwise it gets buffered.
func NewReader(r io.Reader) (*Reader, error) {
	if r == nil {
		return nil, ErrNilReader
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, config.BufioSize)
	}
	return &Reader{reader: br}, nil
}

// Read reads exactly len(p) bytes from the underlying bufio.Reader into p.
// It returns the number of bytes copied and an error if fewer bytes were read.
// The error is EOF only if no bytes were read.
// If an EOF happens after reading some but not all the bytes,
// Read returns ErrUnexpectedEOF.
// On return, n == len(buf) if and only if err == nil.
func (r *Reader) Read(p []byte) (n int, err error) {
	n, err = io.ReadFull(r.reader, p)
	r.n += uint64(n)
	return n, err
}

// ReadByte reads and returns a single byte from the underlying bufio.Reader.
// If no byte is available, returns an error.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.reader.ReadByte()
	if err == nil {
		r.n++
	}
	return b, err
}

// ReadBytes returns the number of bytes read so far since the instantiation of the Reader.
func (r *Reader) ReadBytes() uint64 {
	return r.n
}
