package rtmp

import (
	"bufio"
	"io"

	"github.com/torresjeff/rtmpchunk/config"
)

type WriteFlusher interface {
	io.Writer
	Flusher
}

type Flusher interface {
	Flush() error
}

// Writer buffers outgoing chunks. Nothing reaches the underlying stream until Flush is called.
type Writer struct {
	writer *bufio.Writer
}

func NewWriter(w io.Writer) (*Writer, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriterSize(w, config.BufioSize)
	}
	return &Writer{writer: bw}, nil
}

// Write writes the contents of p into the underlying bufio.Writer.
// It returns the number of bytes written.
// If n < len(p), it also returns an error explaining
// why the write is short.
func (w *Writer) Write(p []byte) (n int, err error) {
	return w.writer.Write(p)
}

// Flush writes any buffered data in the underlying bufio.Writer.
func (w *Writer) Flush() error {
	return w.writer.Flush()
}
