package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/torresjeff/rtmpchunk"
)

// A capture of either side of a connection starts with 1 + 2*1536 handshake bytes: C0 C1 C2 or S0 S1 S2.
const handshakeLength = 1 + 2*1536

type fileCmd struct {
	Path          string `arg:"" type:"existingfile" help:"Capture of one direction of a connection."`
	SkipHandshake bool   `help:"Skip the handshake at the start of the capture."`
}

func (c *fileCmd) Run(g *globals) error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader, err := rtmp.NewReader(f)
	if err != nil {
		return err
	}
	if c.SkipHandshake {
		if _, err = io.CopyN(io.Discard, reader, handshakeLength); err != nil {
			return errors.Wrap(err, "skipping handshake")
		}
	}

	logger := g.logger.With("file", c.Path)
	d := rtmp.NewDecoder(reader, rtmp.NewSessionStateFromConfig(g.cfg), logger)
	packets := 0
	for {
		p, err := d.ReadPacket()
		if err == io.EOF {
			logger.Infow("end of capture", "packets", packets, "bytesRead", reader.ReadBytes())
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "at byte %d", reader.ReadBytes())
		}
		if p != nil {
			packets++
			logPacket(logger, p)
		}
	}
}
