package main

import (
	"bufio"
	"io"
	"net"

	"github.com/pkg/errors"
	"github.com/torresjeff/rtmpchunk"
	"github.com/torresjeff/rtmpchunk/config"
	"go.uber.org/zap"
)

type listenCmd struct {
	Addr string `default:":1935" help:"Address to listen on."`
}

func (c *listenCmd) Run(g *globals) error {
	// Fail before accepting anything if the handshake digest can't be computed.
	auth, err := rtmp.NewAuthenticator()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return err
	}
	defer listener.Close()
	g.logger.Infow("listening", "addr", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			g.logger.Errorw("error accepting incoming connection", "error", err)
			continue
		}
		logger := g.logger.With("remote", conn.RemoteAddr().String())
		logger.Info("accepted incoming connection")

		go func(conn net.Conn) {
			defer conn.Close()
			if err := serve(conn, auth, g.cfg, logger); err != nil {
				logger.Errorw("connection ended with an error", "error", err)
				return
			}
			logger.Info("connection ended")
		}(conn)
	}
}

func serve(conn net.Conn, auth *rtmp.Authenticator, cfg config.Config, logger *zap.SugaredLogger) error {
	reader, err := rtmp.NewReader(bufio.NewReaderSize(conn, config.BufioSize))
	if err != nil {
		return err
	}
	writer, err := rtmp.NewWriter(bufio.NewWriterSize(conn, config.BufioSize))
	if err != nil {
		return err
	}
	handshaker, err := rtmp.NewServerHandshaker(auth)
	if err != nil {
		return err
	}

	ms := rtmp.NewMessageStream(logger, reader, writer, handshaker, cfg)
	if err = ms.Initialize(); err != nil {
		return errors.Wrap(err, "handshake")
	}
	if err = ms.AnnounceSettings(); err != nil {
		return err
	}
	for {
		p, err := ms.NextPacket()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		logPacket(logger, p)
	}
}
