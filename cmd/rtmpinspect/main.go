// Command rtmpinspect decodes RTMP chunk streams and logs every packet they carry, either from a capture file or
// from live connections.
package main

import (
	"github.com/alecthomas/kong"
	"github.com/torresjeff/rtmpchunk/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type globals struct {
	cfg    config.Config
	logger *zap.SugaredLogger
}

var cli struct {
	Config string `help:"Path to a YAML config file." type:"existingfile"`
	Debug  bool   `help:"Log every chunk header with a development logger."`

	File   fileCmd   `cmd:"" help:"Decode a captured chunk stream."`
	Listen listenCmd `cmd:"" help:"Accept connections, run the handshake and log every packet received."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("rtmpinspect"),
		kong.Description("Inspect RTMP chunk streams."),
		kong.UsageOnError())

	cfg := config.Default()
	if cli.Config != "" {
		var err error
		cfg, err = config.Load(cli.Config)
		ctx.FatalIfErrorf(err)
	}
	if cli.Debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}

	logger, err := newLogger(cfg)
	ctx.FatalIfErrorf(err)
	defer logger.Sync()

	err = ctx.Run(&globals{cfg: cfg, logger: logger.Sugar()})
	ctx.FatalIfErrorf(err)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.Debug {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
