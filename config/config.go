package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultPort = "1935"

const BufioSize = 1024 * 64

// DefaultChunkSize is the chunk size both peers use until a Set Chunk Size message says otherwise.
const DefaultChunkSize uint32 = 128

// DefaultMaxMessageLength bounds the body length accepted from a peer before a reassembly buffer is allocated.
const DefaultMaxMessageLength uint32 = 8 * 1024 * 1024

const DefaultWindowAckSize uint32 = 2500000

// DefaultOutChunkSize is the chunk size announced to the peer after the handshake.
const DefaultOutChunkSize uint32 = 4096

const DefaultLogLevel = "info"

const (
	maxChunkSize     = 0x7FFFFFFF
	maxMessageLength = 0xFFFFFF
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the tunables of the chunk stream engine.
type Config struct {
	// ChunkSize is the outbound chunk size announced to the peer.
	ChunkSize uint32 `yaml:"chunkSize"`
	// MaxMessageLength is the largest message body accepted from the peer.
	MaxMessageLength uint32 `yaml:"maxMessageLength"`
	// WindowAckSize is the acknowledgement window announced to the peer.
	WindowAckSize uint32 `yaml:"windowAckSize"`
	LogLevel      string `yaml:"logLevel"`
	Debug         bool   `yaml:"debug"`
}

func Default() Config {
	return Config{
		ChunkSize:        DefaultOutChunkSize,
		MaxMessageLength: DefaultMaxMessageLength,
		WindowAckSize:    DefaultWindowAckSize,
		LogLevel:         DefaultLogLevel,
	}
}

// Load reads a YAML configuration file. Fields missing from the file keep their default values.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	cfg, err := Parse(b)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding yaml")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ChunkSize < 1 || c.ChunkSize > maxChunkSize {
		return errors.Wrapf(ErrInvalidConfig, "chunkSize %d out of range [1, %d]", c.ChunkSize, maxChunkSize)
	}
	if c.MaxMessageLength < 1 || c.MaxMessageLength > maxMessageLength {
		return errors.Wrapf(ErrInvalidConfig, "maxMessageLength %d out of range [1, %d]", c.MaxMessageLength, maxMessageLength)
	}
	if c.WindowAckSize == 0 {
		return errors.Wrap(ErrInvalidConfig, "windowAckSize must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown logLevel %q", c.LogLevel)
	}
	return nil
}
