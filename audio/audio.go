// Package audio holds the fields packed into the type-flag byte that starts every audio message.
package audio

// As defined in the FLV spec: https://www.adobe.com/content/dam/acom/en/devnet/flv/video_file_format_spec_v10_1.pdf

type Format uint8

const (
	LinearPCMPlatformEndian Format = 0
	ADPCM                   Format = 1
	MP3                     Format = 2
	LinearPCMLittleEndian   Format = 3
	Nellymoser16KHzMono     Format = 4
	Nellymoser8KHzMono      Format = 5
	Nellymoser              Format = 6
	G711AlawLogPCM          Format = 7
	G711MulawLogPCM         Format = 8
	AAC                     Format = 10
	Speex                   Format = 11
	MP38KHz                 Format = 14
	DeviceSpecificSound     Format = 15
)

var formatNames = map[Format]string{
	LinearPCMPlatformEndian: "PCM",
	ADPCM:                   "ADPCM",
	MP3:                     "MP3",
	LinearPCMLittleEndian:   "PCM-LE",
	Nellymoser16KHzMono:     "Nellymoser-16kHz",
	Nellymoser8KHzMono:      "Nellymoser-8kHz",
	Nellymoser:              "Nellymoser",
	G711AlawLogPCM:          "G711-alaw",
	G711MulawLogPCM:         "G711-mulaw",
	AAC:                     "AAC",
	Speex:                   "Speex",
	MP38KHz:                 "MP3-8kHz",
	DeviceSpecificSound:     "device-specific",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

type SampleRate uint8

const (
	Rate5p5KHz SampleRate = 0
	Rate11KHz  SampleRate = 1
	Rate22KHz  SampleRate = 2
	Rate44KHz  SampleRate = 3
)

// Hz returns the sampling rate in hertz.
func (r SampleRate) Hz() int {
	switch r {
	case Rate5p5KHz:
		return 5512
	case Rate11KHz:
		return 11025
	case Rate22KHz:
		return 22050
	default:
		return 44100
	}
}

type SampleSize uint8

const (
	Size8Bit  SampleSize = 0
	Size16Bit SampleSize = 1
)

type Channel uint8

const (
	Mono   Channel = 0
	Stereo Channel = 1
)

type AACPacketType uint8

const (
	AACSequenceHeader AACPacketType = 0
	AACRaw            AACPacketType = 1
)

// Flags packs the sound format, rate, size and channel layout into a type-flag byte.
func Flags(format Format, rate SampleRate, size SampleSize, channels Channel) byte {
	return byte(format&0x0F)<<4 | byte(rate&0x03)<<2 | byte(size&1)<<1 | byte(channels&1)
}
