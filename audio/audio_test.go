package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlags(t *testing.T) {
	// AAC, 44 kHz, 16 bit, stereo is what every encoder sends.
	require.Equal(t, byte(0xAF), Flags(AAC, Rate44KHz, Size16Bit, Stereo))
	require.Equal(t, byte(0x2E), Flags(MP3, Rate44KHz, Size16Bit, Mono))
}

func TestFormatString(t *testing.T) {
	require.Equal(t, "AAC", AAC.String())
	require.Equal(t, "unknown", Format(9).String())
}

func TestSampleRateHz(t *testing.T) {
	tests := []struct {
		rate SampleRate
		hz   int
	}{
		{Rate5p5KHz, 5512},
		{Rate11KHz, 11025},
		{Rate22KHz, 22050},
		{Rate44KHz, 44100},
	}
	for _, tt := range tests {
		require.Equal(t, tt.hz, tt.rate.Hz())
	}
}
