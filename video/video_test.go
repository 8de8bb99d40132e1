package video

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlags(t *testing.T) {
	require.Equal(t, byte(0x17), Flags(KeyFrame, H264))
	require.Equal(t, byte(0x27), Flags(InterFrame, H264))
}

func TestString(t *testing.T) {
	require.Equal(t, "keyframe", KeyFrame.String())
	require.Equal(t, "H264", H264.String())
	require.Equal(t, "unknown", Codec(12).String())
	require.Equal(t, "unknown", FrameType(0).String())
}
