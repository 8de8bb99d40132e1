package rand

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateCryptoSafeRandomData(t *testing.T) {
	a := make([]byte, 1528)
	b := make([]byte, 1528)
	require.NoError(t, GenerateCryptoSafeRandomData(a))
	require.NoError(t, GenerateCryptoSafeRandomData(b))
	require.False(t, bytes.Equal(a, b))
	require.False(t, bytes.Equal(a, make([]byte, len(a))))
}

func TestGenerateUuid(t *testing.T) {
	id := GenerateUuid()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	require.Len(t, id, 36)
	require.NotEqual(t, id, GenerateUuid())
}
