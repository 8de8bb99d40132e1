package binary24

import "testing"

func TestBigEndian(t *testing.T) {
	tests := []struct {
		v    uint32
		wire []byte
	}{
		{0, []byte{0x00, 0x00, 0x00}},
		{0x0A, []byte{0x00, 0x00, 0x0A}},
		{0x123456, []byte{0x12, 0x34, 0x56}},
		{MaxUint24, []byte{0xFF, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		var b [3]byte
		BigEndian.PutUint24(b[:], tt.v)
		if string(b[:]) != string(tt.wire) {
			t.Errorf("PutUint24(%#x) = %x, want %x", tt.v, b, tt.wire)
		}
		if got := BigEndian.AppendUint24([]byte{0xEE}, tt.v); string(got[1:]) != string(tt.wire) || got[0] != 0xEE {
			t.Errorf("AppendUint24(%#x) = %x", tt.v, got)
		}
		if got := BigEndian.Uint24(tt.wire); got != tt.v {
			t.Errorf("Uint24(%x) = %#x, want %#x", tt.wire, got, tt.v)
		}
	}
}

func TestPutUint24DiscardsHighBits(t *testing.T) {
	var b [3]byte
	BigEndian.PutUint24(b[:], 0x01ABCDEF)
	if got := BigEndian.Uint24(b[:]); got != 0xABCDEF {
		t.Errorf("got %#x, want %#x", got, 0xABCDEF)
	}
}
