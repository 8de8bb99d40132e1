package amf0

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/pkg/errors"
)

// ReadString decodes the String or Long String value at the start of b. It returns the string and the number of
// bytes it occupied, marker included.
func ReadString(b []byte) (string, int, error) {
	if len(b) < 1 {
		return "", 0, ErrShortBuffer
	}
	switch b[0] {
	case TypeString:
		s, n, err := readUTF8(b[1:])
		return s, n + 1, err
	case TypeLongString:
		s, n, err := readLongUTF8(b[1:])
		return s, n + 1, err
	default:
		return "", 0, errors.Wrapf(ErrNotString, "marker 0x%02x", b[0])
	}
}

// Decode returns the first value encoded in b and the number of bytes it occupied.
// Possible return types: float64, bool, string, map[string]interface{}, nil, amf0.ECMAArray, []interface{}, time.Time.
func Decode(b []byte) (interface{}, int, error) {
	if len(b) < 1 {
		return nil, 0, ErrShortBuffer
	}
	body := b[1:]
	switch b[0] {
	case TypeNumber:
		if len(body) < 8 {
			return nil, 0, ErrShortBuffer
		}
		return math.Float64frombits(binary.BigEndian.Uint64(body)), 9, nil
	case TypeBoolean:
		if len(body) < 1 {
			return nil, 0, ErrShortBuffer
		}
		return body[0] != 0, 2, nil
	case TypeString, TypeLongString:
		return ReadString(b)
	case TypeObject:
		m, n, err := decodeProperties(body)
		return m, n + 1, err
	case TypeNull, TypeUndefined:
		return nil, 1, nil
	case TypeECMAArray:
		// The associative count is only a hint, the array ends with an object end marker like an object does.
		if len(body) < 4 {
			return nil, 0, ErrShortBuffer
		}
		m, n, err := decodeProperties(body[4:])
		return ECMAArray(m), n + 5, err
	case TypeStrictArray:
		return decodeStrictArray(body)
	case TypeDate:
		// 8 bytes of milliseconds since the epoch followed by a 2 byte time zone that should be ignored.
		if len(body) < 10 {
			return nil, 0, ErrShortBuffer
		}
		ms := math.Float64frombits(binary.BigEndian.Uint64(body))
		return time.Unix(0, int64(ms)*int64(time.Millisecond)).UTC(), 11, nil
	default:
		return nil, 0, errors.Wrapf(ErrUnsupportedType, "marker 0x%02x", b[0])
	}
}

// DecodeAll decodes consecutive values until b is exhausted.
func DecodeAll(b []byte) ([]interface{}, error) {
	var values []interface{}
	for len(b) > 0 {
		v, n, err := Decode(b)
		if err != nil {
			return values, err
		}
		values = append(values, v)
		b = b[n:]
	}
	return values, nil
}

func isEndOfObject(b []byte) bool {
	return len(b) >= 3 && b[0] == 0x00 && b[1] == 0x00 && b[2] == TypeObjectEnd
}

// decodeProperties decodes key/value pairs up to and including the object end marker.
func decodeProperties(b []byte) (map[string]interface{}, int, error) {
	m := make(map[string]interface{})
	off := 0
	for {
		if isEndOfObject(b[off:]) {
			return m, off + 3, nil
		}
		// Keys are always short strings without the type marker
		key, n, err := readUTF8(b[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n
		val, n, err := Decode(b[off:])
		if err != nil {
			return nil, 0, errors.Wrapf(err, "property %q", key)
		}
		off += n
		m[key] = val
	}
}

func decodeStrictArray(b []byte) (interface{}, int, error) {
	if len(b) < 4 {
		return nil, 0, ErrShortBuffer
	}
	count := binary.BigEndian.Uint32(b)
	off := 4
	values := make([]interface{}, 0)
	for i := uint32(0); i < count; i++ {
		v, n, err := Decode(b[off:])
		if err != nil {
			return nil, 0, err
		}
		values = append(values, v)
		off += n
	}
	return values, off + 1, nil
}

func readUTF8(b []byte) (string, int, error) {
	if len(b) < 2 {
		return "", 0, ErrShortBuffer
	}
	length := int(binary.BigEndian.Uint16(b))
	if len(b) < 2+length {
		return "", 0, ErrShortBuffer
	}
	return string(b[2 : 2+length]), 2 + length, nil
}

func readLongUTF8(b []byte) (string, int, error) {
	if len(b) < 4 {
		return "", 0, ErrShortBuffer
	}
	length := uint64(binary.BigEndian.Uint32(b))
	if uint64(len(b)) < 4+length {
		return "", 0, ErrShortBuffer
	}
	return string(b[4 : 4+length]), 4 + int(length), nil
}
