package amf0

import (
	"encoding/binary"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// Encode returns the AMF0 representation of v.
func Encode(v interface{}) ([]byte, error) {
	return appendValue(nil, v)
}

// EncodeAll encodes every value in order, the way command and data message bodies are laid out.
func EncodeAll(values ...interface{}) ([]byte, error) {
	var b []byte
	var err error
	for _, v := range values {
		if b, err = appendValue(b, v); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// AppendString appends s with its String (or Long String) marker.
func AppendString(b []byte, s string) []byte {
	if len(s) <= maxShortStringLength {
		b = append(b, TypeString)
		return appendUTF8(b, s)
	}
	b = append(b, TypeLongString)
	b = binary.BigEndian.AppendUint32(b, uint32(len(s)))
	return append(b, s...)
}

func appendValue(b []byte, v interface{}) ([]byte, error) {
	switch v := v.(type) {
	case float64:
		return appendNumber(b, v), nil
	case int:
		return appendNumber(b, float64(v)), nil
	case uint32:
		return appendNumber(b, float64(v)), nil
	case bool:
		if v {
			return append(b, TypeBoolean, 1), nil
		}
		return append(b, TypeBoolean, 0), nil
	case string:
		return AppendString(b, v), nil
	case nil:
		return append(b, TypeNull), nil
	case map[string]interface{}:
		b = append(b, TypeObject)
		return appendProperties(b, v)
	case ECMAArray:
		b = append(b, TypeECMAArray)
		b = binary.BigEndian.AppendUint32(b, uint32(len(v)))
		return appendProperties(b, v)
	case []interface{}:
		b = append(b, TypeStrictArray)
		b = binary.BigEndian.AppendUint32(b, uint32(len(v)))
		var err error
		for _, e := range v {
			if b, err = appendValue(b, e); err != nil {
				return nil, err
			}
		}
		return b, nil
	case time.Time:
		b = append(b, TypeDate)
		b = binary.BigEndian.AppendUint64(b, math.Float64bits(float64(v.UnixNano()/int64(time.Millisecond))))
		// Time zone, should stay 0
		return append(b, 0, 0), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "cannot encode type %T", v)
	}
}

// appendProperties writes the key/value pairs sorted by key, followed by the object end marker.
func appendProperties(b []byte, m map[string]interface{}) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var err error
	for _, k := range keys {
		// keys don't carry the TypeString marker
		b = appendUTF8(b, k)
		if b, err = appendValue(b, m[k]); err != nil {
			return nil, errors.Wrapf(err, "property %q", k)
		}
	}
	return append(b, 0x00, 0x00, TypeObjectEnd), nil
}

func appendUTF8(b []byte, s string) []byte {
	b = binary.BigEndian.AppendUint16(b, uint16(len(s)))
	return append(b, s...)
}

func appendNumber(b []byte, f float64) []byte {
	b = append(b, TypeNumber)
	return binary.BigEndian.AppendUint64(b, math.Float64bits(f))
}
