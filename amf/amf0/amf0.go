// Package amf0 frames and decodes AMF0 values. The chunk stream engine only needs it to locate the name string
// at the start of Command and Data messages, the value decoder is used by tooling that presents those messages.
package amf0

import "github.com/pkg/errors"

type ECMAArray map[string]interface{}
type ObjectEnd struct{}

const (
	TypeNumber      byte = 0x00
	TypeBoolean     byte = 0x01
	TypeString      byte = 0x02
	TypeObject      byte = 0x03
	TypeMovieClip   byte = 0x04 // reserved, not supported
	TypeNull        byte = 0x05
	TypeUndefined   byte = 0x06
	TypeReference   byte = 0x07
	TypeECMAArray   byte = 0x08
	TypeObjectEnd   byte = 0x09
	TypeStrictArray byte = 0x0A
	TypeDate        byte = 0x0B
	TypeLongString  byte = 0x0C
	TypeUnsupported byte = 0x0D
	TypeRecordSet   byte = 0x0E // reserved, not supported
	TypeXMLDocument byte = 0x0F
	TypeTypedObject byte = 0x10
)

// Strings up to this length use the String marker, longer ones use Long String.
const maxShortStringLength = 0xFFFF

var (
	ErrShortBuffer     = errors.New("amf0: buffer too short for value")
	ErrUnsupportedType = errors.New("amf0: unsupported type")
	ErrNotString       = errors.New("amf0: value is not a string")
)
