// If you are AI: This file implements AMF0 decoding for RTMP invoke bodies.
// Invoke bodies are a flat sequence of values: name, transaction id, object, args.

package amf0

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	ErrUnexpectedType = errors.New("unexpected AMF0 type")
	ErrInvalidData    = errors.New("invalid AMF0 data")
)

// Decode reads and decodes a single AMF0 value from the reader.
// Returns the decoded value and any error.
func Decode(r io.Reader) (Value, error) {
	var typeMarker byte
	if err := binary.Read(r, binary.BigEndian, &typeMarker); err != nil {
		return nil, err
	}

	switch typeMarker {
	case TypeNumber:
		return decodeNumber(r)
	case TypeBoolean:
		return decodeBoolean(r)
	case TypeString:
		return decodeString(r)
	case TypeLongString, TypeXMLDocument:
		return decodeLongString(r)
	case TypeNull, TypeUndefined:
		return nil, nil
	case TypeObject:
		return decodeObject(r)
	case TypeECMAArray:
		return decodeECMAArray(r)
	case TypeStrictArray:
		return decodeStrictArray(r)
	case TypeDate:
		return decodeDate(r)
	default:
		return nil, fmt.Errorf("%w: marker 0x%02x", ErrUnexpectedType, typeMarker)
	}
}

// DecodeAll decodes a flat sequence of AMF0 values until the body is
// exhausted. A truncated or malformed value fails the whole body; the
// caller treats that as one undecodable packet.
func DecodeAll(body []byte) (Array, error) {
	r := bytes.NewReader(body)
	vals := make(Array, 0, 4)
	for r.Len() > 0 {
		val, err := Decode(r)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: truncated value", ErrInvalidData)
			}
			return nil, err
		}
		vals = append(vals, val)
	}
	return vals, nil
}

// decodeNumber decodes an AMF0 number (double precision float64).
func decodeNumber(r io.Reader) (float64, error) {
	var num float64
	err := binary.Read(r, binary.BigEndian, &num)
	return num, err
}

// decodeBoolean decodes an AMF0 boolean.
func decodeBoolean(r io.Reader) (bool, error) {
	var b byte
	if err := binary.Read(r, binary.BigEndian, &b); err != nil {
		return false, err
	}
	return b != 0, nil
}

// decodeString decodes an AMF0 string.
func decodeString(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// decodeLongString decodes an AMF0 long string (32-bit length).
func decodeLongString(r io.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// decodeObject decodes an AMF0 object.
func decodeObject(r io.Reader) (Object, error) {
	obj := make(Object)
	for {
		var keyLen uint16
		if err := binary.Read(r, binary.BigEndian, &keyLen); err != nil {
			return nil, err
		}
		if keyLen == 0 {
			// Object end marker
			var endMarker byte
			if err := binary.Read(r, binary.BigEndian, &endMarker); err != nil {
				return nil, err
			}
			if endMarker != TypeObjectEnd {
				return nil, ErrInvalidData
			}
			break
		}
		keyBuf := make([]byte, keyLen)
		if _, err := io.ReadFull(r, keyBuf); err != nil {
			return nil, err
		}
		key := string(keyBuf)
		value, err := Decode(r)
		if err != nil {
			return nil, err
		}
		obj[key] = value
	}
	return obj, nil
}

// decodeECMAArray decodes an AMF0 ECMA array.
func decodeECMAArray(r io.Reader) (Object, error) {
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	// ECMA arrays are decoded as objects
	return decodeObject(r)
}

// decodeStrictArray decodes an AMF0 strict array.
func decodeStrictArray(r io.Reader) (Array, error) {
	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, err
	}
	arr := make(Array, 0, count)
	for i := uint32(0); i < count; i++ {
		val, err := Decode(r)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	return arr, nil
}

// decodeDate decodes an AMF0 date as milliseconds since epoch.
// The trailing timezone field is read and discarded.
func decodeDate(r io.Reader) (float64, error) {
	var ms float64
	if err := binary.Read(r, binary.BigEndian, &ms); err != nil {
		return 0, err
	}
	var tz int16
	if err := binary.Read(r, binary.BigEndian, &tz); err != nil {
		return 0, err
	}
	return ms, nil
}
