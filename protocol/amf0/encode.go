// If you are AI: This file implements AMF0 encoding for RTMP invoke bodies.
// An invoke body is a flat concatenation of encoded values, not an array.

package amf0

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Encode writes an AMF0 value to the writer.
func Encode(w io.Writer, val Value) error {
	switch v := val.(type) {
	case float64:
		return encodeNumber(w, v)
	case int:
		return encodeNumber(w, float64(v))
	case uint32:
		return encodeNumber(w, float64(v))
	case bool:
		return encodeBoolean(w, v)
	case string:
		return encodeString(w, v)
	case nil:
		return encodeNull(w)
	case Object:
		return encodeObject(w, v)
	case map[string]Value:
		return encodeObject(w, Object(v))
	case Array:
		return encodeArray(w, v)
	case []Value:
		return encodeArray(w, Array(v))
	default:
		return fmt.Errorf("%w: %T", ErrUnexpectedType, val)
	}
}

// EncodeAll encodes a sequence of values into one flat byte slice.
// This is the wire form of an RTMP invoke body.
func EncodeAll(vals ...Value) ([]byte, error) {
	var buf bytes.Buffer
	for _, val := range vals {
		if err := Encode(&buf, val); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// encodeNumber encodes an AMF0 number.
func encodeNumber(w io.Writer, num float64) error {
	if err := binary.Write(w, binary.BigEndian, byte(TypeNumber)); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, num)
}

// encodeBoolean encodes an AMF0 boolean.
func encodeBoolean(w io.Writer, b bool) error {
	if err := binary.Write(w, binary.BigEndian, byte(TypeBoolean)); err != nil {
		return err
	}
	var val byte
	if b {
		val = 1
	}
	return binary.Write(w, binary.BigEndian, val)
}

// encodeString encodes an AMF0 string, switching to the long string
// form when the value does not fit a 16-bit length.
func encodeString(w io.Writer, s string) error {
	if len(s) > math.MaxUint16 {
		if err := binary.Write(w, binary.BigEndian, byte(TypeLongString)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint32(len(s))); err != nil {
			return err
		}
		_, err := w.Write([]byte(s))
		return err
	}
	if err := binary.Write(w, binary.BigEndian, byte(TypeString)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

// encodeNull encodes an AMF0 null.
func encodeNull(w io.Writer) error {
	return binary.Write(w, binary.BigEndian, byte(TypeNull))
}

// encodeObject encodes an AMF0 object.
func encodeObject(w io.Writer, obj Object) error {
	if err := binary.Write(w, binary.BigEndian, byte(TypeObject)); err != nil {
		return err
	}
	for key, val := range obj {
		keyLen := uint16(len(key))
		if err := binary.Write(w, binary.BigEndian, keyLen); err != nil {
			return err
		}
		if _, err := w.Write([]byte(key)); err != nil {
			return err
		}
		if err := Encode(w, val); err != nil {
			return err
		}
	}
	// Object end marker
	if err := binary.Write(w, binary.BigEndian, uint16(0)); err != nil {
		return err
	}
	return binary.Write(w, binary.BigEndian, byte(TypeObjectEnd))
}

// encodeArray encodes an AMF0 strict array.
func encodeArray(w io.Writer, arr Array) error {
	if err := binary.Write(w, binary.BigEndian, byte(TypeStrictArray)); err != nil {
		return err
	}
	count := uint32(len(arr))
	if err := binary.Write(w, binary.BigEndian, count); err != nil {
		return err
	}
	for _, val := range arr {
		if err := Encode(w, val); err != nil {
			return err
		}
	}
	return nil
}
