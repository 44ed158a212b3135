// Package endian provides the byte order engine used by the cbf encoders.
//
// The CNTK binary container is always little-endian. The EndianEngine interface
// combines binary.ByteOrder and binary.AppendByteOrder so encoders can either
// patch fixed-size slots in place (PutUint32) or append to a growing buffer
// (AppendUint32) through one value.
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint64(buf, section.Magic)
//
// All functions in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"math"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// AppendFloat32 appends the IEEE 754 bits of v using the given engine.
func AppendFloat32(engine EndianEngine, dst []byte, v float32) []byte {
	return engine.AppendUint32(dst, math.Float32bits(v))
}

// AppendFloat64 appends the IEEE 754 bits of v using the given engine.
func AppendFloat64(engine EndianEngine, dst []byte, v float64) []byte {
	return engine.AppendUint64(dst, math.Float64bits(v))
}
