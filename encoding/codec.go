package encoding

import (
	"github.com/arloliu/cbf/endian"
	"github.com/arloliu/cbf/format"
)

// Float is the set of numeric kinds a stream may carry.
type Float interface {
	~float32 | ~float64
}

// ValueCodec provides the fixed-width byte encoding and the zero test of one numeric kind.
type ValueCodec[T Float] interface {
	// Size returns the encoded width of a single value in bytes.
	Size() int
	// Append appends the encoded value to dst and returns the extended slice.
	Append(dst []byte, v T) []byte
	// IsZero reports whether v equals the zero value of the kind.
	IsZero(v T) bool
}

// Float32Codec encodes float32 values as 4-byte IEEE 754 words.
type Float32Codec struct {
	engine endian.EndianEngine
}

var _ ValueCodec[float32] = Float32Codec{}

// NewFloat32Codec creates a float32 codec using the given byte order.
func NewFloat32Codec(engine endian.EndianEngine) Float32Codec {
	return Float32Codec{engine: engine}
}

func (c Float32Codec) Size() int { return format.Float32.Size() }

func (c Float32Codec) Append(dst []byte, v float32) []byte {
	return endian.AppendFloat32(c.engine, dst, v)
}

// IsZero uses exact comparison, so both +0 and -0 are zero and NaN is not.
func (c Float32Codec) IsZero(v float32) bool { return v == 0 }

// Float64Codec encodes float64 values as 8-byte IEEE 754 words.
type Float64Codec struct {
	engine endian.EndianEngine
}

var _ ValueCodec[float64] = Float64Codec{}

// NewFloat64Codec creates a float64 codec using the given byte order.
func NewFloat64Codec(engine endian.EndianEngine) Float64Codec {
	return Float64Codec{engine: engine}
}

func (c Float64Codec) Size() int { return format.Float64.Size() }

func (c Float64Codec) Append(dst []byte, v float64) []byte {
	return endian.AppendFloat64(c.engine, dst, v)
}

// IsZero uses exact comparison, so both +0 and -0 are zero and NaN is not.
func (c Float64Codec) IsZero(v float64) bool { return v == 0 }
