package encoding

import (
	"encoding/binary"
	"math"
)

type expected struct {
	b []byte
}

func (e *expected) u32(vals ...uint32) *expected {
	for _, v := range vals {
		e.b = binary.LittleEndian.AppendUint32(e.b, v)
	}

	return e
}

func (e *expected) i32(vals ...int32) *expected {
	for _, v := range vals {
		e.b = binary.LittleEndian.AppendUint32(e.b, uint32(v))
	}

	return e
}

func (e *expected) f32(vals ...float32) *expected {
	for _, v := range vals {
		e.b = binary.LittleEndian.AppendUint32(e.b, math.Float32bits(v))
	}

	return e
}

func (e *expected) f64(vals ...float64) *expected {
	for _, v := range vals {
		e.b = binary.LittleEndian.AppendUint64(e.b, math.Float64bits(v))
	}

	return e
}
