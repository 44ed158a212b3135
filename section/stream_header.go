package section

import (
	"github.com/arloliu/cbf/endian"
	"github.com/arloliu/cbf/format"
	"github.com/arloliu/cbf/stream"
)

// StreamHeader is the stream table record of one stream.
type StreamHeader struct {
	Name      string
	DataType  format.DataType
	Dimension uint32
	Sparse    bool
}

// NewStreamHeader creates the stream table record of a descriptor.
func NewStreamHeader(d *stream.Descriptor) StreamHeader {
	return StreamHeader{
		Name:      d.Name(),
		DataType:  d.DataType(),
		Dimension: d.Dimension(),
		Sparse:    d.Sparse(),
	}
}

// Size returns the encoded size of the record in bytes.
func (h *StreamHeader) Size() int {
	return StreamHeaderFixedSize + len(h.Name)
}

// AppendTo appends the record to dst.
func (h *StreamHeader) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	flag := DenseFlag
	if h.Sparse {
		flag = SparseFlag
	}

	dst = append(dst, flag)
	dst = engine.AppendUint32(dst, uint32(len(h.Name))) //nolint: gosec
	dst = append(dst, h.Name...)
	dst = append(dst, uint8(h.DataType))

	return engine.AppendUint32(dst, h.Dimension)
}
