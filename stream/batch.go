package stream

import (
	"fmt"

	"github.com/arloliu/cbf/errs"
	"github.com/arloliu/cbf/format"
)

// Batch is the collection of sequences one stream contributes to a chunk.
//
// It is a closed set of variants: Float32Batch and Float64Batch. The variant
// must match the data type of the stream it is supplied for.
type Batch interface {
	// DataType returns the element type of every sequence in the batch.
	DataType() format.DataType
	// Len returns the number of sequences.
	Len() int
	// SequenceLen returns the raw element count of sequence i.
	SequenceLen(i int) int

	batch()
}

// Float32Batch holds sequences of single precision values.
type Float32Batch [][]float32

// Float64Batch holds sequences of double precision values.
type Float64Batch [][]float64

var (
	_ Batch = Float32Batch(nil)
	_ Batch = Float64Batch(nil)
)

func (Float32Batch) DataType() format.DataType { return format.Float32 }
func (b Float32Batch) Len() int                { return len(b) }
func (b Float32Batch) SequenceLen(i int) int   { return len(b[i]) }
func (Float32Batch) batch()                    {}

func (Float64Batch) DataType() format.DataType { return format.Float64 }
func (b Float64Batch) Len() int                { return len(b) }
func (b Float64Batch) SequenceLen(i int) int   { return len(b[i]) }
func (Float64Batch) batch()                    {}

// CheckBatch verifies that b can be written for stream d.
//
// Returns:
//   - error: ErrSequenceTypeMismatch if b is nil or its variant differs from d's data type
func CheckBatch(d *Descriptor, b Batch) error {
	if b == nil {
		return fmt.Errorf("%w: stream %q got nil batch", errs.ErrSequenceTypeMismatch, d.name)
	}

	if b.DataType() != d.dataType {
		return fmt.Errorf("%w: stream %q is %s, got %s sequences",
			errs.ErrSequenceTypeMismatch, d.name, d.dataType, b.DataType())
	}

	return nil
}
