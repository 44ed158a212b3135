package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/cbf/endian"
	"github.com/arloliu/cbf/errs"
)

// DenseEncoder writes every raw value of every sequence, prefixed by the sequence's sample count.
//
// The encoder is stateless and safe for concurrent use.
type DenseEncoder[T Float] struct {
	codec     ValueCodec[T]
	engine    endian.EndianEngine
	dimension int
}

// NewDenseEncoder creates a dense encoder.
//
// Parameters:
//   - codec: Numeric kind of the stream values
//   - engine: Byte order of the sample count prefix (little-endian for CBF)
//   - dimension: Values per sample (must be positive)
//
// Returns:
//   - *DenseEncoder[T]: The encoder
//   - error: ErrInvalidDimension if dimension is zero
func NewDenseEncoder[T Float](codec ValueCodec[T], engine endian.EndianEngine, dimension uint32) (*DenseEncoder[T], error) {
	if dimension == 0 {
		return nil, errs.ErrInvalidDimension
	}

	return &DenseEncoder[T]{codec: codec, engine: engine, dimension: int(dimension)}, nil
}

// MaxEncodedSize returns the exact encoded size of seqs in bytes.
func (e *DenseEncoder[T]) MaxEncodedSize(seqs [][]T) int {
	size := 0
	for _, seq := range seqs {
		size += 4 + len(seq)*e.codec.Size()
	}

	return size
}

// AppendSequences appends the dense encoding of seqs to dst.
//
// Returns:
//   - []byte: The extended slice
//   - error: ErrMisalignedSequence if a sequence length is not a multiple of the dimension,
//     ErrCountOverflow if a sample count does not fit in uint32
func (e *DenseEncoder[T]) AppendSequences(dst []byte, seqs [][]T) ([]byte, error) {
	for i, seq := range seqs {
		samples, err := sampleCount(len(seq), e.dimension, i)
		if err != nil {
			return dst, err
		}

		dst = e.engine.AppendUint32(dst, samples)
		for _, v := range seq {
			dst = e.codec.Append(dst, v)
		}
	}

	return dst, nil
}

// sampleCount returns length/dimension, rejecting partial samples and uint32 overflow.
func sampleCount(length int, dimension int, index int) (uint32, error) {
	if length%dimension != 0 {
		return 0, fmt.Errorf("%w: sequence %d has %d values, dimension %d",
			errs.ErrMisalignedSequence, index, length, dimension)
	}

	samples := length / dimension
	if uint64(samples) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: sequence %d has %d samples", errs.ErrCountOverflow, index, samples)
	}

	return uint32(samples), nil //nolint: gosec
}
