package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/cbf/endian"
	"github.com/arloliu/cbf/errs"
)

// SparseEncoder writes only the non-zero values of each sequence together with
// their offsets within the sample and the number of non-zero values per sample.
//
// The encoder is stateless and safe for concurrent use.
type SparseEncoder[T Float] struct {
	codec     ValueCodec[T]
	engine    endian.EndianEngine
	dimension int
}

// NewSparseEncoder creates a sparse encoder.
//
// Returns:
//   - *SparseEncoder[T]: The encoder
//   - error: ErrInvalidDimension if dimension is zero
func NewSparseEncoder[T Float](codec ValueCodec[T], engine endian.EndianEngine, dimension uint32) (*SparseEncoder[T], error) {
	if dimension == 0 {
		return nil, errs.ErrInvalidDimension
	}

	return &SparseEncoder[T]{codec: codec, engine: engine, dimension: int(dimension)}, nil
}

// MaxEncodedSize returns an upper bound of the encoded size of seqs in bytes,
// reached when no value is zero.
func (e *SparseEncoder[T]) MaxEncodedSize(seqs [][]T) int {
	size := 0
	for _, seq := range seqs {
		size += 8 + len(seq)*(e.codec.Size()+4) + (len(seq)/e.dimension)*4
	}

	return size
}

// AppendSequences appends the sparse encoding of seqs to dst.
//
// Returns:
//   - []byte: The extended slice
//   - error: ErrMisalignedSequence if a sequence length is not a multiple of the dimension,
//     ErrCountOverflow if a count does not fit in 32 bits
func (e *SparseEncoder[T]) AppendSequences(dst []byte, seqs [][]T) ([]byte, error) {
	for i, seq := range seqs {
		samples, err := sampleCount(len(seq), e.dimension, i)
		if err != nil {
			return dst, err
		}

		// int32 is the widest offset/count type of the layout
		if len(seq) > math.MaxInt32 {
			return dst, fmt.Errorf("%w: sequence %d has %d values", errs.ErrCountOverflow, i, len(seq))
		}

		dst = e.appendSequence(dst, seq, samples)
	}

	return dst, nil
}

func (e *SparseEncoder[T]) appendSequence(dst []byte, seq []T, samples uint32) []byte {
	dst = e.engine.AppendUint32(dst, samples)

	// total non-zero count is patched once the values are written
	totalPos := len(dst)
	dst = e.engine.AppendUint32(dst, 0)

	nonZero := 0
	for _, v := range seq {
		if !e.codec.IsZero(v) {
			dst = e.codec.Append(dst, v)
			nonZero++
		}
	}
	e.engine.PutUint32(dst[totalPos:totalPos+4], uint32(nonZero)) //nolint: gosec

	for i, v := range seq {
		if !e.codec.IsZero(v) {
			dst = e.engine.AppendUint32(dst, uint32(i%e.dimension)) //nolint: gosec
		}
	}

	for start := 0; start < len(seq); start += e.dimension {
		count := 0
		for _, v := range seq[start : start+e.dimension] {
			if !e.codec.IsZero(v) {
				count++
			}
		}
		dst = e.engine.AppendUint32(dst, uint32(count)) //nolint: gosec
	}

	return dst
}

// SparseSequence is the decomposed sparse form of one sequence.
type SparseSequence[T Float] struct {
	SampleCount uint32
	Values      []T
	Offsets     []int32
	Counts      []int32
}

// TotalNonZero returns the number of non-zero values in the sequence.
func (s SparseSequence[T]) TotalNonZero() int {
	return len(s.Values)
}

// Sparsify decomposes seq into samples of the given dimension and collects the
// non-zero values, their offsets within the sample and the per-sample counts.
//
// Returns:
//   - SparseSequence[T]: The decomposed sequence
//   - error: ErrInvalidDimension or ErrMisalignedSequence
func Sparsify[T Float](seq []T, dimension uint32) (SparseSequence[T], error) {
	if dimension == 0 {
		return SparseSequence[T]{}, errs.ErrInvalidDimension
	}

	dim := int(dimension)
	samples, err := sampleCount(len(seq), dim, 0)
	if err != nil {
		return SparseSequence[T]{}, err
	}

	out := SparseSequence[T]{
		SampleCount: samples,
		Counts:      make([]int32, samples),
	}
	for i, v := range seq {
		if v == 0 {
			continue
		}
		out.Values = append(out.Values, v)
		out.Offsets = append(out.Offsets, int32(i%dim)) //nolint: gosec
		out.Counts[i/dim]++
	}

	return out, nil
}
