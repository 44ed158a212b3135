package encoding

import (
	"fmt"

	"github.com/arloliu/cbf/endian"
	"github.com/arloliu/cbf/errs"
	"github.com/arloliu/cbf/format"
	"github.com/arloliu/cbf/stream"
)

// SequenceEncoder encodes the batch a stream contributes to one chunk.
type SequenceEncoder interface {
	// MaxEncodedSize returns an upper bound of the encoded batch size in bytes.
	MaxEncodedSize(b stream.Batch) int
	// AppendBatch appends the encoded batch to dst and returns the extended slice.
	AppendBatch(dst []byte, b stream.Batch) ([]byte, error)
}

// sequencesEncoder is implemented by DenseEncoder and SparseEncoder.
type sequencesEncoder[T Float] interface {
	MaxEncodedSize(seqs [][]T) int
	AppendSequences(dst []byte, seqs [][]T) ([]byte, error)
}

var (
	_ sequencesEncoder[float32] = (*DenseEncoder[float32])(nil)
	_ sequencesEncoder[float64] = (*SparseEncoder[float64])(nil)
)

// batchEncoder unwraps a stream.Batch variant once and hands the typed
// sequences to the generic encoder.
type batchEncoder[T Float] struct {
	name   string
	enc    sequencesEncoder[T]
	unwrap func(stream.Batch) ([][]T, bool)
}

func (e batchEncoder[T]) MaxEncodedSize(b stream.Batch) int {
	seqs, ok := e.unwrap(b)
	if !ok {
		return 0
	}

	return e.enc.MaxEncodedSize(seqs)
}

func (e batchEncoder[T]) AppendBatch(dst []byte, b stream.Batch) ([]byte, error) {
	seqs, ok := e.unwrap(b)
	if !ok {
		return dst, fmt.Errorf("%w: stream %q", errs.ErrSequenceTypeMismatch, e.name)
	}

	out, err := e.enc.AppendSequences(dst, seqs)
	if err != nil {
		return dst, fmt.Errorf("stream %q: %w", e.name, err)
	}

	return out, nil
}

func unwrapFloat32(b stream.Batch) ([][]float32, bool) {
	seqs, ok := b.(stream.Float32Batch)
	return seqs, ok
}

func unwrapFloat64(b stream.Batch) ([][]float64, bool) {
	seqs, ok := b.(stream.Float64Batch)
	return seqs, ok
}

// ForStream returns the encoder for a stream, selecting the numeric kind and the
// dense or sparse layout from the descriptor.
//
// Parameters:
//   - d: Stream descriptor
//   - engine: Byte order (little-endian for CBF)
//
// Returns:
//   - SequenceEncoder: Encoder bound to the stream
//   - error: ErrUnsupportedDataType or ErrInvalidDimension for an invalid descriptor
func ForStream(d *stream.Descriptor, engine endian.EndianEngine) (SequenceEncoder, error) {
	switch d.DataType() {
	case format.Float32:
		enc, err := newSequencesEncoder[float32](NewFloat32Codec(engine), engine, d)
		if err != nil {
			return nil, err
		}

		return batchEncoder[float32]{name: d.Name(), enc: enc, unwrap: unwrapFloat32}, nil
	case format.Float64:
		enc, err := newSequencesEncoder[float64](NewFloat64Codec(engine), engine, d)
		if err != nil {
			return nil, err
		}

		return batchEncoder[float64]{name: d.Name(), enc: enc, unwrap: unwrapFloat64}, nil
	default:
		return nil, fmt.Errorf("%w: stream %q has tag %d", errs.ErrUnsupportedDataType, d.Name(), uint8(d.DataType()))
	}
}

func newSequencesEncoder[T Float](codec ValueCodec[T], engine endian.EndianEngine, d *stream.Descriptor) (sequencesEncoder[T], error) {
	if d.Sparse() {
		return NewSparseEncoder(codec, engine, d.Dimension())
	}

	return NewDenseEncoder(codec, engine, d.Dimension())
}
