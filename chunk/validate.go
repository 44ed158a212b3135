// Package chunk checks the cross-stream consistency of a chunk before any of
// its bytes are written and computes the per-slot sample statistics the
// container records for it.
package chunk

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/cbf/errs"
	"github.com/arloliu/cbf/stream"
)

// Validate checks the batches of one chunk, given in the container's stream order.
//
// Checks, in order:
//  1. every batch matches its stream's data type
//  2. every stream supplies the same number of sequences
//  3. the count fits in uint32; a chunk of zero sequences is valid
//  4. every sequence length is a multiple of its stream's dimension
//
// Parameters:
//   - descs: Stream descriptors in container order
//   - batches: One batch per descriptor, same order
//
// Returns:
//   - int: The uniform sequence count
//   - error: ErrEmptyChunk without streams, ErrSequenceTypeMismatch, ErrInconsistentSequenceCount,
//     ErrCountOverflow or ErrMisalignedSequence
func Validate(descs []*stream.Descriptor, batches []stream.Batch) (int, error) {
	if len(descs) != len(batches) {
		return 0, fmt.Errorf("%w: %d streams, %d batches", errs.ErrMissingStream, len(descs), len(batches))
	}

	for i, d := range descs {
		if err := stream.CheckBatch(d, batches[i]); err != nil {
			return 0, err
		}
	}

	count, err := uniformSequenceCount(descs, batches)
	if err != nil {
		return 0, err
	}

	for i, d := range descs {
		if err := checkAlignment(d, batches[i]); err != nil {
			return 0, err
		}
	}

	return count, nil
}

func uniformSequenceCount(descs []*stream.Descriptor, batches []stream.Batch) (int, error) {
	if len(batches) == 0 {
		return 0, errs.ErrEmptyChunk
	}

	count := batches[0].Len()
	for _, b := range batches[1:] {
		if b.Len() != count {
			return 0, fmt.Errorf("%w: %s", errs.ErrInconsistentSequenceCount, describeCounts(descs, batches))
		}
	}

	if uint64(count) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d sequences", errs.ErrCountOverflow, count)
	}

	return count, nil
}

func describeCounts(descs []*stream.Descriptor, batches []stream.Batch) string {
	parts := make([]string, len(descs))
	for i, d := range descs {
		parts[i] = fmt.Sprintf("%s=%d", d.Name(), batches[i].Len())
	}

	return strings.Join(parts, ", ")
}

func checkAlignment(d *stream.Descriptor, b stream.Batch) error {
	dim := int(d.Dimension())
	for i := range b.Len() {
		n := b.SequenceLen(i)
		if n%dim != 0 {
			return fmt.Errorf("%w: stream %q sequence %d has %d values, dimension %d",
				errs.ErrMisalignedSequence, d.Name(), i, n, dim)
		}

		if uint64(n/dim) > math.MaxUint32 {
			return fmt.Errorf("%w: stream %q sequence %d has %d samples", errs.ErrCountOverflow, d.Name(), i, n/dim)
		}
	}

	return nil
}
