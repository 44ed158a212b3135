package chunk

import (
	"fmt"
	"math"

	"github.com/arloliu/cbf/errs"
	"github.com/arloliu/cbf/stream"
)

// SampleCounts returns the number of samples of every sequence in b.
// The batch must have passed Validate.
func SampleCounts(d *stream.Descriptor, b stream.Batch) []uint32 {
	dim := int(d.Dimension())
	counts := make([]uint32, b.Len())
	for i := range counts {
		counts[i] = uint32(b.SequenceLen(i) / dim) //nolint: gosec
	}

	return counts
}

// MaxSampleLengths returns, for every sequence slot, the largest sample count
// across streams.
//
// Example:
//
//	stream a: [4 5 2]
//	stream b: [5 2 3]
//	result:   [5 5 3]
//
// All count vectors must have the same length.
func MaxSampleLengths(counts [][]uint32) []uint32 {
	if len(counts) == 0 {
		return nil
	}

	maxs := make([]uint32, len(counts[0]))
	for _, c := range counts {
		for slot, n := range c {
			maxs[slot] = max(maxs[slot], n)
		}
	}

	return maxs
}

// Stats summarizes the sample layout of a validated chunk.
type Stats struct {
	// SampleCounts holds the per-sequence sample counts of each stream, in stream order.
	SampleCounts [][]uint32
	// MaxSampleLengths holds the per-slot maximum across streams.
	MaxSampleLengths []uint32
	// SequenceCount is the uniform number of sequences per stream.
	SequenceCount uint32
	// TotalSamples is the sum of samples across all streams.
	TotalSamples uint32
}

// ComputeStats computes the sample statistics of a validated chunk.
//
// Returns:
//   - Stats: Sample counts, max-length vector and totals
//   - error: ErrCountOverflow if the total sample count does not fit in uint32
func ComputeStats(descs []*stream.Descriptor, batches []stream.Batch) (Stats, error) {
	stats := Stats{SampleCounts: make([][]uint32, len(descs))}

	var total uint64
	for i, d := range descs {
		stats.SampleCounts[i] = SampleCounts(d, batches[i])
		for _, n := range stats.SampleCounts[i] {
			total += uint64(n)
		}
	}

	if total > math.MaxUint32 {
		return Stats{}, fmt.Errorf("%w: chunk has %d samples", errs.ErrCountOverflow, total)
	}

	stats.MaxSampleLengths = MaxSampleLengths(stats.SampleCounts)
	stats.SequenceCount = uint32(len(stats.MaxSampleLengths)) //nolint: gosec
	stats.TotalSamples = uint32(total)

	return stats, nil
}
