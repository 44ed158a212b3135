// Package encoding converts one stream's sequences for one chunk into the
// stream's on-disk byte representation.
//
// Two layouts are provided, both little-endian and both parameterized over the
// numeric kind of the stream through ValueCodec:
//
// # Dense Layout
//
// For each sequence, in order:
//
//	u32        sampleCount              (len(sequence) / dimension)
//	T[len]     raw values               (4 bytes for float32, 8 for float64)
//
// # Sparse Layout
//
// Values are grouped into samples of dimension consecutive values. Values equal
// to zero (exact comparison) are elided. For each sequence, in order:
//
//	u32            sampleCount
//	u32            totalNonZero
//	T[totalNonZero]   non-zero values, concatenated in sample order
//	i32[totalNonZero] offset of each value within its sample
//	i32[sampleCount]  number of non-zero values per sample
//
// A sample without any non-zero value contributes a 0 to the per-sample list and
// nothing to the value and offset lists.
//
// Example with dimension 3:
//
//	sequence: [0 2 3 | 4 0 6 | 7 8 0]
//	values:   [2 3 4 6 7 8]
//	offsets:  [1 2 0 2 0 1]
//	counts:   [2 2 2]
//
// # Stream Encoders
//
// ForStream picks the layout and numeric kind once from a stream descriptor and
// returns a SequenceEncoder operating on stream.Batch values, so callers never
// branch on the data type per value.
package encoding
