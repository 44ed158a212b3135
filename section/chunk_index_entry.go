package section

import "github.com/arloliu/cbf/endian"

// ChunkIndexEntry records where a chunk starts and how much data it holds.
// It is a fixed size of 16 bytes.
type ChunkIndexEntry struct {
	// Offset is the absolute byte offset of the chunk's first max-length slot.
	//
	// Offset: 0, Size: 8 bytes
	Offset uint64

	// SequenceCount is the number of sequences every stream supplied in the chunk.
	//
	// Offset: 8, Size: 4 bytes
	SequenceCount uint32

	// TotalSampleCount is the sum of samples across all streams of the chunk.
	//
	// Offset: 12, Size: 4 bytes
	TotalSampleCount uint32
}

// NewChunkIndexEntry creates a new ChunkIndexEntry.
func NewChunkIndexEntry(offset uint64, sequenceCount uint32, totalSampleCount uint32) ChunkIndexEntry {
	return ChunkIndexEntry{
		Offset:           offset,
		SequenceCount:    sequenceCount,
		TotalSampleCount: totalSampleCount,
	}
}

// Bytes returns the index entry as a byte slice using the specified endian engine.
func (e *ChunkIndexEntry) Bytes(engine endian.EndianEngine) []byte {
	var b [ChunkIndexEntrySize]byte
	e.WriteToSlice(b[:], 0, engine)

	return b[:]
}

// WriteToSlice writes to a pre-allocated slice and returns the next position.
//
// Parameters:
//   - data: Pre-allocated byte slice (must have space for 16 bytes at offset)
//   - offset: Starting position in data slice
//   - engine: Endian engine for byte order
//
// Returns:
//   - int: Next write position (offset + 16)
func (e *ChunkIndexEntry) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint64(data[offset:offset+8], e.Offset)
	engine.PutUint32(data[offset+8:offset+12], e.SequenceCount)
	engine.PutUint32(data[offset+12:offset+16], e.TotalSampleCount)

	return offset + ChunkIndexEntrySize
}
