package section

import "github.com/arloliu/cbf/endian"

// Footer is the index written once when a container is closed.
type Footer struct {
	// Streams holds the stream table in container order.
	Streams []StreamHeader
	// Chunks holds the chunk index in append order.
	Chunks []ChunkIndexEntry
	// Offset is the absolute offset of the footer magic, written as the trailer.
	Offset uint64
}

// Size returns the encoded size of the footer including the trailer.
func (f *Footer) Size() int {
	size := FooterHeaderSize + len(f.Chunks)*ChunkIndexEntrySize + TrailerSize
	for i := range f.Streams {
		size += f.Streams[i].Size()
	}

	return size
}

// AppendTo appends the footer and the trailer to dst.
//
// The chunk and stream counts are written as uint32; callers keep both within range.
func (f *Footer) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	dst = engine.AppendUint64(dst, Magic)
	dst = engine.AppendUint32(dst, uint32(len(f.Chunks)))  //nolint: gosec
	dst = engine.AppendUint32(dst, uint32(len(f.Streams))) //nolint: gosec

	for i := range f.Streams {
		dst = f.Streams[i].AppendTo(dst, engine)
	}

	start := len(dst)
	dst = append(dst, make([]byte, len(f.Chunks)*ChunkIndexEntrySize)...)
	pos := start
	for i := range f.Chunks {
		pos = f.Chunks[i].WriteToSlice(dst, pos, engine)
	}

	return AppendTrailer(dst, f.Offset, engine)
}
