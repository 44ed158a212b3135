package section

const (
	// Magic identifies a CNTK binary container ("cntk_bin" spelled as a big-endian uint64,
	// so it appears byte-reversed on disk). It opens the prefix and, again, the footer.
	Magic uint64 = 0x636e746b5f62696e

	// Version is the container format version written after the leading magic.
	Version uint32 = 1
)

// fixed section sizes in bytes
const (
	PrefixSize            = 12 // magic (8) + version (4)
	FooterHeaderSize      = 16 // magic (8) + chunk count (4) + stream count (4)
	StreamHeaderFixedSize = 10 // sparse flag (1) + name length (4) + data type (1) + dimension (4)
	ChunkIndexEntrySize   = 16 // offset (8) + sequence count (4) + total sample count (4)
	TrailerSize           = 8  // footer offset (8)
	SlotSize              = 4  // one max-sample-length slot at the head of a chunk
)

// stream table flag values
const (
	DenseFlag  uint8 = 0
	SparseFlag uint8 = 1
)
