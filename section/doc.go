// Package section defines the fixed binary structures of a CNTK binary container.
//
// A container is written front to back in a single pass. Stream descriptors and
// chunk offsets are only known once every chunk has been appended, so they live
// in a footer at the tail of the file, and the last 8 bytes point back to it.
//
// # Container Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Prefix (12 bytes)                                       │
//	│  - u64 magic                                            │
//	│  - u32 version                                          │
//	├─────────────────────────────────────────────────────────┤
//	│ Chunk 0..N-1 (variable, in append order)                │
//	│  - u32[sequenceCount] max sample length per slot        │
//	│  - stream payloads in descriptor order                  │
//	├─────────────────────────────────────────────────────────┤
//	│ Footer (variable)                                       │
//	│  - u64 magic, u32 chunk count, u32 stream count         │
//	│  - stream table: one StreamHeader per stream            │
//	│  - chunk index: one ChunkIndexEntry per chunk           │
//	├─────────────────────────────────────────────────────────┤
//	│ Trailer (8 bytes)                                       │
//	│  - u64 absolute offset of the footer magic              │
//	└─────────────────────────────────────────────────────────┘
//
// All integers are little-endian. Offsets are absolute from the start of the file.
//
// # Stream Header
//
//	Bytes      | Field      | Type   | Description
//	-----------|------------|--------|-------------------------------
//	0          | Sparse     | uint8  | 1 if sparse, 0 if dense
//	1-4        | NameLength | uint32 | byte length of the name
//	5..5+n-1   | Name       | ASCII  | stream name, no terminator
//	5+n        | DataType   | uint8  | 0=Float32, 1=Float64
//	6+n..9+n   | Dimension  | uint32 | values per sample
//
// # Chunk Index Entry
//
//	Bytes  | Field            | Type   | Description
//	-------|------------------|--------|-------------------------------------
//	0-7    | Offset           | uint64 | absolute offset of the chunk
//	8-11   | SequenceCount    | uint32 | sequences per stream in the chunk
//	12-15  | TotalSampleCount | uint32 | samples across all streams
//
// Reading a container starts at the end: seek to size-8, read the footer offset,
// then read the footer to locate every chunk without scanning the payloads.
package section
