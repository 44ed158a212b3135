package container

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/cbf/errs"
	"github.com/arloliu/cbf/format"
	"github.com/arloliu/cbf/section"
	"github.com/arloliu/cbf/stream"
)

// twoStreams returns the dense float32 stream "a" and the sparse float64 stream "b",
// both of dimension 1.
func twoStreams(t *testing.T) (*stream.Descriptor, *stream.Descriptor) {
	t.Helper()

	return mustStream(t, "a", format.Float32, 1, false), mustStream(t, "b", format.Float64, 1, true)
}

func sampleChunk(a, b *stream.Descriptor) Chunk {
	return Chunk{
		a: stream.Float32Batch{{1, 2, 3, 4}, {1, 2, 3, 4, 5}, {1, 2}},
		b: stream.Float64Batch{{1, 2, 3, 4, 5}, {1, 2}, {1, 2, 3}},
	}
}

func sampleChunkLayout(l *layout) *layout {
	// max sample lengths
	l.u32(5, 5, 3)

	// stream a, dense
	l.u32(4).f32(1, 2, 3, 4)
	l.u32(5).f32(1, 2, 3, 4, 5)
	l.u32(2).f32(1, 2)

	// stream b, sparse: samples, nnz, values, offsets, per-sample counts
	l.u32(5, 5).f64(1, 2, 3, 4, 5).u32(0, 0, 0, 0, 0).u32(1, 1, 1, 1, 1)
	l.u32(2, 2).f64(1, 2).u32(0, 0).u32(1, 1)
	l.u32(3, 3).f64(1, 2, 3).u32(0, 0, 0).u32(1, 1, 1)

	return l
}

func TestWriter_ByteLayout(t *testing.T) {
	a, b := twoStreams(t)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, []*stream.Descriptor{a, b})
	require.NoError(t, err)
	require.NoError(t, w.AppendChunk(sampleChunk(a, b)))
	require.NoError(t, w.Close())

	want := &layout{}
	want.u64(section.Magic).u32(section.Version)
	sampleChunkLayout(want)
	footerOffset := uint64(len(want.b))

	want.u64(section.Magic).u32(1, 2)
	want.u8(0).str("a").u8(0).u32(1)
	want.u8(1).str("b").u8(1).u32(1)
	want.u64(12).u32(3, 21)
	want.u64(footerOffset)

	require.Equal(t, want.b, buf.Bytes())
	require.Equal(t, uint64(264), footerOffset)

	entries := w.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, section.NewChunkIndexEntry(12, 3, 21), entries[0])
}

func TestWriter_EmptyContainer(t *testing.T) {
	a, _ := twoStreams(t)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, []*stream.Descriptor{a})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	want := &layout{}
	want.u64(section.Magic).u32(section.Version)
	want.u64(section.Magic).u32(0, 1)
	want.u8(0).str("a").u8(0).u32(1)
	want.u64(12)

	require.Equal(t, want.b, buf.Bytes())
}

func TestWriter_MultipleChunks(t *testing.T) {
	a, b := twoStreams(t)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, []*stream.Descriptor{a, b})
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, w.AppendChunk(sampleChunk(a, b)))
	}
	require.Equal(t, 3, w.ChunkCount())
	require.NoError(t, w.Close())

	chunkSize := uint64(len(sampleChunkLayout(&layout{}).b))
	entries := w.Entries()
	for i, e := range entries {
		require.Equal(t, section.PrefixSize+uint64(i)*chunkSize, e.Offset)
	}

	data := buf.Bytes()
	trailer := section.PrefixSize + 3*chunkSize
	require.Equal(t, trailer, w.Summary().FooterOffset)
	require.Equal(t, trailer, leUint64(data[len(data)-8:]))
	require.Equal(t, uint64(9), w.Summary().Sequences)
	require.Equal(t, uint64(63), w.Summary().Samples)
}

func TestWriter_RejectedChunkWritesNothing(t *testing.T) {
	a, b := twoStreams(t)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, []*stream.Descriptor{a, b}, WithBufferSize(0))
	require.NoError(t, err)
	require.NoError(t, w.AppendChunk(sampleChunk(a, b)))

	before := buf.Len()
	offset := w.Offset()

	tests := []struct {
		name    string
		chunk   Chunk
		wantErr error
	}{
		{
			name: "inconsistent sequence count",
			chunk: Chunk{
				a: stream.Float32Batch{{1}, {2}, {3}},
				b: stream.Float64Batch{{1}, {2}},
			},
			wantErr: errs.ErrInconsistentSequenceCount,
		},
		{
			name: "type mismatch",
			chunk: Chunk{
				a: stream.Float64Batch{{1}},
				b: stream.Float64Batch{{1}},
			},
			wantErr: errs.ErrSequenceTypeMismatch,
		},
		{
			name:    "missing stream",
			chunk:   Chunk{a: stream.Float32Batch{{1}}},
			wantErr: errs.ErrMissingStream,
		},
		{
			name: "unknown stream",
			chunk: Chunk{
				a: stream.Float32Batch{{1}},
				b: stream.Float64Batch{{1}},
				mustStream(t, "a", format.Float32, 1, false): stream.Float32Batch{{1}},
			},
			wantErr: errs.ErrUnknownStream,
		},
		{
			name: "zero and one sequences",
			chunk: Chunk{
				a: stream.Float32Batch{},
				b: stream.Float64Batch{{1}},
			},
			wantErr: errs.ErrInconsistentSequenceCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.AppendChunk(tt.chunk)
			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, before, buf.Len())
			require.Equal(t, offset, w.Offset())
			require.Equal(t, 1, w.ChunkCount())
		})
	}

	// the writer stays usable after rejected chunks
	require.NoError(t, w.AppendChunk(sampleChunk(a, b)))
	require.Equal(t, 2, w.ChunkCount())
	require.NoError(t, w.Close())
}

func TestWriter_ZeroSequenceChunk(t *testing.T) {
	a, b := twoStreams(t)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, []*stream.Descriptor{a, b})
	require.NoError(t, err)

	require.NoError(t, w.AppendChunk(Chunk{a: stream.Float32Batch{}, b: stream.Float64Batch{}}))
	require.Equal(t, uint64(section.PrefixSize), w.Offset(), "a zero-sequence chunk has no payload")
	require.NoError(t, w.AppendChunk(sampleChunk(a, b)))
	require.NoError(t, w.AppendBatches(stream.Float32Batch{}, stream.Float64Batch{}))
	require.NoError(t, w.Close())

	chunkSize := uint64(len(sampleChunkLayout(&layout{}).b))
	require.Equal(t, []section.ChunkIndexEntry{
		section.NewChunkIndexEntry(section.PrefixSize, 0, 0),
		section.NewChunkIndexEntry(section.PrefixSize, 3, 21),
		section.NewChunkIndexEntry(section.PrefixSize+chunkSize, 0, 0),
	}, w.Entries())

	want := &layout{}
	want.u64(section.Magic).u32(section.Version)
	sampleChunkLayout(want)
	footerOffset := uint64(len(want.b))

	want.u64(section.Magic).u32(3, 2)
	want.u8(0).str("a").u8(0).u32(1)
	want.u8(1).str("b").u8(1).u32(1)
	want.u64(12).u32(0, 0)
	want.u64(12).u32(3, 21)
	want.u64(footerOffset).u32(0, 0)
	want.u64(footerOffset)

	require.Equal(t, want.b, buf.Bytes())
	require.Equal(t, uint64(3), w.Summary().Sequences)
}

func TestWriter_MisalignedSequence(t *testing.T) {
	x := mustStream(t, "x", format.Float32, 3, true)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, []*stream.Descriptor{x}, WithBufferSize(0))
	require.NoError(t, err)

	err = w.AppendBatches(stream.Float32Batch{{1, 2, 3}, {1, 2, 3, 4}})
	require.ErrorIs(t, err, errs.ErrMisalignedSequence)
	require.ErrorContains(t, err, `"x"`)
	require.Equal(t, section.PrefixSize, buf.Len())
}

func TestWriter_AppendNamedChunk(t *testing.T) {
	a, b := twoStreams(t)

	var byDesc, byName bytes.Buffer
	w1, err := NewWriter(&byDesc, []*stream.Descriptor{a, b})
	require.NoError(t, err)
	w2, err := NewWriter(&byName, []*stream.Descriptor{a, b})
	require.NoError(t, err)

	require.NoError(t, w1.AppendChunk(sampleChunk(a, b)))
	require.NoError(t, w2.AppendNamedChunk(NamedChunk{
		"b": stream.Float64Batch{{1, 2, 3, 4, 5}, {1, 2}, {1, 2, 3}},
		"a": stream.Float32Batch{{1, 2, 3, 4}, {1, 2, 3, 4, 5}, {1, 2}},
	}))
	require.NoError(t, w1.Close())
	require.NoError(t, w2.Close())

	require.Equal(t, byDesc.Bytes(), byName.Bytes())

	err = w2.AppendNamedChunk(NamedChunk{"a": stream.Float32Batch{{1}}})
	require.ErrorIs(t, err, errs.ErrContainerClosed)
}

func TestWriter_AppendNamedChunk_Errors(t *testing.T) {
	a, b := twoStreams(t)

	w, err := NewWriter(io.Discard, []*stream.Descriptor{a, b})
	require.NoError(t, err)

	err = w.AppendNamedChunk(NamedChunk{"a": stream.Float32Batch{{1}}, "c": stream.Float64Batch{{1}}})
	require.ErrorIs(t, err, errs.ErrUnknownStream)
	require.ErrorContains(t, err, `"c"`)

	err = w.AppendNamedChunk(NamedChunk{"b": stream.Float64Batch{{1}}})
	require.ErrorIs(t, err, errs.ErrMissingStream)
	require.ErrorContains(t, err, `"a"`)
}

func TestWriter_AppendBatches(t *testing.T) {
	a, b := twoStreams(t)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, []*stream.Descriptor{a, b})
	require.NoError(t, err)

	chunk := sampleChunk(a, b)
	require.NoError(t, w.AppendBatches(chunk[a], chunk[b]))

	err = w.AppendBatches(chunk[a])
	require.ErrorIs(t, err, errs.ErrMissingStream)
	require.NoError(t, w.Close())

	want := &layout{}
	want.u64(section.Magic).u32(section.Version)
	sampleChunkLayout(want)
	require.Equal(t, want.b, buf.Bytes()[:len(want.b)])
}

func TestWriter_Close(t *testing.T) {
	a, b := twoStreams(t)

	sink := &limitedSink{limit: 1 << 20}
	w, err := NewWriter(sink, []*stream.Descriptor{a, b})
	require.NoError(t, err)
	require.NoError(t, w.AppendChunk(sampleChunk(a, b)))

	require.NoError(t, w.Close())
	require.True(t, w.Closed())
	require.Equal(t, 1, sink.closed)
	size := len(sink.data)

	require.NoError(t, w.Close(), "second close is a no-op")
	require.Equal(t, 1, sink.closed)
	require.Len(t, sink.data, size)

	err = w.AppendChunk(sampleChunk(a, b))
	require.ErrorIs(t, err, errs.ErrContainerClosed)
	require.Len(t, sink.data, size)
}

func TestWriter_WithoutSinkClose(t *testing.T) {
	a, _ := twoStreams(t)

	sink := &limitedSink{limit: 1 << 20}
	w, err := NewWriter(sink, []*stream.Descriptor{a}, WithoutSinkClose())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.Equal(t, 0, sink.closed)
}

func TestWriter_SinkFailure(t *testing.T) {
	a, b := twoStreams(t)

	sink := &limitedSink{limit: section.PrefixSize + 10}
	w, err := NewWriter(sink, []*stream.Descriptor{a, b}, WithBufferSize(0))
	require.NoError(t, err)

	err = w.AppendChunk(sampleChunk(a, b))
	require.ErrorIs(t, err, errSinkFull)
	require.Equal(t, 1, sink.closed, "sink is released on failure")
	require.Equal(t, 0, w.ChunkCount())
	require.ErrorIs(t, w.Err(), errSinkFull)

	err = w.AppendChunk(sampleChunk(a, b))
	require.ErrorIs(t, err, errs.ErrWriterFailed)
	require.ErrorIs(t, err, errSinkFull)

	require.NoError(t, w.Close())
	require.False(t, w.Closed())
	require.Equal(t, 1, sink.closed)
	require.Len(t, sink.data, section.PrefixSize+10, "no footer after a failure")
}

func TestWriter_SinkFailureOnClose(t *testing.T) {
	a, b := twoStreams(t)

	chunkSize := len(sampleChunkLayout(&layout{}).b)
	sink := &limitedSink{limit: section.PrefixSize + chunkSize + 4}
	w, err := NewWriter(sink, []*stream.Descriptor{a, b})
	require.NoError(t, err)
	require.NoError(t, w.AppendChunk(sampleChunk(a, b)))

	err = w.Close()
	require.ErrorIs(t, err, errSinkFull)
	require.False(t, w.Closed())
	require.Equal(t, 1, sink.closed)

	err = w.AppendChunk(sampleChunk(a, b))
	require.ErrorIs(t, err, errs.ErrWriterFailed)
}

func TestWriter_SeekerBaseOffset(t *testing.T) {
	a, b := twoStreams(t)

	f, err := os.Create(filepath.Join(t.TempDir(), "offset.cbf"))
	require.NoError(t, err)

	header := bytes.Repeat([]byte{0xEE}, 100)
	_, err = f.Write(header)
	require.NoError(t, err)

	w, err := NewWriter(f, []*stream.Descriptor{a, b})
	require.NoError(t, err)
	require.Equal(t, uint64(100+section.PrefixSize), w.Offset())
	require.NoError(t, w.AppendChunk(sampleChunk(a, b)))
	require.NoError(t, w.Close())

	require.Equal(t, uint64(100+section.PrefixSize), w.Entries()[0].Offset)

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	require.Equal(t, header, data[:100])

	footerOffset := leUint64(data[len(data)-8:])
	require.Equal(t, w.Summary().FooterOffset, footerOffset)
	require.Equal(t, section.Magic, leUint64(data[footerOffset:footerOffset+8]))
	require.Equal(t, uint64(len(data)-100), w.Summary().Bytes)
}

func TestWriter_Summary(t *testing.T) {
	a, b := twoStreams(t)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, []*stream.Descriptor{a, b})
	require.NoError(t, err)
	require.NoError(t, w.AppendChunk(sampleChunk(a, b)))
	require.NoError(t, w.Close())

	s := w.Summary()
	require.Equal(t, 1, s.Chunks)
	require.Equal(t, 2, s.Streams)
	require.Equal(t, uint64(3), s.Sequences)
	require.Equal(t, uint64(21), s.Samples)
	require.Equal(t, uint64(buf.Len()), s.Bytes)
	require.Equal(t, xxhash.Sum64(buf.Bytes()), s.Digest)
	require.Contains(t, s.String(), "1 chunks")
	require.Contains(t, s.String(), "326 B")
}

func TestWriter_Logging(t *testing.T) {
	a, b := twoStreams(t)

	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)

	w, err := NewWriter(io.Discard, []*stream.Descriptor{a, b}, WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, w.AppendChunk(sampleChunk(a, b)))
	require.NoError(t, w.Close())

	out := logs.String()
	require.Contains(t, out, `"message":"container opened"`)
	require.Contains(t, out, `"id_collision":false`)
	require.Contains(t, out, `"message":"chunk appended"`)
	require.Contains(t, out, `"sequences":3`)
	require.Contains(t, out, `"samples":21`)
	require.Contains(t, out, `"level":"info"`)
	require.Contains(t, out, `"message":"container closed"`)
}

func TestWriter_Accessors(t *testing.T) {
	a, b := twoStreams(t)

	w, err := NewWriter(io.Discard, []*stream.Descriptor{a, b})
	require.NoError(t, err)

	streams := w.Streams()
	require.Equal(t, []*stream.Descriptor{a, b}, streams)
	streams[0] = nil
	require.Same(t, a, w.Streams()[0], "Streams returns a copy")

	got, ok := w.Stream("b")
	require.True(t, ok)
	require.Same(t, b, got)

	_, ok = w.Stream("c")
	require.False(t, ok)

	require.Equal(t, uint64(section.PrefixSize), w.Offset())
	require.Empty(t, w.Entries())
	require.False(t, w.Closed())
	require.NoError(t, w.Err())
}

func TestNewWriter_Errors(t *testing.T) {
	a, b := twoStreams(t)
	dup := mustStream(t, "a", format.Float64, 2, false)

	tests := []struct {
		name    string
		sink    io.Writer
		streams []*stream.Descriptor
		opts    []Option
		wantErr error
	}{
		{name: "nil sink", sink: nil, streams: []*stream.Descriptor{a}, wantErr: errs.ErrNilSink},
		{name: "no streams", sink: io.Discard, streams: nil, wantErr: errs.ErrNoStreams},
		{name: "duplicate name", sink: io.Discard, streams: []*stream.Descriptor{a, b, dup}, wantErr: errs.ErrDuplicateStreamName},
		{name: "nil descriptor", sink: io.Discard, streams: []*stream.Descriptor{a, nil}, wantErr: errs.ErrInvalidStreamName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWriter(tt.sink, tt.streams, tt.opts...)
			require.ErrorIs(t, err, tt.wantErr)
			require.Nil(t, w)
		})
	}

	_, err := NewWriter(io.Discard, []*stream.Descriptor{a}, WithBufferSize(-1))
	require.ErrorContains(t, err, "invalid buffer size")
}

func TestNewWriter_ValidationKeepsSinkOpen(t *testing.T) {
	a := mustStream(t, "a", format.Float32, 1, false)

	sink := &limitedSink{limit: 1 << 20}
	_, err := NewWriter(sink, []*stream.Descriptor{a, a})
	require.ErrorIs(t, err, errs.ErrDuplicateStreamName)
	require.Equal(t, 0, sink.closed)
	require.Empty(t, sink.data)
}

func BenchmarkWriter_AppendChunk(b *testing.B) {
	features, err := stream.NewSparse("features", format.Float32, 64)
	require.NoError(b, err)
	labels, err := stream.NewDense("labels", format.Float32, 8)
	require.NoError(b, err)

	fb := make(stream.Float32Batch, 32)
	lb := make(stream.Float32Batch, 32)
	for i := range fb {
		fb[i] = make([]float32, 64*20)
		for j := 0; j < len(fb[i]); j += 7 {
			fb[i][j] = float32(j)
		}
		lb[i] = make([]float32, 8*20)
	}

	w, err := NewWriter(io.Discard, []*stream.Descriptor{features, labels})
	require.NoError(b, err)

	b.ReportAllocs()
	for b.Loop() {
		if err := w.AppendBatches(fb, lb); err != nil {
			b.Fatal(err)
		}
	}
}

func leUint64(p []byte) uint64 {
	return uint64(p[0]) | uint64(p[1])<<8 | uint64(p[2])<<16 | uint64(p[3])<<24 |
		uint64(p[4])<<32 | uint64(p[5])<<40 | uint64(p[6])<<48 | uint64(p[7])<<56
}
