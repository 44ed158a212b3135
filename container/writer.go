package container

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/arloliu/cbf/chunk"
	"github.com/arloliu/cbf/encoding"
	"github.com/arloliu/cbf/endian"
	"github.com/arloliu/cbf/errs"
	"github.com/arloliu/cbf/internal/hash"
	"github.com/arloliu/cbf/internal/options"
	"github.com/arloliu/cbf/internal/pool"
	"github.com/arloliu/cbf/internal/registry"
	"github.com/arloliu/cbf/section"
	"github.com/arloliu/cbf/stream"
)

type writerState uint8

const (
	stateOpen writerState = iota
	stateClosed
	stateFailed
)

// Writer appends chunks to a CNTK binary container and writes the footer on Close.
//
// The writer owns its sink from construction until Close, or until the first sink
// error, whichever comes first. A chunk rejected by validation writes nothing and
// leaves the writer usable.
//
// Note: The Writer is NOT thread-safe. Each writer instance should be used by a single goroutine.
type Writer struct {
	cfg *Config

	sink   io.Writer
	out    io.Writer // sink, possibly behind a bufio.Writer
	buffer *bufio.Writer
	digest *xxhash.Digest
	engine endian.EndianEngine
	logger zerolog.Logger

	streams   []*stream.Descriptor
	encoders  []encoding.SequenceEncoder
	positions map[*stream.Descriptor]int
	names     *registry.Registry

	entries   []section.ChunkIndexEntry
	start     uint64 // sink position when the writer was created
	offset    uint64 // absolute position of the next byte
	sequences uint64
	samples   uint64

	state        writerState
	failure      error
	footerOffset uint64
}

// NewWriter creates a container writer and writes the container prefix.
//
// If sink implements io.Seeker, its current position is taken as the container
// start so recorded offsets stay absolute. If it implements io.Closer, it is
// closed by Close unless WithoutSinkClose is given.
//
// Parameters:
//   - sink: Append-only byte sink
//   - streams: Stream descriptors; their order is the order of every chunk and of the stream table
//   - opts: Optional configuration (logger, buffer size, sink ownership)
//
// Returns:
//   - *Writer: Open writer with the prefix written
//   - error: ErrNilSink, ErrNoStreams, ErrInvalidStreamName, ErrDuplicateStreamName,
//     option errors, or the sink error raised while writing the prefix
func NewWriter(sink io.Writer, streams []*stream.Descriptor, opts ...Option) (*Writer, error) {
	if sink == nil {
		return nil, errs.ErrNilSink
	}

	if len(streams) == 0 {
		return nil, errs.ErrNoStreams
	}

	if uint64(len(streams)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d streams", errs.ErrCountOverflow, len(streams))
	}

	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	w := &Writer{
		cfg:       cfg,
		sink:      sink,
		out:       sink,
		digest:    hash.NewDigest(),
		engine:    endian.GetLittleEndianEngine(),
		logger:    cfg.logger,
		streams:   make([]*stream.Descriptor, len(streams)),
		encoders:  make([]encoding.SequenceEncoder, len(streams)),
		positions: make(map[*stream.Descriptor]int, len(streams)),
		names:     registry.New(len(streams)),
	}

	if err := w.registerStreams(streams); err != nil {
		return nil, err
	}

	if seeker, ok := sink.(io.Seeker); ok {
		pos, err := seeker.Seek(0, io.SeekCurrent)
		if err == nil && pos > 0 {
			w.start = uint64(pos)
			w.offset = w.start
		}
	}

	if cfg.bufferSize > 0 {
		w.buffer = bufio.NewWriterSize(sink, cfg.bufferSize)
		w.out = w.buffer
	}

	if err := w.write(section.AppendPrefix(make([]byte, 0, section.PrefixSize), w.engine)); err != nil {
		return nil, err
	}

	w.logger.Debug().
		Int("streams", len(w.streams)).
		Uint64("start", w.start).
		Bool("id_collision", w.names.HasCollision()).
		Msg("container opened")

	return w, nil
}

func (w *Writer) registerStreams(streams []*stream.Descriptor) error {
	for i, d := range streams {
		if d == nil {
			return fmt.Errorf("%w: stream %d is nil", errs.ErrInvalidStreamName, i)
		}

		if _, err := w.names.Add(d.Name()); err != nil {
			return err
		}

		enc, err := encoding.ForStream(d, w.engine)
		if err != nil {
			return err
		}

		w.streams[i] = d
		w.encoders[i] = enc
		w.positions[d] = i
	}

	return nil
}

// AppendChunk validates, encodes and appends one chunk keyed by stream descriptor.
//
// Every stream of the container must be present and supply the same number of
// sequences. A chunk of zero sequences is valid and is indexed with zero
// sequences and samples. Nothing is written when an error is returned for an
// invalid chunk.
//
// Returns:
//   - error: ErrContainerClosed, ErrWriterFailed, ErrUnknownStream, ErrMissingStream,
//     ErrSequenceTypeMismatch, ErrInconsistentSequenceCount, ErrMisalignedSequence,
//     ErrCountOverflow, or a wrapped sink error
func (w *Writer) AppendChunk(c Chunk) error {
	if err := w.checkOpen(); err != nil {
		return err
	}

	batches, err := w.resolveChunk(c)
	if err != nil {
		return err
	}

	return w.appendBatches(batches)
}

// AppendNamedChunk validates, encodes and appends one chunk keyed by stream name.
//
// It behaves exactly like AppendChunk.
func (w *Writer) AppendNamedChunk(c NamedChunk) error {
	if err := w.checkOpen(); err != nil {
		return err
	}

	batches, err := w.resolveNamedChunk(c)
	if err != nil {
		return err
	}

	return w.appendBatches(batches)
}

// AppendBatches validates, encodes and appends one chunk given as one batch per
// stream in the container's stream order.
//
// It behaves exactly like AppendChunk.
func (w *Writer) AppendBatches(batches ...stream.Batch) error {
	if err := w.checkOpen(); err != nil {
		return err
	}

	return w.appendBatches(batches)
}

func (w *Writer) appendBatches(batches []stream.Batch) error {
	if _, err := chunk.Validate(w.streams, batches); err != nil {
		return err
	}

	stats, err := chunk.ComputeStats(w.streams, batches)
	if err != nil {
		return err
	}

	if uint64(len(w.entries)) >= math.MaxUint32 {
		return fmt.Errorf("%w: chunk count", errs.ErrCountOverflow)
	}

	buf := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(buf)

	size := len(stats.MaxSampleLengths) * section.SlotSize
	for i, enc := range w.encoders {
		size += enc.MaxEncodedSize(batches[i])
	}
	buf.Grow(size)

	for _, n := range stats.MaxSampleLengths {
		buf.B = w.engine.AppendUint32(buf.B, n)
	}

	for i, enc := range w.encoders {
		buf.B, err = enc.AppendBatch(buf.B, batches[i])
		if err != nil {
			return err
		}
	}

	offset := w.offset
	if err := w.write(buf.Bytes()); err != nil {
		return err
	}

	w.entries = append(w.entries, section.NewChunkIndexEntry(offset, stats.SequenceCount, stats.TotalSamples))
	w.sequences += uint64(stats.SequenceCount)
	w.samples += uint64(stats.TotalSamples)

	w.logger.Debug().
		Int("chunk", len(w.entries)-1).
		Uint64("offset", offset).
		Uint32("sequences", stats.SequenceCount).
		Uint32("samples", stats.TotalSamples).
		Int("bytes", buf.Len()).
		Msg("chunk appended")

	return nil
}

// Close writes the footer and the trailer, flushes and releases the sink.
//
// Close is idempotent: calls after the first one return nil. It is therefore safe
// to defer Close right after NewWriter and still call it explicitly to observe
// its error. A writer that failed on a sink error has already released the sink
// and does not write a footer.
//
// Returns:
//   - error: The sink error raised while writing the footer, flushing or closing the sink
func (w *Writer) Close() error {
	if w.state != stateOpen {
		return nil
	}

	footer := section.Footer{
		Streams: make([]section.StreamHeader, len(w.streams)),
		Chunks:  w.entries,
		Offset:  w.offset,
	}
	for i, d := range w.streams {
		footer.Streams[i] = section.NewStreamHeader(d)
	}

	if err := w.write(footer.AppendTo(make([]byte, 0, footer.Size()), w.engine)); err != nil {
		return err
	}

	if w.buffer != nil {
		if err := w.buffer.Flush(); err != nil {
			return w.fail(fmt.Errorf("flush container: %w", err))
		}
	}

	w.state = stateClosed
	w.footerOffset = footer.Offset

	w.logger.Info().
		Int("chunks", len(w.entries)).
		Int("streams", len(w.streams)).
		Uint64("samples", w.samples).
		Uint64("footer_offset", w.footerOffset).
		Str("size", w.Summary().String()).
		Msg("container closed")

	if err := w.release(); err != nil {
		return fmt.Errorf("close sink: %w", err)
	}

	return nil
}

func (w *Writer) checkOpen() error {
	switch w.state {
	case stateOpen:
		return nil
	case stateClosed:
		return errs.ErrContainerClosed
	default:
		return fmt.Errorf("%w: %w", errs.ErrWriterFailed, w.failure)
	}
}

// write sends p to the sink and advances the offset.
func (w *Writer) write(p []byte) error {
	n, err := w.out.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return w.fail(fmt.Errorf("write container at offset %d: %w", w.offset, err))
	}

	_, _ = w.digest.Write(p)
	w.offset += uint64(n)

	return nil
}

// fail moves the writer to the failed state and releases the sink.
func (w *Writer) fail(err error) error {
	w.state = stateFailed
	w.failure = err

	w.logger.Error().Err(err).Uint64("offset", w.offset).Msg("container writer failed")

	if closeErr := w.release(); closeErr != nil {
		return errors.Join(err, fmt.Errorf("close sink: %w", closeErr))
	}

	return err
}

func (w *Writer) release() error {
	if !w.cfg.closeSink {
		return nil
	}

	if closer, ok := w.sink.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// Streams returns the stream descriptors in container order.
func (w *Writer) Streams() []*stream.Descriptor {
	out := make([]*stream.Descriptor, len(w.streams))
	copy(out, w.streams)

	return out
}

// Stream returns the descriptor of a stream by name.
func (w *Writer) Stream(name string) (*stream.Descriptor, bool) {
	pos, ok := w.names.Lookup(name)
	if !ok {
		return nil, false
	}

	return w.streams[pos], true
}

// Entries returns a copy of the chunk index accumulated so far.
func (w *Writer) Entries() []section.ChunkIndexEntry {
	out := make([]section.ChunkIndexEntry, len(w.entries))
	copy(out, w.entries)

	return out
}

// ChunkCount returns the number of chunks appended so far.
func (w *Writer) ChunkCount() int {
	return len(w.entries)
}

// Offset returns the absolute offset of the next byte written to the sink.
func (w *Writer) Offset() uint64 {
	return w.offset
}

// Closed reports whether the footer has been written.
func (w *Writer) Closed() bool {
	return w.state == stateClosed
}

// Err returns the sink error that failed the writer, or nil.
func (w *Writer) Err() error {
	return w.failure
}
