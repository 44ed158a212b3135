package container

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Summary describes what a writer has written so far.
type Summary struct {
	Chunks    int
	Streams   int
	Sequences uint64
	Samples   uint64
	// Bytes is the number of bytes written by this writer, prefix and footer included.
	Bytes uint64
	// FooterOffset is the absolute offset of the footer, zero until the writer is closed.
	FooterOffset uint64
	// Digest is the xxHash64 of every byte written by this writer.
	Digest uint64
}

// Summary returns a snapshot of the writer's counters.
func (w *Writer) Summary() Summary {
	return Summary{
		Chunks:       len(w.entries),
		Streams:      len(w.streams),
		Sequences:    w.sequences,
		Samples:      w.samples,
		Bytes:        w.offset - w.start,
		FooterOffset: w.footerOffset,
		Digest:       w.digest.Sum64(),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%s chunks, %s sequences, %s samples, %s (digest %016x)",
		humanize.Comma(int64(s.Chunks)),
		humanize.Comma(int64(s.Sequences)), //nolint: gosec
		humanize.Comma(int64(s.Samples)),   //nolint: gosec
		humanize.IBytes(s.Bytes),
		s.Digest,
	)
}
