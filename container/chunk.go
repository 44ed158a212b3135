package container

import (
	"fmt"

	"github.com/arloliu/cbf/errs"
	"github.com/arloliu/cbf/stream"
)

// Chunk maps each stream descriptor of a container to the batch it contributes
// to one chunk. Descriptors are matched by identity.
type Chunk map[*stream.Descriptor]stream.Batch

// NamedChunk maps stream names to the batch each stream contributes to one chunk.
type NamedChunk map[string]stream.Batch

// resolveChunk orders the batches of c by the container's stream order.
func (w *Writer) resolveChunk(c Chunk) ([]stream.Batch, error) {
	batches := make([]stream.Batch, len(w.streams))
	for d, b := range c {
		pos, ok := w.positions[d]
		if !ok {
			return nil, fmt.Errorf("%w: %s", errs.ErrUnknownStream, describe(d))
		}
		batches[pos] = b
	}

	return batches, w.checkComplete(batches, len(c))
}

// resolveNamedChunk orders the batches of c by the container's stream order.
func (w *Writer) resolveNamedChunk(c NamedChunk) ([]stream.Batch, error) {
	batches := make([]stream.Batch, len(w.streams))
	for name, b := range c {
		pos, ok := w.names.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", errs.ErrUnknownStream, name)
		}
		batches[pos] = b
	}

	return batches, w.checkComplete(batches, len(c))
}

func (w *Writer) checkComplete(batches []stream.Batch, supplied int) error {
	if supplied == len(w.streams) {
		return nil
	}

	for i, b := range batches {
		if b == nil {
			return fmt.Errorf("%w: %q", errs.ErrMissingStream, w.streams[i].Name())
		}
	}

	return nil
}

func describe(d *stream.Descriptor) string {
	if d == nil {
		return "<nil>"
	}

	return fmt.Sprintf("%q", d.Name())
}
