// Package cbf writes CNTK binary format containers: a chunked, indexed file of
// per-stream sequence data used as training corpus input.
//
// A container declares its streams up front. Each stream has a name, an element
// type (float32 or float64), a sample dimension and a dense or sparse layout.
// Data is appended in chunks; every chunk carries the same number of sequences
// for every stream. Closing the container writes a footer that indexes the
// stream table and every chunk.
//
// # Basic Usage
//
//	features, _ := stream.NewSparse("features", format.Float32, 3)
//	labels, _ := stream.NewDense("labels", format.Float64, 4)
//
//	err := cbf.WithFile("train.cbf", []*stream.Descriptor{features, labels}, func(w *container.Writer) error {
//		return w.AppendChunk(container.Chunk{
//			features: stream.Float32Batch{{0, 0, 1, 2, 0, 0}},
//			labels:   stream.Float64Batch{{0, 1, 0, 0, 1, 0, 0, 0}},
//		})
//	})
//
// Stream schemas can also be loaded from YAML or JSON files with the schema package.
//
// # Package Structure
//
// This package provides file-based wrappers around the container package. For
// writing to arbitrary sinks use container.NewWriter directly.
package cbf

import (
	"errors"
	"fmt"
	"os"

	"github.com/arloliu/cbf/container"
	"github.com/arloliu/cbf/internal/hash"
	"github.com/arloliu/cbf/stream"
)

// Create creates or truncates the file at path and opens a container writer on it.
//
// The writer owns the file: Close writes the footer and closes the file.
//
// Parameters:
//   - path: Container file path
//   - streams: Stream descriptors in container order
//   - opts: Writer options
//
// Returns:
//   - *container.Writer: Open writer
//   - error: File creation error or any container.NewWriter error
func Create(path string, streams []*stream.Descriptor, opts ...container.Option) (*container.Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create container file: %w", err)
	}

	w, err := container.NewWriter(f, streams, opts...)
	if err != nil {
		return nil, errors.Join(err, f.Close())
	}

	return w, nil
}

// WithFile creates a container file, passes its writer to fn and closes the
// writer on every exit path, including a panic in fn.
//
// The footer is written even when fn returns an error, so the chunks appended
// before the error remain readable. Errors from fn and Close are joined.
//
// Example:
//
//	err := cbf.WithFile("out.cbf", streams, func(w *container.Writer) error {
//		for _, c := range chunks {
//			if err := w.AppendChunk(c); err != nil {
//				return err
//			}
//		}
//		return nil
//	})
func WithFile(path string, streams []*stream.Descriptor, fn func(*container.Writer) error, opts ...container.Option) (err error) {
	w, err := Create(path, streams, opts...)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, w.Close())
	}()

	return fn(w)
}

// StreamID returns the 64-bit xxHash of a stream name, the identifier stream
// descriptors are looked up by.
func StreamID(name string) uint64 {
	return hash.ID(name)
}
