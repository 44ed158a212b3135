// Package container writes CNTK binary containers.
//
// A container is a prefix, a run of chunks, a footer and an 8-byte trailer
// pointing back at the footer. A Writer writes the prefix on creation, one
// chunk per AppendChunk call and the footer on Close:
//
//	w, err := container.NewWriter(f, []*stream.Descriptor{features, labels})
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//
//	err = w.AppendChunk(container.Chunk{
//		features: stream.Float32Batch{{0, 1.5, 0, 2}, {3, 0, 0, 0}},
//		labels:   stream.Float32Batch{{1, 0}, {0, 1}},
//	})
//
// Chunks are validated as a whole before any byte reaches the sink. A rejected
// chunk leaves the container exactly as it was. A sink error is not
// recoverable: the writer releases the sink and refuses further chunks.
package container
