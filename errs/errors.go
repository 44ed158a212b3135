// Package errs defines the sentinel errors returned by the cbf packages.
//
// Errors are usually wrapped with additional context using fmt.Errorf and %w,
// so callers should match them with errors.Is.
package errs

import "errors"

// Stream descriptor errors.
var (
	ErrUnsupportedDataType = errors.New("unsupported data type")
	ErrInvalidDimension    = errors.New("invalid dimension: must be positive")
	ErrInvalidStreamName   = errors.New("invalid stream name")
	ErrDuplicateStreamName = errors.New("duplicate stream name")
)

// Container construction errors.
var (
	ErrNoStreams = errors.New("container requires at least one stream")
	ErrNilSink   = errors.New("nil byte sink")
)

// Chunk errors. A chunk rejected with one of these errors leaves the container untouched.
var (
	ErrUnknownStream             = errors.New("stream is not declared in the container")
	ErrMissingStream             = errors.New("stream is missing from chunk")
	ErrSequenceTypeMismatch      = errors.New("sequence type does not match stream data type")
	ErrInconsistentSequenceCount = errors.New("sequence count must be equal for all streams in a chunk")
	ErrMisalignedSequence        = errors.New("sequence length is not a multiple of the stream dimension")
	ErrEmptyChunk                = errors.New("chunk contains no streams")
	ErrCountOverflow             = errors.New("count exceeds uint32 range")
)

// Writer state errors.
var (
	ErrContainerClosed = errors.New("container is closed")
	ErrWriterFailed    = errors.New("container writer failed on a previous sink error")
)

// Schema errors.
var (
	ErrInvalidSchema = errors.New("invalid stream schema")
)
