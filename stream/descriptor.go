// Package stream defines the stream descriptors and sequence batches written
// into a CNTK binary container.
//
// A stream is a named logical channel with a fixed numeric type, a per-sample
// dimension and a dense/sparse encoding choice. Descriptors are immutable once
// created and are shared by pointer between the caller and the container writer.
//
//	features, err := stream.NewSparse("features", format.Float32, 3)
//	labels, err := stream.NewDense("labels", format.Float64, 4)
//
// Per chunk, every stream supplies a Batch of variable-length sequences whose
// element type matches the stream's data type:
//
//	stream.Float32Batch{{0, 2, 3, 4, 0, 6}, {1, 0, 0}}
package stream

import (
	"fmt"
	"math"

	"github.com/arloliu/cbf/errs"
	"github.com/arloliu/cbf/format"
	"github.com/arloliu/cbf/internal/hash"
)

// Descriptor describes one logical stream of a container.
type Descriptor struct {
	name      string
	id        uint64
	dataType  format.DataType
	dimension uint32
	sparse    bool
}

// New creates a stream descriptor.
//
// Parameters:
//   - name: Non-empty ASCII identifier, written length-prefixed into the stream table
//   - dataType: format.Float32 or format.Float64
//   - dimension: Number of scalar values per sample (must be positive)
//   - sparse: Selects the sparse encoding for this stream in every chunk
//
// Returns:
//   - *Descriptor: The immutable descriptor
//   - error: ErrUnsupportedDataType, ErrInvalidDimension or ErrInvalidStreamName
func New(name string, dataType format.DataType, dimension uint32, sparse bool) (*Descriptor, error) {
	if !dataType.Valid() {
		return nil, fmt.Errorf("%w: tag %d", errs.ErrUnsupportedDataType, uint8(dataType))
	}

	if dimension == 0 {
		return nil, fmt.Errorf("%w: stream %q", errs.ErrInvalidDimension, name)
	}

	if err := validateName(name); err != nil {
		return nil, err
	}

	return &Descriptor{
		name:      name,
		id:        hash.ID(name),
		dataType:  dataType,
		dimension: dimension,
		sparse:    sparse,
	}, nil
}

// NewDense creates a dense stream descriptor.
func NewDense(name string, dataType format.DataType, dimension uint32) (*Descriptor, error) {
	return New(name, dataType, dimension, false)
}

// NewSparse creates a sparse stream descriptor.
func NewSparse(name string, dataType format.DataType, dimension uint32) (*Descriptor, error) {
	return New(name, dataType, dimension, true)
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", errs.ErrInvalidStreamName)
	}

	if uint64(len(name)) > math.MaxUint32 {
		return fmt.Errorf("%w: name length %d exceeds uint32", errs.ErrInvalidStreamName, len(name))
	}

	for i := 0; i < len(name); i++ {
		if name[i] > 0x7F {
			return fmt.Errorf("%w: %q contains non-ASCII byte at %d", errs.ErrInvalidStreamName, name, i)
		}
	}

	return nil
}

// Name returns the stream name.
func (d *Descriptor) Name() string { return d.name }

// ID returns the xxHash64 of the stream name.
func (d *Descriptor) ID() uint64 { return d.id }

// DataType returns the numeric type of the stream values.
func (d *Descriptor) DataType() format.DataType { return d.dataType }

// Dimension returns the number of values per sample.
func (d *Descriptor) Dimension() uint32 { return d.dimension }

// Sparse reports whether the stream uses the sparse encoding.
func (d *Descriptor) Sparse() bool { return d.sparse }

func (d *Descriptor) String() string {
	layout := "dense"
	if d.sparse {
		layout = "sparse"
	}

	return fmt.Sprintf("%s(%s, dim=%d, %s)", d.name, d.dataType, d.dimension, layout)
}
