package format

import (
	"fmt"
	"strings"

	"github.com/arloliu/cbf/errs"
)

// DataType is the numeric type tag of a stream, stored as one byte in the stream table.
type DataType uint8

const (
	Float32 DataType = 0x0 // Float32 represents IEEE 754 single precision values (4 bytes).
	Float64 DataType = 0x1 // Float64 represents IEEE 754 double precision values (8 bytes).
)

// Valid reports whether the data type is one of the supported tags.
func (d DataType) Valid() bool {
	return d == Float32 || d == Float64
}

// Size returns the encoded width of a single value in bytes, or 0 for unknown tags.
func (d DataType) Size() int {
	switch d {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

func (d DataType) String() string {
	switch d {
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	default:
		return "Unknown"
	}
}

// ParseDataType converts a textual type name into a DataType.
//
// Accepted names (case-insensitive):
//   - float32, float, f32
//   - float64, double, f64
//
// Returns:
//   - DataType: The parsed data type
//   - error: ErrUnsupportedDataType for any other name
func ParseDataType(name string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "float32", "float", "f32":
		return Float32, nil
	case "float64", "double", "f64":
		return Float64, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedDataType, name)
	}
}
