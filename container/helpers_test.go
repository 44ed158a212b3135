package container

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cbf/format"
	"github.com/arloliu/cbf/stream"
)

type layout struct {
	b []byte
}

func (l *layout) u8(vals ...uint8) *layout {
	l.b = append(l.b, vals...)
	return l
}

func (l *layout) u32(vals ...uint32) *layout {
	for _, v := range vals {
		l.b = binary.LittleEndian.AppendUint32(l.b, v)
	}

	return l
}

func (l *layout) u64(vals ...uint64) *layout {
	for _, v := range vals {
		l.b = binary.LittleEndian.AppendUint64(l.b, v)
	}

	return l
}

func (l *layout) str(s string) *layout {
	l.u32(uint32(len(s))) //nolint: gosec
	l.b = append(l.b, s...)

	return l
}

func (l *layout) f32(vals ...float32) *layout {
	for _, v := range vals {
		l.b = binary.LittleEndian.AppendUint32(l.b, math.Float32bits(v))
	}

	return l
}

func (l *layout) f64(vals ...float64) *layout {
	for _, v := range vals {
		l.b = binary.LittleEndian.AppendUint64(l.b, math.Float64bits(v))
	}

	return l
}

func mustStream(t *testing.T, name string, dt format.DataType, dim uint32, sparse bool) *stream.Descriptor {
	t.Helper()

	d, err := stream.New(name, dt, dim, sparse)
	require.NoError(t, err)

	return d
}

// limitedSink accepts limit bytes and fails every write after that.
type limitedSink struct {
	data   []byte
	limit  int
	closed int
}

var errSinkFull = errors.New("sink full")

func (s *limitedSink) Write(p []byte) (int, error) {
	room := s.limit - len(s.data)
	if room < len(p) {
		s.data = append(s.data, p[:max(room, 0)]...)
		return max(room, 0), errSinkFull
	}
	s.data = append(s.data, p...)

	return len(p), nil
}

func (s *limitedSink) Close() error {
	s.closed++
	return nil
}
