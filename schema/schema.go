// Package schema loads stream declarations from YAML or JSON documents.
//
// A schema document lists the streams of a container in order:
//
//	streams:
//	  - name: features
//	    type: float32
//	    dimension: 3
//	    sparse: true
//	  - name: labels
//	    type: float64
//	    dimension: 4
//
// The same shape is accepted as JSON. Unknown fields are rejected.
package schema

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/cbf/errs"
	"github.com/arloliu/cbf/format"
	"github.com/arloliu/cbf/stream"
)

// Document is the decoded form of a schema file.
type Document struct {
	Streams []Stream `yaml:"streams" json:"streams" validate:"required,min=1,dive"`
}

// Stream declares one stream of a container.
type Stream struct {
	Name      string `yaml:"name" json:"name" validate:"required,printascii"`
	Type      string `yaml:"type" json:"type" validate:"required,cbf-dtype"`
	Dimension uint32 `yaml:"dimension" json:"dimension" validate:"min=1"`
	Sparse    bool   `yaml:"sparse" json:"sparse"`
}

// NewValidator returns a validator that knows the cbf-dtype tag.
func NewValidator() (*validator.Validate, error) {
	v := validator.New()
	err := v.RegisterValidation("cbf-dtype", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			panic(fmt.Errorf("%q is not a string", fl.FieldName()))
		}

		_, err := format.ParseDataType(fl.Field().String())
		return err == nil
	})

	return v, err
}

// ParseYAML decodes a YAML schema and returns its stream descriptors in order.
func ParseYAML(r io.Reader) ([]*stream.Descriptor, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, decodeError("yaml", err)
	}

	return doc.Descriptors()
}

// ParseJSON decodes a JSON schema and returns its stream descriptors in order.
func ParseJSON(r io.Reader) ([]*stream.Descriptor, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, decodeError("json", err)
	}

	return doc.Descriptors()
}

// LoadFile reads a schema file. The decoder is picked by extension:
// .yaml and .yml for YAML, .json for JSON.
func LoadFile(path string) ([]*stream.Descriptor, error) {
	var parse func(io.Reader) ([]*stream.Descriptor, error)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parse = ParseYAML
	case ".json":
		parse = ParseJSON
	default:
		return nil, fmt.Errorf("%w: unsupported schema file extension %q", errs.ErrInvalidSchema, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema: %w", err)
	}
	defer f.Close()

	descs, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return descs, nil
}

// Descriptors validates the document and builds its stream descriptors.
//
// Returns:
//   - []*stream.Descriptor: Descriptors in document order
//   - error: ErrInvalidSchema for a field that fails validation,
//     ErrDuplicateStreamName if two streams share a name
func (d *Document) Descriptors() ([]*stream.Descriptor, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}

	if err := v.Struct(d); err != nil {
		return nil, validationError(err)
	}

	seen := make(map[string]struct{}, len(d.Streams))
	descs := make([]*stream.Descriptor, 0, len(d.Streams))
	for i, s := range d.Streams {
		if _, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%w: %q", errs.ErrDuplicateStreamName, s.Name)
		}
		seen[s.Name] = struct{}{}

		dt, err := format.ParseDataType(s.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: streams[%d]: %w", errs.ErrInvalidSchema, i, err)
		}

		desc, err := stream.New(s.Name, dt, s.Dimension, s.Sparse)
		if err != nil {
			return nil, fmt.Errorf("%w: streams[%d]: %w", errs.ErrInvalidSchema, i, err)
		}
		descs = append(descs, desc)
	}

	return descs, nil
}

// FromDescriptors builds the document describing descs.
func FromDescriptors(descs []*stream.Descriptor) Document {
	doc := Document{Streams: make([]Stream, len(descs))}
	for i, d := range descs {
		doc.Streams[i] = Stream{
			Name:      d.Name(),
			Type:      strings.ToLower(d.DataType().String()),
			Dimension: d.Dimension(),
			Sparse:    d.Sparse(),
		}
	}

	return doc
}

// WriteYAML encodes the document as YAML.
func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}

	return enc.Close()
}

// WriteJSON encodes the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(d)
}

func decodeError(kind string, err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty %s document", errs.ErrInvalidSchema, kind)
	}

	return fmt.Errorf("%w: decode %s: %w", errs.ErrInvalidSchema, kind, err)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", errs.ErrInvalidSchema, err)
	}

	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}

	return fmt.Errorf("%w: %s", errs.ErrInvalidSchema, strings.Join(fields, ", "))
}
