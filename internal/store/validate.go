package store

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/cjeanneret/coverplan/internal/coverage"
)

// ErrInvalidRecord wraps schema violations of a coverage record.
var ErrInvalidRecord = errors.New("invalid coverage record")

//go:embed record.schema.json
var recordSchema []byte

// Validator checks coverage records against the embedded JSON schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the record schema.
func NewValidator() (*Validator, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(recordSchema))
	if err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	return &Validator{schema: s}, nil
}

// Validate checks raw JSON against the schema.
func (v *Validator) Validate(data []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(msgs, "; "))
	}
	return nil
}

// DecodeRecord validates data and decodes it.
func (v *Validator) DecodeRecord(data []byte) (coverage.Record, error) {
	if err := v.Validate(data); err != nil {
		return coverage.Record{}, err
	}
	var rec coverage.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return coverage.Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return rec, nil
}
