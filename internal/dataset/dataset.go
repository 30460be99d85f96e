// Package dataset decodes the static YAML content files (question bank, course
// catalog, docs) after checking them against a JSON schema.
package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Schema is a compiled JSON schema for one dataset kind.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// MustSchema compiles a schema at package init; a broken schema is a programming error.
func MustSchema(name, src string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("dataset: compile %s schema: %v", name, err))
	}
	return &Schema{name: name, schema: s}
}

// Decode validates the YAML document against the schema and unmarshals it into v.
func (s *Schema) Decode(data []byte, v any) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: parse yaml: %w", s.name, err)
	}
	if doc == nil {
		return fmt.Errorf("%s: empty document", s.name)
	}
	res, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%s: validate: %w", s.name, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return &ValidationError{Dataset: s.name, Problems: msgs}
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: decode: %w", s.name, err)
	}
	return nil
}

// ValidationError lists every schema violation found in a dataset.
type ValidationError struct {
	Dataset  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid dataset: %s", e.Dataset, strings.Join(e.Problems, "; "))
}

// IsValidationError reports whether err came from a schema violation.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
