package validation

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"
)

// Error codes reported by ValidationError.Code.
const (
	CodeRequired    = "REQUIRED_FIELD_MISSING"
	CodeMinLength   = "MIN_LENGTH_VIOLATION"
	CodeInvalidType = "INVALID_TYPE"
	CodeOther       = "SCHEMA_VIOLATION"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Schema is a compiled JSON schema, safe for concurrent use.
type Schema struct {
	schema *gojsonschema.Schema
}

// Compile parses a JSON schema document.
func Compile(schemaJSON string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompile is Compile for package-level schemas.
func MustCompile(schemaJSON string) *Schema {
	s, err := Compile(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a raw JSON document. The returned error is non-nil only
// when doc is not JSON at all; schema violations are reported in the result.
func (s *Schema) Validate(doc []byte) (*ValidationResult, error) {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   fieldOf(re),
			Message: re.Description(),
			Code:    codeOf(re.Type()),
		})
	}
	return out, nil
}

func fieldOf(re gojsonschema.ResultError) string {
	if prop, ok := re.Details()["property"].(string); ok && prop != "" {
		return prop
	}
	return re.Field()
}

func codeOf(errType string) string {
	switch errType {
	case "required":
		return CodeRequired
	case "string_gte":
		return CodeMinLength
	case "invalid_type":
		return CodeInvalidType
	default:
		return CodeOther
	}
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasCode reports whether any error carries code.
func (vr *ValidationResult) HasCode(code string) bool {
	return lo.SomeBy(vr.Errors, func(e ValidationError) bool { return e.Code == code })
}

// OnlyCodes reports whether every error carries one of codes.
func (vr *ValidationResult) OnlyCodes(codes ...string) bool {
	return lo.EveryBy(vr.Errors, func(e ValidationError) bool { return lo.Contains(codes, e.Code) })
}
