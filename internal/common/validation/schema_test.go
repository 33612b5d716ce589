package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topicSchema = `{
	"type": "object",
	"properties": {"blog_topic": {"type": "string", "minLength": 1}},
	"required": ["blog_topic"]
}`

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(`not json`) })
}

func TestSchema_Validate(t *testing.T) {
	s := MustCompile(topicSchema)

	tests := []struct {
		name      string
		doc       string
		valid     bool
		wantCode  string
		decodeErr bool
	}{
		{name: "valid", doc: `{"blog_topic":"climate change"}`, valid: true},
		{name: "extra fields allowed", doc: `{"blog_topic":"go","tone":"casual"}`, valid: true},
		{name: "missing topic", doc: `{}`, wantCode: CodeRequired},
		{name: "empty topic", doc: `{"blog_topic":""}`, wantCode: CodeMinLength},
		{name: "numeric topic", doc: `{"blog_topic":42}`, wantCode: CodeInvalidType},
		{name: "array body", doc: `[1,2]`, wantCode: CodeInvalidType},
		{name: "not json", doc: `{"blog_topic":`, decodeErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Validate([]byte(tt.doc))
			if tt.decodeErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			if tt.wantCode != "" {
				assert.True(t, res.HasCode(tt.wantCode), "codes: %v", res.Errors)
				assert.NotEmpty(t, res.GetErrorMessages())
			}
		})
	}
}

func TestValidationResult_OnlyCodes(t *testing.T) {
	res := &ValidationResult{Errors: []ValidationError{
		{Field: "blog_topic", Code: CodeRequired},
		{Field: "blog_topic", Code: CodeMinLength},
	}}
	assert.True(t, res.OnlyCodes(CodeRequired, CodeMinLength))
	assert.False(t, res.OnlyCodes(CodeRequired))
	assert.True(t, (&ValidationResult{Valid: true}).OnlyCodes(CodeRequired))
}
