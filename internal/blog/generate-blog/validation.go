// internal/blog/generate-blog/validation.go
package generateblog

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "blog-generator/internal/common/errors"
	"blog-generator/internal/common/validation"

	"github.com/aws/aws-lambda-go/events"
)

var requestSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["blog_topic"],
	"properties": {
		"blog_topic": {
			"type": ["string", "null"],
			"minLength": 1
		}
	}
}`)

// ParseInput extracts the topic from a proxy event. A missing body reads as
// "{}". Whitespace-only topics are accepted.
func ParseInput(req events.APIGatewayProxyRequest) (*Input, error) {
	body := req.Body
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, apperrors.NewMalformedRequestError(fmt.Errorf("decode base64 body: %w", err))
		}
		body = string(decoded)
	}
	if strings.TrimSpace(body) == "" {
		body = "{}"
	}

	result, err := requestSchema.Validate([]byte(body))
	if err != nil {
		return nil, apperrors.NewMalformedRequestError(err)
	}
	if !result.Valid {
		msg := strings.Join(result.GetErrorMessages(), "; ")
		if result.OnlyCodes(validation.CodeRequired, validation.CodeMinLength) {
			return nil, apperrors.NewValidationError("blog_topic", msg)
		}
		return nil, apperrors.NewMalformedRequestError(fmt.Errorf("%s", msg))
	}

	var input Input
	if err := json.Unmarshal([]byte(body), &input); err != nil {
		return nil, apperrors.NewMalformedRequestError(err)
	}
	// null passes the schema and decodes to "".
	if input.BlogTopic == "" {
		return nil, apperrors.NewValidationError("blog_topic", "blog_topic is null")
	}
	return &input, nil
}
