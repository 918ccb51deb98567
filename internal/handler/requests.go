package handler

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/neslihan-na/playlearnkids-admin/internal/validation"
)

var validate = validator.New()

// NoRequest is bound by endpoints that take no input.
type NoRequest struct{}

func (r *NoRequest) Validate() error { return nil }

// Body captures a free-form JSON object. Embedding it makes the whole
// request body land in Fields.
type Body struct {
	Fields map[string]any
}

func (b *Body) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &b.Fields)
}

// requireFields reports an empty body as a field error.
func (b *Body) requireFields() error {
	if len(b.Fields) == 0 {
		var errs validation.CustomValidationErrors
		errs.Add("body", "at least one field is required")
		return errs.Err()
	}
	return nil
}
