package applications

import (
	"bytes"
	"encoding/json"
)

// CreateRequest is the body of POST /.
// @Description A new job application
type CreateRequest struct {
	Company string  `json:"company" validate:"required,max=255,trimmed" example:"Acme Corp"`
	Status  string  `json:"status" validate:"required" example:"reviewing"`
	URL     *string `json:"url,omitempty" validate:"omitempty,max=255,absurl" example:"https://acme.example/jobs/42"`
}

// UpdateRequest is the body of PUT /{id}. Absent fields are left unchanged; "url": null
// clears the URL.
// @Description Fields to change on a job application
type UpdateRequest struct {
	Company *string        `json:"company,omitempty" validate:"omitempty,min=1,max=255,trimmed" example:"Acme Corp"`
	Status  *string        `json:"status,omitempty" example:"interviewing"`
	URL     OptionalString `json:"url" swaggertype:"string" example:"https://acme.example/jobs/42"`
}

// OptionalString tells a missing JSON field apart from an explicit null.
type OptionalString struct {
	Set   bool    // the field was present
	Value *string // nil when the field was null
}

// UnmarshalJSON is only called when the field is present.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
