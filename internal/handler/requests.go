package handler

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createPostRequest struct {
	UserID int64  `json:"user_id" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body" validate:"required"`
}

// Absent fields are left unchanged; present ones must be non-empty strings
type updatePostRequest struct {
	Title optionalString `json:"title"`
	Body  optionalString `json:"body"`
}

// optionalString tells an absent field apart from an explicit null
type optionalString struct {
	Set   bool
	Value *string
}

func (o *optionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func validateUpdatePost(sl validator.StructLevel) {
	req := sl.Current().Interface().(updatePostRequest)
	fields := []struct {
		name string
		val  optionalString
	}{
		{"title", req.Title},
		{"body", req.Body},
	}
	for _, f := range fields {
		if f.val.Set && (f.val.Value == nil || *f.val.Value == "") {
			sl.ReportError(f.val.Value, f.name, f.name, "string", "")
		}
	}
}
