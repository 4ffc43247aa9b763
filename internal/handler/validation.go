package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/Dan9191/posts-service/internal/service"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("malformed JSON body")

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateUpdatePost, updatePostRequest{})
	return v
}

// decode reads a JSON body into dst and validates it. Failures are either
// errMalformedBody or a *service.ValidationError.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	switch {
	case errors.Is(err, io.EOF):
		// An empty body is validated as an empty object.
	case err != nil:
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return service.NewValidationError(typeErr.Field, typeMessage(typeErr))
		}
		return errMalformedBody
	default:
		// Only whitespace may follow the value.
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return errMalformedBody
		}
	}
	return h.check(dst)
}

func (h *Handler) check(dst any) error {
	err := h.validate.Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &service.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	attr := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", attr)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", attr)
	case "string":
		return fmt.Sprintf("The %s must be a string.", attr)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", attr, fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", attr)
	}
}

func typeMessage(err *json.UnmarshalTypeError) string {
	attr := strings.ReplaceAll(err.Field, "_", " ")
	switch err.Type.Kind() {
	case reflect.String:
		return fmt.Sprintf("The %s must be a string.", attr)
	case reflect.Int, reflect.Int64:
		return fmt.Sprintf("The %s must be an integer.", attr)
	default:
		return fmt.Sprintf("The %s is invalid.", attr)
	}
}

// badInput writes the response for a decode failure
func (h *Handler) badInput(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errMalformedBody) {
		sendError(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	h.writeError(w, r, err)
}
