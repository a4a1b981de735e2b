package serverutils

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct validation and converts failures into a
// 400 HttpError listing the offending fields.
func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return NewHttpError(http.StatusBadRequest, "validation_error", err.Error())
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s: failed on %q", fe.Field(), fe.Tag()))
	}

	httpErr := NewHttpError(http.StatusBadRequest, "validation_error", "Request validation failed")
	httpErr.Details = fields
	return httpErr
}
