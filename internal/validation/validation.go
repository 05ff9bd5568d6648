// Package validation checks form and JSON input for the request forms.
package validation

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/mbd888/peerpay/internal/addressbook"
	"github.com/mbd888/peerpay/internal/requests"
	"github.com/shopspring/decimal"
)

// MaxRequestSize is the maximum request body size (64KB). Forms here are tiny.
const MaxRequestSize = 64 << 10

// MaxStringLength is the maximum length for free-text fields.
const MaxStringLength = 256

// RequestSizeMiddleware limits request body size
func RequestSizeMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Field + ": " + e[0].Message
}

// Field returns the message for field, or "".
func (e ValidationErrors) Field(field string) string {
	for _, v := range e {
		if v.Field == field {
			return v.Message
		}
	}
	return ""
}

// Validate runs every check and collects the failures.
func Validate(validators ...func() *ValidationError) ValidationErrors {
	var errors ValidationErrors
	for _, v := range validators {
		if err := v(); err != nil {
			errors = append(errors, *err)
		}
	}
	return errors
}

// Required checks if a field is non-empty
func Required(field, value string) func() *ValidationError {
	return func() *ValidationError {
		if strings.TrimSpace(value) == "" {
			return &ValidationError{Field: field, Message: "is required"}
		}
		return nil
	}
}

// MaxLength checks if a field exceeds max length
func MaxLength(field, value string, max int) func() *ValidationError {
	return func() *ValidationError {
		if len(value) > max {
			return &ValidationError{Field: field, Message: "exceeds maximum length"}
		}
		return nil
	}
}

// ValidRecipient checks that value is an ENS name or a hex address.
func ValidRecipient(field, value string) func() *ValidationError {
	return func() *ValidationError {
		if value == "" {
			return nil // Use Required for required fields
		}
		if !isRecipient(value) {
			return &ValidationError{Field: field, Message: addressbook.InvalidMessage}
		}
		return nil
	}
}

// ValidAmount checks that value parses as a decimal greater than zero.
func ValidAmount(field, value string) func() *ValidationError {
	return func() *ValidationError {
		if value == "" {
			return nil
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return &ValidationError{Field: field, Message: "invalid amount format"}
		}
		if !d.IsPositive() {
			return &ValidationError{Field: field, Message: "amount must be greater than zero"}
		}
		return nil
	}
}

// ValidToken checks that value is one of the offered token symbols.
func ValidToken(field, value string) func() *ValidationError {
	return func() *ValidationError {
		if value == "" {
			return nil
		}
		if !requests.IsSupportedToken(value) {
			return &ValidationError{Field: field, Message: "unsupported token"}
		}
		return nil
	}
}

func isRecipient(s string) bool {
	k := addressbook.Classify(s)
	return k == addressbook.KindENS || k == addressbook.KindAddress
}

// RegisterBindings installs the recipient, token and positive_decimal
// tags on gin's binding validator so request structs can use them.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("recipient", func(fl validator.FieldLevel) bool {
		return isRecipient(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("token", func(fl validator.FieldLevel) bool {
		return requests.IsSupportedToken(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})
}

// FromBinding turns gin binding errors into field errors keyed by the
// JSON/form field name.
func FromBinding(err error) ValidationErrors {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "body", Message: "malformed request body"}}
	}
	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: lowerFirst(fe.Field()), Message: tagMessage(fe.Tag())})
	}
	return out
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "recipient":
		return addressbook.InvalidMessage
	case "token":
		return "unsupported token"
	case "positive_decimal":
		return "amount must be greater than zero"
	case "max":
		return "exceeds maximum length"
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
