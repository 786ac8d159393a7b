package checkout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

// Form holds the user-entered identity and shipping fields. The constraints
// mirror the persisted order record minus the server-computed fields (total,
// items).
type Form struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Address string `validate:"required"`
}

// FieldErrors maps a form field (lower-cased name) to a human-readable
// validation message. It is returned by Submit when the form fails local
// validation.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s %s", f, e[f])
	}
	return "invalid checkout form: " + strings.Join(parts, "; ")
}

var formValidator = validator.New(validator.WithRequiredStructEnabled())

// validateForm checks every field independently and collects one message per
// failing field.
func validateForm(f Form) FieldErrors {
	err := formValidator.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": err.Error()}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[strings.ToLower(fe.Field())] = fieldMessage(fe.Tag())
	}
	return out
}

func fieldMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
