package model

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UUIDSet is a set of opaque external ids stored as a JSONB array.
// Duplicate handling is enforced by validation, not by the column type.
type UUIDSet = datatypes.JSONSlice[uuid.UUID]

// ValidationError reports a single violated field constraint. Entity
// validation stops at the first violation so that no partial state change
// is ever attempted for an invalid record.
type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s (%s): %s", e.Field, e.Rule, e.Message)
}

func newValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule, Message: message}
}

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Six-digit hex only; the shorthand #abc form accepted by the builtin
	// hexcolor tag is not a valid board color.
	_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return hexColorRe.MatchString(fl.Field().String())
	})
	return v
}

// checkStruct runs tag-level validation and converts the first failure
// into a *ValidationError.
func checkStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return newValidationError(fe.Field(), fe.Tag(), fmt.Sprintf("value %q violates rule %q", fe.Value(), fe.Tag()))
		}
		return err
	}
	return nil
}

func containsUUID(set []uuid.UUID, id uuid.UUID) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

func hasDuplicateUUID(set []uuid.UUID) bool {
	seen := make(map[uuid.UUID]struct{}, len(set))
	for _, v := range set {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}
