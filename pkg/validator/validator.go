// Package validator wraps go-playground/validator with order-form rules.
package validator

import (
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	auMobilePattern = regexp.MustCompile(`^(?:\+61|0)4\d{7,9}$`)
	nzMobilePattern = regexp.MustCompile(`^(?:\+64|0)2\d{6,9}$`)
)

// ValidMobile reports whether s is an Australian or New Zealand mobile number.
// Whitespace and dashes are ignored and a missing leading 0/+ is tolerated;
// the stored value is never rewritten, only checked.
func ValidMobile(s string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "\t", "").Replace(s)
	if cleaned == "" {
		return false
	}
	if !strings.HasPrefix(cleaned, "0") && !strings.HasPrefix(cleaned, "+") {
		cleaned = "0" + cleaned
	}
	return auMobilePattern.MatchString(cleaned) || nzMobilePattern.MatchString(cleaned)
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := &Validator{
		validate: validator.New(),
	}
	v.registerCustomValidations()
	return v
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMessages []string
			for _, e := range validationErrors {
				errMessages = append(errMessages, fmt.Sprintf(
					"Field '%s' failed validation '%s'",
					e.Field(),
					e.Tag(),
				))
			}
			return fmt.Errorf("validation failed: %v", errMessages)
		}
		return err
	}
	return nil
}

// ValidateStructured returns a map of field -> error message for frontend usage
func (v *Validator) ValidateStructured(i interface{}) map[string]string {
	errs := make(map[string]string)
	if err := v.validate.Struct(i); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				msg := fmt.Sprintf("failed validation on '%s'", e.Tag())
				switch e.Tag() {
				case "required":
					msg = "This field is required"
				case "email":
					msg = "Invalid email address"
				case "min":
					msg = fmt.Sprintf("Must be at least %s", e.Param())
				case "max":
					msg = fmt.Sprintf("Must be at most %s", e.Param())
				case "au_nz_mobile":
					msg = "Invalid Australian or New Zealand mobile number"
				case "oneof":
					msg = "Value is not one of the supported options"
				}
				errs[e.Field()] = msg
			}
		} else {
			errs["_global"] = err.Error()
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (v *Validator) registerCustomValidations() {
	// Report fields by their json name so the storefront can map errors
	// straight onto form inputs.
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Register decimal.Decimal to be validated as float64 for gt/lt checks
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := val.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.validate.RegisterValidation("au_nz_mobile", func(fl validator.FieldLevel) bool {
		return ValidMobile(fl.Field().String())
	})
}

// Sanitize cleans string input to prevent XSS attacks
func Sanitize(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}
