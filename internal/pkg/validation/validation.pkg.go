package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"jengamart/internal/common/enum"

	"github.com/gin-gonic/gin/binding"

	"github.com/go-playground/validator/v10"
)

var val *validator.Validate

var validationMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"min":      "must be greater than or equal to %s",
	"max":      "must be less than or equal to %s",
	"len":      "must have the exact length of %s",
	"alphanum": "must contain only alphanumeric characters",
	"gt":       "must be greater than %s",
	"gte":      "must be greater than or equal to %s",
	"oneof":    "must be one of the allowed values: %s",
	"enum":     "must be one of the allowed enum values: %s",
	"phone":    "must be a valid phone number",
	"mpesacode": "must be an alphanumeric confirmation code of at least 6 characters",
}

func Setup() error {
	val = validator.New(validator.WithRequiredStructEnabled())

	if err := registerValidations(val); err != nil {
		return fmt.Errorf("failed to register custom validations: %w", err)
	}

	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := registerValidations(v); err != nil {
			return fmt.Errorf("failed to register custom validations in Gin engine: %w", err)
		}
	} else {
		return fmt.Errorf("failed to get validation engine")
	}

	return nil
}

func registerValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("enum", enum.ValidateEnum); err != nil {
		return fmt.Errorf("failed to register enum validation: %w", err)
	}
	if err := v.RegisterValidation("phone", validatePhone); err != nil {
		return fmt.Errorf("failed to register phone validation: %w", err)
	}
	if err := v.RegisterValidation("mpesacode", validateMpesaCode); err != nil {
		return fmt.Errorf("failed to register mpesacode validation: %w", err)
	}
	return nil
}

// validatePhone accepts local (07XXXXXXXX) and international (+2547XXXXXXXX)
// mobile numbers.
func validatePhone(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	return regexp.MustCompile(`^(\+?[0-9]{10,13})$`).MatchString(phone)
}

// validateMpesaCode checks the shape of a manual confirmation code. Length
// is gated again in the domain so the rule holds for non-HTTP callers.
func validateMpesaCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	return regexp.MustCompile(`^[A-Za-z0-9]{6,12}$`).MatchString(code)
}

func Validate(payload interface{}) error {
	if err := val.Struct(payload); err != nil {
		var errorMessages []string

		validationErrors := parsingErrorValidate(err)
		if validationErrors != "" {
			errorMessages = append(errorMessages, validationErrors)
		}
		message := "Validation failed: " + strings.Join(errorMessages, ", ")
		return errors.New(message)
	}

	return nil
}

func parsingErrorValidate(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		var sb strings.Builder
		for _, e := range errs {
			name := e.Namespace()
			field := e.Field()
			tag := e.Tag()
			param := e.Param()
			tp := e.Type()

			msg := validationMessages[tag]
			switch tag {
			case "enum":
				msg = fmt.Sprintf(msg, tp)
			default:
				if strings.Contains(msg, "%s") {
					msg = fmt.Sprintf(msg, param)
				}
			}
			sb.WriteString(fmt.Sprintf("%s: %s %s", name, field, msg))
			sb.WriteString(", ")
		}
		return strings.TrimSuffix(sb.String(), ", ")
	}
	return err.Error()
}
