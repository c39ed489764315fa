package render

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func configureValidator(validate *validator.Validate) {
	validate.RegisterTagNameFunc(useJSONTagNames)
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

// fieldMessage phrases validation failures the way the API always has:
// `"email" must be a valid email` and friends
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "email":
		return fmt.Sprintf("%q must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", fe.Field())
	}
}
