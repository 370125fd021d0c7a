package validator

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/neuroscan/clinic-api/pkg/errors"
)

// RegisterTagNames makes binding errors report the json field name instead
// of the Go struct field. Call once at router setup.
func RegisterTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// BindError translates a gin binding failure into a typed validation error
// naming the first offending field.
func BindError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Validation("", err.Error())
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return errors.Validation(field, field+" is required")
	case "email":
		return errors.Validation(field, field+" must be a valid email address")
	case "min":
		return errors.Validation(field, field+" is too short")
	case "max":
		return errors.Validation(field, field+" is too long")
	case "oneof":
		return errors.Validation(field, field+" must be one of: "+fe.Param())
	default:
		return errors.Validation(field, field+" is invalid")
	}
}
