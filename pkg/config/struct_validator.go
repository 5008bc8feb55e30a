package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var structValidate = validator.New()

// ValidateStructTags runs go-playground/validator struct-tag validation
// over a ClusterOptions, OutputOptions or any other tagged option struct,
// translating the first failing tag into a readable error. Use this for
// the mechanical "is this field in range/required" checks declared on the
// struct; use Validator (the fluent builder) for cross-field rules that
// struct tags cannot express, such as GainMargEffective's root_max
// interaction.
func ValidateStructTags(v any) error {
	if err := structValidate.Struct(v); err != nil {
		return formatStructValidationError(err)
	}
	return nil
}

func formatStructValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
