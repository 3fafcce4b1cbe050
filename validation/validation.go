package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator"
	"github.com/meghashyamc/searchdesk/logger"
)

var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrInvalidQuery = errors.New("invalid query")
)

type Validator struct {
	validator                *validator.Validate
	logger                   logger.Logger
	tagValidationDetailsOnce sync.Once
	tagValidationDetailsMap  map[string]tagValidationDetails
}

type tagValidationDetails struct {
	validatorFunc validator.Func
	err           func(field string) error
}

func New(logger logger.Logger) (*Validator, error) {
	validator := &Validator{validator: validator.New(), logger: logger}
	validator.validator.RegisterTagNameFunc(useFormFieldNames)
	if err := validator.registerCustomValidatorsForTags(); err != nil {
		return nil, err
	}

	return validator, nil
}

func (v *Validator) Validate(i any) error {

	if err := v.validator.Struct(i); err != nil {
		v.logger.Warn("validation failed", "err", err.Error())
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {

			tagValidationDetails, ok := v.getTagValidationDetails()[validationErrs[0].Tag()]
			if ok {
				return tagValidationDetails.err(validationErrs[0].Field())
			}

			switch validationErrs[0].Tag() {
			case "required":
				return fmt.Errorf("missing required field '%s'", validationErrs[0].Field())

			case "min", "max":
				return fmt.Errorf("value or length of field '%s' is not in the expected range", validationErrs[0].Field())

			}
		}
		return err
	}
	return nil
}
func (v *Validator) getTagValidationDetails() map[string]tagValidationDetails {
	v.tagValidationDetailsOnce.Do(func() {
		v.tagValidationDetailsMap = map[string]tagValidationDetails{
			"not_blank": {
				validatorFunc: v.isNotBlank,
				err:           func(field string) error { return fmt.Errorf("missing required field '%s'", field) },
			},
			"valid_path": {
				validatorFunc: v.isValidPath,
				err:           func(string) error { return ErrInvalidPath },
			},
			"valid_query": {
				validatorFunc: v.isValidQuery,
				err:           func(string) error { return ErrInvalidQuery },
			},
		}
	})
	return v.tagValidationDetailsMap
}

func (v *Validator) registerCustomValidatorsForTags() error {

	tagValidationDetailsMap := v.getTagValidationDetails()

	for tag, tagValidationDetails := range tagValidationDetailsMap {
		if err := v.validator.RegisterValidation(tag, tagValidationDetails.validatorFunc); err != nil {
			v.logger.Error("failed to register customer validator function", "err", err.Error())
			return err
		}
	}
	return nil
}

// useFormFieldNames reports fields by their form name, then their json name.
func useFormFieldNames(fld reflect.StructField) string {
	for _, tagKey := range []string{"form", "json"} {
		name := strings.SplitN(fld.Tag.Get(tagKey), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func (v *Validator) isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// isValidPath only rejects blank paths and NUL bytes. The path lives on the
// search backend's filesystem and the backend resolves relative paths, so it
// cannot be stat'ed here.
func (v *Validator) isValidPath(fl validator.FieldLevel) bool {
	inputPath := fl.Field().String()
	if strings.TrimSpace(inputPath) == "" {
		v.logger.Warn("validation path is empty", "path", inputPath)
		return false
	}

	if strings.Contains(inputPath, "\x00") {
		v.logger.Warn("validation path has null byte", "path", inputPath)
		return false
	}

	return true
}

func (v *Validator) isValidQuery(fl validator.FieldLevel) bool {
	query := fl.Field().String()
	if len(query) == 0 {
		return false
	}
	if strings.TrimSpace(query) == "" {
		v.logger.Warn("query is empty", "query", query)
		return false
	}

	return true
}
