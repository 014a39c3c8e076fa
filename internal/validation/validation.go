package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/reelfinder/reelfinder/internal/metadata/omdb"
)

// Accepted release year range.
const (
	MinYear = 1800
	MaxYear = 3000
)

var (
	ErrInvalidYear       = fmt.Errorf("year must be a number between %d and %d", MinYear, MaxYear)
	ErrInvalidResultType = fmt.Errorf("type must be one of %s", joinResultTypes())
	ErrUnknownField      = errors.New("unknown search field")
)

// paramTags holds the validation tag for each search param value.
var paramTags = map[string]string{
	"title": "",
	"year":  "omitempty,search_year",
	"type":  "omitempty,result_type",
}

// Validator validates request payloads and search param values.
type Validator struct {
	validator                *validator.Validate
	logger                   zerolog.Logger
	tagValidationDetailsOnce sync.Once
	tagValidationDetailsMap  map[string]tagValidationDetails
}

type tagValidationDetails struct {
	validatorFunc validator.Func
	err           error
}

// New creates a Validator with the custom tags registered.
func New(logger zerolog.Logger) (*Validator, error) {
	v := &Validator{
		validator: validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger.With().Str("component", "validation").Logger(),
	}
	v.validator.RegisterTagNameFunc(useJSONFieldNames)
	if err := v.registerCustomValidatorsForTags(); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate validates a struct. It satisfies echo.Validator.
func (v *Validator) Validate(i any) error {
	if err := v.validator.Struct(i); err != nil {
		v.logger.Debug().Err(err).Msg("validation failed")
		return v.translate(err)
	}
	return nil
}

// ValidateParam validates the value of a single search param.
func (v *Validator) ValidateParam(key, value string) error {
	tag, ok := paramTags[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	if tag == "" {
		return nil
	}
	if err := v.validator.Var(value, tag); err != nil {
		v.logger.Debug().Str("field", key).Str("value", value).Msg("param validation failed")
		return v.translate(err)
	}
	return nil
}

func (v *Validator) translate(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	first := validationErrs[0]
	if details, ok := v.getTagValidationDetails()[first.Tag()]; ok {
		return details.err
	}

	switch first.Tag() {
	case "required":
		return fmt.Errorf("missing required field '%s'", first.Field())
	case "min", "max":
		return fmt.Errorf("value or length of field '%s' is not in the expected range", first.Field())
	case "oneof":
		return fmt.Errorf("field '%s' must be one of: %s", first.Field(), first.Param())
	}
	return err
}

func (v *Validator) getTagValidationDetails() map[string]tagValidationDetails {
	v.tagValidationDetailsOnce.Do(func() {
		v.tagValidationDetailsMap = map[string]tagValidationDetails{
			"search_year": {validatorFunc: isValidYear, err: ErrInvalidYear},
			"result_type": {validatorFunc: isValidResultType, err: ErrInvalidResultType},
		}
	})
	return v.tagValidationDetailsMap
}

func (v *Validator) registerCustomValidatorsForTags() error {
	for tag, details := range v.getTagValidationDetails() {
		if err := v.validator.RegisterValidation(tag, details.validatorFunc); err != nil {
			v.logger.Error().Err(err).Str("tag", tag).Msg("failed to register custom validator function")
			return err
		}
	}
	return nil
}

func useJSONFieldNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func isValidYear(fl validator.FieldLevel) bool {
	year, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return year >= MinYear && year <= MaxYear
}

func isValidResultType(fl validator.FieldLevel) bool {
	return omdb.ResultType(fl.Field().String()).Valid()
}

func joinResultTypes() string {
	names := make([]string, len(omdb.ResultTypes))
	for i, t := range omdb.ResultTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
