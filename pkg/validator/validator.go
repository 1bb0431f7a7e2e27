package validator

import (
	"context"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator"
)

var (
	global        *validator.Validate
	alnumSpaceRgx = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)
)

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrInvalidEmail       = "Field must be a valid email address"
	ErrAlnumSpace         = "Field may only contain letters, numbers, and spaces"
	ErrSingleLine         = "Field must not contain line breaks or control characters"
	ErrUnknownValidation  = "Unknown validation error"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("alnumspace", validateAlnumSpace)
	_ = v.RegisterValidation("singleline", validateSingleLine)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

// FieldErrors maps a payload field name to its first validation message.
type FieldErrors map[string]string

// Add records msg for field unless the field already has an error.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return strings.Join(parts, "; ")
}

// AlnumSpace reports whether s is non-empty and made of ASCII letters,
// digits and spaces.
func AlnumSpace(s string) bool {
	return alnumSpaceRgx.MatchString(s)
}

func validateAlnumSpace(fl validator.FieldLevel) bool {
	return AlnumSpace(fl.Field().String())
}

// SingleLine reports whether s is free of control characters, CR and LF
// included.
func SingleLine(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) < 0
}

func validateSingleLine(fl validator.FieldLevel) bool {
	return SingleLine(fl.Field().String())
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// Validate runs struct tag validation and returns every failing field keyed
// by its JSON name. The result is empty when structure is valid.
func Validate(ctx context.Context, structure any) FieldErrors {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) FieldErrors {
	fe := FieldErrors{}
	if err == nil {
		return fe
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fe
	}
	for _, ve := range vErrors {
		fe.Add(ve.Field(), message(ve.Tag()))
	}
	return fe
}

func message(tag string) string {
	switch tag {
	case "required":
		return ErrFieldRequired
	case "max":
		return ErrFieldExceedsMaxLen
	case "min":
		return ErrFieldBelowMinLen
	case "email":
		return ErrInvalidEmail
	case "alnumspace":
		return ErrAlnumSpace
	case "singleline":
		return ErrSingleLine
	case "oneof", "datetime":
		return ErrInvalidFormat
	default:
		return ErrUnknownValidation
	}
}
