package wizard

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joramcars/dealership-web/pkg/enums"
	pkgerrors "github.com/joramcars/dealership-web/pkg/errors"
)

// Fields is the flat scalar field set of the sell-car form. Values are kept as
// entered; numeric fields are checked when a step is left.
type Fields struct {
	Make         string `json:"make" validate:"required,max=100"`
	Model        string `json:"model" validate:"required,max=100"`
	Year         string `json:"year" validate:"required,number,len=4"`
	Mileage      string `json:"mileage" validate:"required,number"`
	Price        string `json:"price" validate:"omitempty,number"`
	Condition    string `json:"condition" validate:"omitempty,oneof=excellent good fair"`
	Transmission string `json:"transmission" validate:"omitempty,oneof=Automatic Manual"`
	FuelType     string `json:"fuel_type" validate:"omitempty,oneof=Petrol Diesel Hybrid Electric"`
	UserName     string `json:"user_name" validate:"required,min=2,max=100"`
	UserPhone    string `json:"user_phone" validate:"required,min=10,max=20"`
	UserEmail    string `json:"user_email" validate:"omitempty,email"`
}

// NewFields returns the blank form with its preselected condition.
func NewFields() Fields {
	return Fields{Condition: enums.DefaultCondition.String()}
}

// Identified reports whether the form holds enough to be worth saving.
func (f Fields) Identified() bool {
	return f.Make != "" || f.Model != ""
}

// Map returns the non-empty fields keyed by form name.
func (f Fields) Map() map[string]string {
	out := map[string]string{}
	for name, ptr := range f.pointers() {
		if *ptr != "" {
			out[name] = *ptr
		}
	}
	return out
}

// pointers exposes each field by form name; the receiver must be addressable.
func (f *Fields) pointers() map[string]*string {
	return map[string]*string{
		"make":         &f.Make,
		"model":        &f.Model,
		"year":         &f.Year,
		"mileage":      &f.Mileage,
		"price":        &f.Price,
		"condition":    &f.Condition,
		"transmission": &f.Transmission,
		"fuel_type":    &f.FuelType,
		"user_name":    &f.UserName,
		"user_phone":   &f.UserPhone,
		"user_email":   &f.UserEmail,
	}
}

// FieldNames lists the form names in sorted order.
func FieldNames() []string {
	var f Fields
	names := make([]string, 0, 11)
	for name := range f.pointers() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply merges patch into a copy of f. Unknown names are rejected and leave f untouched.
func (f Fields) Apply(patch map[string]string) (Fields, error) {
	next := f
	ptrs := next.pointers()

	names := make([]string, 0, len(patch))
	for name := range patch {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ptr, ok := ptrs[name]
		if !ok {
			return f, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown field %q", name))
		}
		value := strings.TrimSpace(patch[name])
		if name == "condition" && value != "" {
			cond, err := enums.ParseCondition(value)
			if err != nil {
				return f, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition").
					WithDetails(map[string]string{"condition": "is invalid"})
			}
			value = cond.String()
		}
		*ptr = value
	}
	return next, nil
}

// stepFields lists the struct fields checked before leaving each step.
var stepFields = map[Step][]string{
	StepDetails: {"Make", "Model", "Year", "Mileage", "Price", "Condition", "Transmission", "FuelType"},
	StepPhotos:  nil,
	StepContact: {"UserName", "UserPhone", "UserEmail"},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// ValidateStep checks the fields that belong to step.
func ValidateStep(f Fields, step Step) error {
	names := stepFields[step]
	if len(names) == 0 {
		return nil
	}
	return formatValidationErrors(validate.StructPartial(f, names...))
}

// ValidateAll checks every field, as done before submission.
func ValidateAll(f Fields) error {
	return formatValidationErrors(validate.Struct(f))
}

func formatValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "please complete the required fields").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "number":
		return "must be a whole number"
	case "len":
		return fmt.Sprintf("must be %s digits", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	}
	return "is invalid"
}
