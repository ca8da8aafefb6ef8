package validator

import (
	"context"
	"errors"

	"github.com/go-playground/validator"

	"eventInvite/internal/model"
)

var global *validator.Validate

const (
	ErrInvalidFormat      = "פורמט לא תקין"
	ErrFieldRequired      = "שדה חובה"
	ErrFieldExceedsMaxLen = "השדה חורג מהאורך המרבי"
	ErrFieldBelowMinLen   = "השדה קצר מדי"
	ErrFieldExceedsMaxVal = "הערך גבוה מדי"
	ErrFieldBelowMinVal   = "הערך נמוך מדי"
	ErrInvalidEmail       = "כתובת אימייל לא תקינה"
	ErrUnknownEventType   = "סוג אירוע לא מוכר"
	ErrUnknownValidation  = "שגיאת אימות לא ידועה"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("eventtype", validateEventType)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func validateEventType(fl validator.FieldLevel) bool {
	_, ok := model.ParseEventType(fl.Field().String())
	return ok
}

func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return nil
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = ErrFieldRequired
	case "max":
		msg = ErrFieldExceedsMaxLen
	case "min":
		msg = ErrFieldBelowMinLen
	case "lt", "lte":
		msg = ErrFieldExceedsMaxVal
	case "gt", "gte":
		msg = ErrFieldBelowMinVal
	case "email":
		msg = ErrInvalidEmail
	case "eventtype":
		msg = ErrUnknownEventType
	case "oneof":
		msg = ErrInvalidFormat
	default:
		msg = ErrUnknownValidation
	}
	return errors.New(msg + ": " + ve.Field())
}
