package dto

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "השירות אינו זמין כרגע. נסו שוב מאוחר יותר."

	EventNotFound = "EVENT_NOT_FOUND"
	GuestNotFound = "GUEST_NOT_FOUND"
	StepBlocked   = "STEP_BLOCKED"
	Unauthorized  = "UNAUTHORIZED"
	Forbidden     = "FORBIDDEN"
	EmailTaken    = "EMAIL_TAKEN"
)

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func errorResponse(c *ginext.Context, status int, code, desc string) {
	c.JSON(status, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func BadResponseError(c *ginext.Context, code, desc string) {
	errorResponse(c, http.StatusBadRequest, code, desc)
}

// InternalServerError hides the cause; desc overrides the generic message.
func InternalServerError(c *ginext.Context, desc ...string) {
	msg := InternalError
	if len(desc) > 0 && desc[0] != "" {
		msg = desc[0]
	}
	errorResponse(c, http.StatusInternalServerError, ServiceUnavailable, msg)
}

func FieldBadFormatError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldBadFormat, "השדה '"+fieldName+"' בפורמט שגוי")
}

func FieldIncorrectError(c *ginext.Context, desc string) {
	BadResponseError(c, FieldIncorrect, desc)
}

func EventNotFoundError(c *ginext.Context) {
	errorResponse(c, http.StatusNotFound, EventNotFound, "האירוע לא נמצא")
}

func GuestNotFoundError(c *ginext.Context, desc string) {
	errorResponse(c, http.StatusNotFound, GuestNotFound, desc)
}

func UnauthorizedError(c *ginext.Context) {
	errorResponse(c, http.StatusUnauthorized, Unauthorized, "יש להתחבר כדי להמשיך")
}

func ForbiddenError(c *ginext.Context) {
	errorResponse(c, http.StatusForbidden, Forbidden, "אין הרשאה לאירוע זה")
}

func EmailTakenError(c *ginext.Context) {
	errorResponse(c, http.StatusConflict, EmailTaken, "כתובת המייל כבר רשומה")
}

// StepBlockedError answers a gated wizard step with the step to reopen.
func StepBlockedError(c *ginext.Context, desc string, reopen int) {
	c.JSON(http.StatusConflict, Response{
		Status: "error",
		Error:  &Error{Code: StepBlocked, Desc: desc},
		Data:   StepBlockedData{Message: desc, Reopen: reopen},
	})
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusCreated, Response{
		Status: "ok",
		Data:   data,
	})
}
