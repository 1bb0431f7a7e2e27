package dto

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."
	Unauthorized       = "UNAUTHORIZED"

	EventNotFound         = "EVENT_NOT_FOUND"
	RegistrationDuplicate = "REGISTRATION_DUPLICATE"
)

type CreateEventRequest struct {
	Name              string `json:"event_name" validate:"required,max=255,singleline"`
	Category          string `json:"category" validate:"required"`
	RegistrationStart string `json:"registration_start" validate:"required"`
	RegistrationEnd   string `json:"registration_end" validate:"required"`
	EventDate         string `json:"event_date" validate:"required"`
}

type EventResponse struct {
	ID                int64  `json:"id"`
	Name              string `json:"event_name"`
	Category          string `json:"category"`
	CategoryLabel     string `json:"category_label"`
	RegistrationStart string `json:"registration_start"`
	RegistrationEnd   string `json:"registration_end"`
	EventDate         string `json:"event_date"`
	RegistrationOpen  bool   `json:"registration_open"`
	Created           int64  `json:"created"`
}

type CreateRegistrationRequest struct {
	FullName    string `json:"full_name" validate:"required,max=255,alnumspace"`
	Email       string `json:"email" validate:"required,max=255,email"`
	CollegeName string `json:"college_name" validate:"required,max=255,alnumspace"`
	Department  string `json:"department" validate:"required,max=255,alnumspace"`
	Category    string `json:"category"`
	EventDate   int64  `json:"event_date"`
	EventID     int64  `json:"event_id"`
}

type RegistrationResponse struct {
	ID          int64  `json:"id"`
	EventID     int64  `json:"event_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	CollegeName string `json:"college_name"`
	Department  string `json:"department"`
	Category    string `json:"category"`
	EventDate   string `json:"event_date"`
	EventName   string `json:"event_name"`
	Submitted   string `json:"submitted"`
}

type SettingsRequest struct {
	NotifyAdmin            bool   `json:"notify_admin"`
	AdminNotificationEmail string `json:"admin_notification_email" validate:"omitempty,max=255,email"`
}

// Option is one entry of a dependent select list.
type Option struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

type CategoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type RegistrationFormResponse struct {
	Open       bool             `json:"open"`
	Message    string           `json:"message,omitempty"`
	Categories []CategoryOption `json:"categories"`
	Category   string           `json:"category,omitempty"`
	Dates      []Option         `json:"dates"`
	EventDate  int64            `json:"event_date,omitempty"`
	Events     []Option         `json:"events"`
	EventID    int64            `json:"event_id,omitempty"`
}

type RegistrationListResponse struct {
	Empty         bool                   `json:"empty"`
	Message       string                 `json:"message,omitempty"`
	Dates         []Option               `json:"dates"`
	EventDate     int64                  `json:"event_date,omitempty"`
	Events        []Option               `json:"events"`
	EventID       int64                  `json:"event_id,omitempty"`
	Count         int                    `json:"count"`
	Registrations []RegistrationResponse `json:"registrations"`
}

type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"item,omitempty"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code   string            `json:"code"`
	Desc   string            `json:"desc"`
	Fields map[string]string `json:"fields,omitempty"`
}

func errorResponse(c *ginext.Context, status int, code, desc string, fields map[string]string) {
	c.AbortWithStatusJSON(status, Response{
		Status: "error",
		Error: &Error{
			Code:   code,
			Desc:   desc,
			Fields: fields,
		},
	})
}

func BadResponseError(c *ginext.Context, code, desc string) {
	errorResponse(c, http.StatusBadRequest, code, desc, nil)
}

// ValidationError reports field-keyed validation failures.
func ValidationError(c *ginext.Context, code string, fields map[string]string) {
	errorResponse(c, http.StatusUnprocessableEntity, code, "Validation failed", fields)
}

func InternalServerError(c *ginext.Context) {
	errorResponse(c, http.StatusInternalServerError, ServiceUnavailable, InternalError, nil)
}

func UnauthorizedError(c *ginext.Context) {
	errorResponse(c, http.StatusUnauthorized, Unauthorized, "Admin token is missing or invalid", nil)
}

func FieldBadFormatError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldBadFormat, "Field '"+fieldName+"' has bad format")
}

// EventNotFoundError is sent when the selected event vanished before commit;
// clients redisplay the form.
func EventNotFoundError(c *ginext.Context, desc string) {
	errorResponse(c, http.StatusConflict, EventNotFound, desc, nil)
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
