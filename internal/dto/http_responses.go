package dto

import (
	"errors"
	"time"

	"github.com/wb-go/wbf/ginext"

	"sessionhub/internal/model"
)

const (
	MsgSessionNotFound       = "Session not found"
	MsgAttendeeNotFound      = "Attendee not found"
	MsgInvalidAttendanceCode = "Invalid attendance code or session"
	MsgInvalidManagementCode = "Invalid management code"
	MsgSessionFull           = "Session is full"
	MsgInternalError         = "Service is currently unavailable. Please try again later."
)

type CreateSessionRequest struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Description     string     `json:"description" validate:"max=4000"`
	StartTime       *time.Time `json:"start_time"`
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	MaxParticipants *int       `json:"max_participants"`
	Type            string     `json:"type" validate:"required,sessiontype"`
	CreatorEmail    string     `json:"creator_email" validate:"omitempty,email"`
	Location        string     `json:"location" validate:"max=255"`
	Latitude        *float64   `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64   `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// ResolveStartTime picks the start moment from either the explicit
// start_time field or the beginner-friendly date + time pair.
func (r CreateSessionRequest) ResolveStartTime() (time.Time, error) {
	return resolveStartTime(r.StartTime, r.Date, r.Time)
}

type UpdateSessionRequest struct {
	Title           *string    `json:"title" validate:"omitempty,max=255"`
	Description     *string    `json:"description" validate:"omitempty,max=4000"`
	StartTime       *time.Time `json:"start_time"`
	Date            *string    `json:"date"`
	Time            *string    `json:"time"`
	MaxParticipants *int       `json:"max_participants"`
	Type            *string    `json:"type" validate:"omitempty,sessiontype"`
	Location        *string    `json:"location" validate:"omitempty,max=255"`
	Latitude        *float64   `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64   `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// Patch converts the request into a merge patch for the stored row.
func (r UpdateSessionRequest) Patch() (model.SessionPatch, error) {
	p := model.SessionPatch{
		Title:           r.Title,
		Description:     r.Description,
		MaxParticipants: r.MaxParticipants,
		Type:            r.Type,
		Location:        r.Location,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
	}
	if r.StartTime != nil || (r.Date != nil && r.Time != nil) {
		var date, clock string
		if r.Date != nil {
			date = *r.Date
		}
		if r.Time != nil {
			clock = *r.Time
		}
		start, err := resolveStartTime(r.StartTime, date, clock)
		if err != nil {
			return model.SessionPatch{}, err
		}
		p.StartTime = &start
	}
	return p, nil
}

func resolveStartTime(start *time.Time, date, clock string) (time.Time, error) {
	if start != nil {
		return *start, nil
	}
	if date == "" || clock == "" {
		return time.Time{}, errors.New("start_time or (date + time) required")
	}
	return time.ParseInLocation("2006-01-02T15:04", date+"T"+clock, time.Local)
}

type JoinRequest struct {
	AttendeeName  string `json:"attendee_name" validate:"max=255"`
	AttendeeEmail string `json:"attendee_email" validate:"omitempty,email"`
	AttendeePhone string `json:"attendee_phone" validate:"max=64"`
}

type SessionResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	StartTime       time.Time `json:"start_time"`
	MaxParticipants *int      `json:"max_participants,omitempty"`
	Type            string    `json:"type"`
	CreatorEmail    *string   `json:"creator_email,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SessionWithCodesResponse is the privileged view: it carries the
// capability codes and is only sent back from create and manage, where
// the caller already holds (or is being handed) the secrets.
type SessionWithCodesResponse struct {
	SessionResponse
	ManagementCode string  `json:"management_code"`
	PrivateCode    *string `json:"private_code,omitempty"`
}

type AttendeeResponse struct {
	AttendeeName   *string   `json:"attendee_name,omitempty"`
	AttendeeEmail  *string   `json:"attendee_email,omitempty"`
	AttendeePhone  *string   `json:"attendee_phone,omitempty"`
	AttendanceCode string    `json:"attendance_code"`
	CreatedAt      time.Time `json:"created_at"`
}

type ManageViewResponse struct {
	Session   SessionWithCodesResponse `json:"session"`
	Attendees []AttendeeResponse       `json:"attendees"`
}

type JoinResponse struct {
	Success        bool   `json:"success"`
	AttendanceCode string `json:"attendance_code"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewSessionResponse(s *model.Session) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		Title:           s.Title,
		Description:     s.Description,
		StartTime:       s.StartTime,
		MaxParticipants: s.MaxParticipants,
		Type:            s.Type,
		CreatorEmail:    s.CreatorEmail,
		Location:        s.Location,
		Latitude:        s.Latitude,
		Longitude:       s.Longitude,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func NewSessionWithCodesResponse(s *model.Session) SessionWithCodesResponse {
	return SessionWithCodesResponse{
		SessionResponse: NewSessionResponse(s),
		ManagementCode:  s.ManagementCode,
		PrivateCode:     s.PrivateCode,
	}
}

func NewAttendeeResponse(a *model.Attendance) AttendeeResponse {
	return AttendeeResponse{
		AttendeeName:   a.AttendeeName,
		AttendeeEmail:  a.AttendeeEmail,
		AttendeePhone:  a.AttendeePhone,
		AttendanceCode: a.AttendanceCode,
		CreatedAt:      a.CreatedAt,
	}
}

func BadRequestError(c *ginext.Context, msg string) {
	c.JSON(400, ErrorResponse{Error: msg})
}

func ForbiddenError(c *ginext.Context, msg string) {
	c.JSON(403, ErrorResponse{Error: msg})
}

func NotFoundError(c *ginext.Context, msg string) {
	c.JSON(404, ErrorResponse{Error: msg})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, ErrorResponse{Error: MsgInternalError})
}

func SessionNotFoundError(c *ginext.Context) {
	NotFoundError(c, MsgSessionNotFound)
}

func InvalidManagementCodeError(c *ginext.Context) {
	ForbiddenError(c, MsgInvalidManagementCode)
}

func SuccessResponseOK(c *ginext.Context, data any) {
	c.JSON(200, data)
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, data)
}
