package model

import "time"

const (
	TypePublic  = "public"
	TypePrivate = "private"
)

type Session struct {
	ID              int64     `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description,omitempty" json:"description,omitempty"`
	StartTime       time.Time `db:"start_time" json:"start_time"`
	MaxParticipants *int      `db:"max_participants" json:"max_participants,omitempty"`
	Type            string    `db:"type" json:"type"`
	ManagementCode  string    `db:"management_code" json:"-"`
	PrivateCode     *string   `db:"private_code" json:"-"`
	CreatorEmail    *string   `db:"creator_email" json:"creator_email,omitempty"`
	Location        *string   `db:"location" json:"location,omitempty"`
	Latitude        *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude       *float64  `db:"longitude" json:"longitude,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Unlimited reports whether the session has no attendee cap.
// A missing or non-positive max_participants means unlimited.
func (s *Session) Unlimited() bool {
	return s.MaxParticipants == nil || *s.MaxParticipants <= 0
}

type Attendance struct {
	ID             int64     `db:"id" json:"id"`
	SessionID      int64     `db:"session_id" json:"session_id"`
	AttendeeName   *string   `db:"attendee_name" json:"attendee_name,omitempty"`
	AttendeeEmail  *string   `db:"attendee_email" json:"attendee_email,omitempty"`
	AttendeePhone  *string   `db:"attendee_phone" json:"attendee_phone,omitempty"`
	AttendanceCode string    `db:"attendance_code" json:"attendance_code"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// SessionPatch carries a partial update: nil fields are left untouched
// when the patch is merged against a stored session.
type SessionPatch struct {
	Title           *string
	Description     *string
	StartTime       *time.Time
	MaxParticipants *int
	Type            *string
	Location        *string
	Latitude        *float64
	Longitude       *float64
}

// Apply merges the set fields of the patch into the session. Code
// regeneration on type transitions is the caller's responsibility.
func (p SessionPatch) Apply(s *Session) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.StartTime != nil {
		s.StartTime = *p.StartTime
	}
	if p.MaxParticipants != nil {
		s.MaxParticipants = p.MaxParticipants
	}
	if p.Type != nil {
		s.Type = *p.Type
	}
	if p.Location != nil {
		s.Location = p.Location
	}
	if p.Latitude != nil {
		s.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		s.Longitude = p.Longitude
	}
}

// Empty reports whether the patch would change nothing.
func (p SessionPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.StartTime == nil &&
		p.MaxParticipants == nil && p.Type == nil && p.Location == nil &&
		p.Latitude == nil && p.Longitude == nil
}
